package ring

import (
	"context"
	"sync"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"go.uber.org/atomic"
)

// Server is the process-wide ring membership state threaded through every
// handler: one Neighbour Table, one Membership List, one join mutex, one
// heartbeat_time scalar, one coordinator_rpc_done latch. It is the
// generalized-from-global-state value the design notes call for, rather
// than a set of package-level globals.
type Server struct {
	cfg       Config
	log       log.Logger
	transport Transport
	metrics   *metrics

	table      *Table
	membership *Membership

	joinMu sync.Mutex // serializes joins; never held across unrelated forwards.

	heartbeatTime atomic.Int64 // unix nanos, racy reads are fine.

	coordinatorOnce sync.Once
	coordinatorDone chan struct{}
	coordinatorSeen atomic.Bool

	quit chan struct{}
	wg   sync.WaitGroup
}

// NewServer constructs a Server. The caller is responsible for starting the
// transport's listener separately (internal/wire.Server) and wiring
// incoming RPCs to this Server's Join/SetNext/SetPrev/List/Election/
// Coordinator handler methods before calling Run.
func NewServer(cfg Config, t Transport) (*Server, error) {
	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}

	s := &Server{
		cfg:             cfg,
		log:             log.With(cfg.Log, "component", "ring", "self", cfg.Self),
		transport:       t,
		metrics:         newMetrics(cfg.Registerer),
		table:           NewTable(cfg.Self),
		membership:      NewMembership(cfg.Self),
		coordinatorDone: make(chan struct{}),
		quit:            make(chan struct{}),
	}
	s.touchHeartbeat()
	return s, nil
}

// Self returns this server's identity.
func (s *Server) Self() string { return s.cfg.Self }

// Membership exposes the read-only membership list to the routing layer.
func (s *Server) Membership() *Membership { return s.membership }

// Table exposes the Neighbour Table for read-only inspection (e.g. the
// status page). Callers must Release every Snapshot they Get.
func (s *Server) Table() *Table { return s.table }

// Run starts the background heartbeat task. Call Close to stop it.
func (s *Server) Run() {
	s.wg.Add(1)
	go s.heartbeatLoop()
}

// Close stops the background heartbeat task.
func (s *Server) Close() error {
	close(s.quit)
	s.wg.Wait()
	return nil
}

// WaitReady blocks until the first coordinator message has landed (the
// one-shot coordinator_rpc_done latch), or ctx is done. This is the Go
// rendition of the C original's ring_wait_coordinator_rpc; cmd/chfsd calls
// it from its /-/ready endpoint, which reports 503 until routing state
// exists. No other cmd/chfsd endpoint waits on it.
func (s *Server) WaitReady(ctx context.Context) error {
	select {
	case <-s.coordinatorDone:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Server) touchHeartbeat() {
	s.heartbeatTime.Store(time.Now().UnixNano())
}

func (s *Server) heartbeatIsTimeout() bool {
	last := time.Unix(0, s.heartbeatTime.Load())
	return time.Since(last) > s.cfg.HeartbeatTimeout
}

func (s *Server) callCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.cfg.RPCTimeout)
}

func (s *Server) debugList(tag string, participants []string) {
	for i, p := range participants {
		level.Debug(s.log).Log("msg", "participant", "rpc", tag, "index", i, "addr", p)
	}
}
