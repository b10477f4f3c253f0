package ring

import (
	"context"
	"time"

	"github.com/go-kit/kit/log/level"
)

// heartbeatLoop is the periodic task that checks heartbeat staleness: if
// the quiet interval has elapsed, start an election; otherwise send a
// token-passing list RPC to next containing just [self].
func (s *Server) heartbeatLoop() {
	defer s.wg.Done()

	t := time.NewTicker(s.cfg.HeartbeatInterval)
	defer t.Stop()

	for {
		select {
		case <-s.quit:
			return
		case <-t.C:
			s.heartbeatTick()
		}
	}
}

func (s *Server) heartbeatTick() {
	if s.heartbeatIsTimeout() {
		level.Warn(s.log).Log("msg", "heartbeat timeout, starting election")
		s.StartElection()
		return
	}

	err := s.forwardWithRepair(true, func(next string) error {
		ctx, cancel := s.callCtx()
		defer cancel()
		return s.transport.List(ctx, next, []string{s.Self()})
	})
	if err != nil {
		level.Warn(s.log).Log("msg", "heartbeat", "err", err)
		s.metrics.heartbeatMisses.Inc()
	}
}

// List is the list RPC receiver: update heartbeat_time; if self already
// appears the lap is complete and the message is dropped, otherwise append
// self and forward to next with the repair loop.
func (s *Server) List(ctx context.Context, participants []string) {
	s.touchHeartbeat()
	s.debugList("list", participants)

	for _, p := range participants {
		if p == s.Self() {
			return // lap complete
		}
	}

	next := append(append([]string(nil), participants...), s.Self())
	err := s.forwardWithRepair(true, func(peer string) error {
		ctx, cancel := s.callCtx()
		defer cancel()
		return s.transport.List(ctx, peer, next)
	})
	if err != nil {
		level.Warn(s.log).Log("msg", "list forward failed permanently", "err", err)
	}
}
