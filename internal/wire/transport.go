package wire

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
)

// Handler is implemented by the ring package's Server. It is the seam
// between this transport's byte-level framing and the membership state
// machine, separating the byte-level RPC surface from the membership
// state machine it drives.
type Handler interface {
	Join(ctx context.Context, joiner string) (prev string, err error)
	SetNext(ctx context.Context, next string)
	SetPrev(ctx context.Context, prev string)
	List(ctx context.Context, participants []string)
	Election(ctx context.Context, participants []string)
	Coordinator(ctx context.Context, participants []string, ttl int32)
}

// TimeoutErr is returned by Client methods when the RPC's deadline elapsed.
type TimeoutErr struct{ Err error }

func (e *TimeoutErr) Error() string { return fmt.Sprintf("wire: timeout: %s", e.Err) }
func (e *TimeoutErr) Unwrap() error { return e.Err }

// TransportErr is returned by Client methods when the peer was unreachable
// or the connection broke.
type TransportErr struct{ Err error }

func (e *TransportErr) Error() string { return fmt.Sprintf("wire: transport: %s", e.Err) }
func (e *TransportErr) Unwrap() error { return e.Err }

func classify(err error) error {
	if err == nil {
		return nil
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &TimeoutErr{Err: err}
	}
	return &TransportErr{Err: err}
}

// Client makes the ring RPCs over TCP using a pooled set of connections,
// one per peer address. Its errors are TimeoutErr/TransportErr;
// ring.NewWireTransport adapts it to ring.Transport.
type Client struct {
	pool    *pool
	timeout time.Duration
}

// NewClient creates a Client. timeout bounds each dial, and is the RPC
// deadline for any call whose ctx carries none (a ctx deadline takes
// precedence); maxConns bounds the connection pool size.
func NewClient(timeout time.Duration, maxConns int) *Client {
	return &Client{
		pool:    newPool(maxConns, timeout),
		timeout: timeout,
	}
}

func (c *Client) conn(addr string) (*pooledConn, error) {
	return c.pool.get(addr)
}

func (c *Client) deadline(ctx context.Context) time.Time {
	if dl, ok := ctx.Deadline(); ok {
		return dl
	}
	return time.Now().Add(c.timeout)
}

// Join holds the connection's writeMu across the whole request/response
// round-trip: the response read must see only the bytes this call wrote.
func (c *Client) Join(ctx context.Context, addr, joiner string) (string, error) {
	pc, err := c.conn(addr)
	if err != nil {
		return "", classify(err)
	}

	pc.writeMu.Lock()
	defer pc.writeMu.Unlock()

	_ = pc.conn.SetDeadline(c.deadline(ctx))

	if err := writeOp(pc.conn, OpJoin); err != nil {
		c.pool.remove(addr)
		return "", classify(err)
	}
	if err := writeString(pc.conn, joiner); err != nil {
		c.pool.remove(addr)
		return "", classify(err)
	}

	prev, err := readString(pc.conn)
	if err != nil {
		c.pool.remove(addr)
		return "", classify(err)
	}
	return prev, nil
}

// oneWay holds the connection's writeMu for the duration of write, so a
// concurrent caller targeting the same addr (the heartbeat loop, a forward
// handler, and a freshly started election can all race here) can't
// interleave its own frame into this one.
func (c *Client) oneWay(ctx context.Context, addr string, write func(w io.Writer) error) error {
	pc, err := c.conn(addr)
	if err != nil {
		return classify(err)
	}

	pc.writeMu.Lock()
	defer pc.writeMu.Unlock()

	_ = pc.conn.SetWriteDeadline(c.deadline(ctx))

	if err := write(pc.conn); err != nil {
		c.pool.remove(addr)
		return classify(err)
	}
	return nil
}

func (c *Client) SetNext(ctx context.Context, addr, next string) error {
	return c.oneWay(ctx, addr, func(w io.Writer) error {
		if err := writeOp(w, OpSetNext); err != nil {
			return err
		}
		return writeString(w, next)
	})
}

func (c *Client) SetPrev(ctx context.Context, addr, prev string) error {
	return c.oneWay(ctx, addr, func(w io.Writer) error {
		if err := writeOp(w, OpSetPrev); err != nil {
			return err
		}
		return writeString(w, prev)
	})
}

func (c *Client) List(ctx context.Context, addr string, participants []string) error {
	return c.oneWay(ctx, addr, func(w io.Writer) error {
		if err := writeOp(w, OpList); err != nil {
			return err
		}
		return writeStringList(w, participants)
	})
}

func (c *Client) Election(ctx context.Context, addr string, participants []string) error {
	return c.oneWay(ctx, addr, func(w io.Writer) error {
		if err := writeOp(w, OpElection); err != nil {
			return err
		}
		return writeStringList(w, participants)
	})
}

func (c *Client) Coordinator(ctx context.Context, addr string, participants []string, ttl int32) error {
	return c.oneWay(ctx, addr, func(w io.Writer) error {
		if err := writeOp(w, OpCoordinator); err != nil {
			return err
		}
		if err := writeTTL(w, ttl); err != nil {
			return err
		}
		return writeStringList(w, participants)
	})
}

// Close releases all pooled connections.
func (c *Client) Close() error {
	c.pool.closeAll()
	return nil
}

// Server accepts ring RPCs over TCP and dispatches them to a Handler.
type Server struct {
	ln      net.Listener
	handler Handler
	log     log.Logger

	wg sync.WaitGroup
}

// NewServer wraps an already-bound listener. Call Serve to start accepting.
func NewServer(ln net.Listener, h Handler, l log.Logger) *Server {
	if l == nil {
		l = log.NewNopLogger()
	}
	return &Server{ln: ln, handler: h, log: log.With(l, "component", "wire_server")}
}

// Serve accepts connections until the listener is closed.
func (s *Server) Serve() error {
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			return err
		}
		s.wg.Add(1)
		go s.handleConn(conn)
	}
}

// Close closes the listener and waits for in-flight connections to drain.
func (s *Server) Close() error {
	err := s.ln.Close()
	s.wg.Wait()
	return err
}

func (s *Server) handleConn(conn net.Conn) {
	defer s.wg.Done()
	defer conn.Close()

	for {
		if err := s.handleFrame(conn); err != nil {
			if !errors.Is(err, io.EOF) {
				level.Debug(s.log).Log("msg", "connection closed", "err", err)
			}
			return
		}
	}
}

func (s *Server) handleFrame(conn net.Conn) error {
	// No read deadline here: pooled client connections sit idle between
	// RPCs, and an idle peer is not a protocol error.
	op, err := readOp(conn)
	if err != nil {
		return err
	}

	ctx := context.Background()

	switch op {
	case OpJoin:
		joiner, err := readString(conn)
		if err != nil {
			return err
		}
		prev, err := s.handler.Join(ctx, joiner)
		if err != nil {
			level.Error(s.log).Log("msg", "join handler failed", "err", err)
			return err
		}
		return writeString(conn, prev)

	case OpSetNext:
		next, err := readString(conn)
		if err != nil {
			return err
		}
		s.handler.SetNext(ctx, next)
		return nil

	case OpSetPrev:
		prev, err := readString(conn)
		if err != nil {
			return err
		}
		s.handler.SetPrev(ctx, prev)
		return nil

	case OpList:
		list, err := readStringList(conn)
		if err != nil {
			return err
		}
		s.handler.List(ctx, list)
		return nil

	case OpElection:
		list, err := readStringList(conn)
		if err != nil {
			return err
		}
		s.handler.Election(ctx, list)
		return nil

	case OpCoordinator:
		ttl, err := readTTL(conn)
		if err != nil {
			return err
		}
		list, err := readStringList(conn)
		if err != nil {
			return err
		}
		s.handler.Coordinator(ctx, list, ttl)
		return nil

	default:
		return fmt.Errorf("wire: unknown opcode %d", op)
	}
}
