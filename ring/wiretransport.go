package ring

import (
	"context"
	"errors"

	"github.com/ringfs/chfsd/internal/wire"
)

// wireClient adapts *wire.Client to the Transport interface, translating
// wire's TimeoutErr/TransportErr into this package's RPCError so the repair
// loop only ever has one error vocabulary to reason about.
type wireClient struct {
	c *wire.Client
}

// NewWireTransport wraps a wire.Client so it satisfies Transport.
func NewWireTransport(c *wire.Client) Transport {
	return &wireClient{c: c}
}

// Server also serves as the wire.Handler the transport's accept loop
// dispatches into.
var _ wire.Handler = (*Server)(nil)

func wrap(addr string, err error) error {
	if err == nil {
		return nil
	}
	var te *wire.TimeoutErr
	if errors.As(err, &te) {
		return timeoutErr(addr, err)
	}
	return transportErr(addr, err)
}

func (w *wireClient) Join(ctx context.Context, addr, joiner string) (string, error) {
	prev, err := w.c.Join(ctx, addr, joiner)
	return prev, wrap(addr, err)
}

func (w *wireClient) SetNext(ctx context.Context, addr, next string) error {
	return wrap(addr, w.c.SetNext(ctx, addr, next))
}

func (w *wireClient) SetPrev(ctx context.Context, addr, prev string) error {
	return wrap(addr, w.c.SetPrev(ctx, addr, prev))
}

func (w *wireClient) List(ctx context.Context, addr string, participants []string) error {
	return wrap(addr, w.c.List(ctx, addr, participants))
}

func (w *wireClient) Election(ctx context.Context, addr string, participants []string) error {
	return wrap(addr, w.c.Election(ctx, addr, participants))
}

func (w *wireClient) Coordinator(ctx context.Context, addr string, participants []string, ttl int32) error {
	return wrap(addr, w.c.Coordinator(ctx, addr, participants, ttl))
}
