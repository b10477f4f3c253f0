package ring

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeNetwork wires a set of in-process Servers together without sockets,
// so the repair/election/coordinator logic can be exercised directly. Each
// node in the network gets its own fakeTransport, all sharing the same
// registry and down-set.
type fakeNetwork struct {
	mu      sync.Mutex
	servers map[string]*Server
	down    map[string]bool
}

func newFakeNetwork() *fakeNetwork {
	return &fakeNetwork{
		servers: make(map[string]*Server),
		down:    make(map[string]bool),
	}
}

func (n *fakeNetwork) register(addr string, s *Server) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.servers[addr] = s
}

func (n *fakeNetwork) setDown(addr string, down bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.down[addr] = down
}

func (n *fakeNetwork) lookup(addr string) (*Server, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.down[addr] {
		return nil, fmt.Errorf("fake: %s is down", addr)
	}
	s, ok := n.servers[addr]
	if !ok {
		return nil, fmt.Errorf("fake: %s not registered", addr)
	}
	return s, nil
}

// transportFor returns a Transport bound to this network; every Server in a
// test shares the same network, since Transport carries no notion of "from".
func (n *fakeNetwork) transportFor() Transport {
	return &fakeTransport{net: n}
}

type fakeTransport struct {
	net *fakeNetwork
}

func (f *fakeTransport) Join(ctx context.Context, addr, joiner string) (string, error) {
	s, err := f.net.lookup(addr)
	if err != nil {
		return "", transportErr(addr, err)
	}
	prev, err := s.Join(ctx, joiner)
	if err != nil {
		return "", transportErr(addr, err)
	}
	return prev, nil
}

func (f *fakeTransport) SetNext(ctx context.Context, addr, next string) error {
	s, err := f.net.lookup(addr)
	if err != nil {
		return transportErr(addr, err)
	}
	s.SetNext(ctx, next)
	return nil
}

func (f *fakeTransport) SetPrev(ctx context.Context, addr, prev string) error {
	s, err := f.net.lookup(addr)
	if err != nil {
		return transportErr(addr, err)
	}
	s.SetPrev(ctx, prev)
	return nil
}

func (f *fakeTransport) List(ctx context.Context, addr string, participants []string) error {
	s, err := f.net.lookup(addr)
	if err != nil {
		return transportErr(addr, err)
	}
	s.List(ctx, participants)
	return nil
}

func (f *fakeTransport) Election(ctx context.Context, addr string, participants []string) error {
	s, err := f.net.lookup(addr)
	if err != nil {
		return transportErr(addr, err)
	}
	s.Election(ctx, participants)
	return nil
}

func (f *fakeTransport) Coordinator(ctx context.Context, addr string, participants []string, ttl int32) error {
	s, err := f.net.lookup(addr)
	if err != nil {
		return transportErr(addr, err)
	}
	s.Coordinator(ctx, participants, ttl)
	return nil
}

// newFakeServer builds a Server wired to net under identity self and
// registers it in net.
func newFakeServer(t *testing.T, net *fakeNetwork, self string) *Server {
	t.Helper()
	s, err := NewServer(Config{Self: self}, net.transportFor())
	require.NoError(t, err)
	net.register(self, s)
	return s
}
