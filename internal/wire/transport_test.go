package wire

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fakeHandler records every RPC it receives so tests can assert on them.
type fakeHandler struct {
	joinPrev      string
	setNextCalled chan string
	setPrevCalled chan string
	listCalled    chan []string
	electionCh    chan []string
	coordCh       chan coordCall
}

type coordCall struct {
	list []string
	ttl  int32
}

func newFakeHandler() *fakeHandler {
	return &fakeHandler{
		setNextCalled: make(chan string, 1),
		setPrevCalled: make(chan string, 1),
		listCalled:    make(chan []string, 1),
		electionCh:    make(chan []string, 1),
		coordCh:       make(chan coordCall, 1),
	}
}

func (f *fakeHandler) Join(ctx context.Context, joiner string) (string, error) {
	return f.joinPrev, nil
}
func (f *fakeHandler) SetNext(ctx context.Context, next string) { f.setNextCalled <- next }
func (f *fakeHandler) SetPrev(ctx context.Context, prev string) { f.setPrevCalled <- prev }
func (f *fakeHandler) List(ctx context.Context, participants []string) {
	f.listCalled <- participants
}
func (f *fakeHandler) Election(ctx context.Context, participants []string) {
	f.electionCh <- participants
}
func (f *fakeHandler) Coordinator(ctx context.Context, participants []string, ttl int32) {
	f.coordCh <- coordCall{list: participants, ttl: ttl}
}

func startTestServer(t *testing.T, h Handler) (addr string, stop func()) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := NewServer(ln, h, nil)
	go srv.Serve()

	return ln.Addr().String(), func() { srv.Close() }
}

func TestClientServerJoinRoundTrip(t *testing.T) {
	h := newFakeHandler()
	h.joinPrev = "10.0.0.5:9001"
	addr, stop := startTestServer(t, h)
	defer stop()

	c := NewClient(time.Second, 4)
	defer c.Close()

	prev, err := c.Join(context.Background(), addr, "10.0.0.9:9001")
	require.NoError(t, err)
	require.Equal(t, "10.0.0.5:9001", prev)
}

func TestClientServerOneWayRPCs(t *testing.T) {
	h := newFakeHandler()
	addr, stop := startTestServer(t, h)
	defer stop()

	c := NewClient(time.Second, 4)
	defer c.Close()

	ctx := context.Background()
	require.NoError(t, c.SetNext(ctx, addr, "N"))
	require.NoError(t, c.SetPrev(ctx, addr, "P"))
	require.NoError(t, c.List(ctx, addr, []string{"A"}))
	require.NoError(t, c.Election(ctx, addr, []string{"A", "B"}))
	require.NoError(t, c.Coordinator(ctx, addr, []string{"A", "B", "C"}, 2))

	require.Equal(t, "N", recvString(t, h.setNextCalled))
	require.Equal(t, "P", recvString(t, h.setPrevCalled))
	require.Equal(t, []string{"A"}, recvList(t, h.listCalled))
	require.Equal(t, []string{"A", "B"}, recvList(t, h.electionCh))

	cc := recvCoord(t, h.coordCh)
	require.Equal(t, []string{"A", "B", "C"}, cc.list)
	require.Equal(t, int32(2), cc.ttl)
}

func TestClientReturnsTransportErrOnUnreachablePeer(t *testing.T) {
	c := NewClient(100*time.Millisecond, 4)
	defer c.Close()

	_, err := c.Join(context.Background(), "127.0.0.1:1", "x") // port 1: nothing listens
	require.Error(t, err)

	var te *TransportErr
	require.ErrorAs(t, err, &te)
}

func recvString(t *testing.T, ch chan string) string {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for handler call")
		return ""
	}
}

func recvList(t *testing.T, ch chan []string) []string {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for handler call")
		return nil
	}
}

func recvCoord(t *testing.T, ch chan coordCall) coordCall {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for handler call")
		return coordCall{}
	}
}
