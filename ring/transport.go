package ring

import "context"

// Transport is the typed RPC shim a Server uses to talk to a named peer. One
// implementation (internal/wire) speaks the literal length-prefixed wire
// schema over TCP; tests use an in-memory fake that talks directly to other
// Servers in the same process.
//
// Server bounds every call with a ctx carrying the process-wide RPC timeout
// (Config.RPCTimeout); every method returns an *RPCError distinguishing
// Timeout from Transport failure on error. set_next/set_prev/list/election/
// coordinator are one-way: success only means the message was handed to the
// peer's transport, not that the peer's application logic ran.
type Transport interface {
	// Join sends a join request to addr on behalf of joiner and returns the
	// predecessor identity the peer responds with.
	Join(ctx context.Context, addr, joiner string) (prev string, err error)

	// SetNext is the one-way set_next RPC.
	SetNext(ctx context.Context, addr, next string) error

	// SetPrev is the one-way set_prev RPC.
	SetPrev(ctx context.Context, addr, prev string) error

	// List is the one-way list (heartbeat token) RPC.
	List(ctx context.Context, addr string, participants []string) error

	// Election is the one-way election RPC.
	Election(ctx context.Context, addr string, participants []string) error

	// Coordinator is the one-way coordinator RPC.
	Coordinator(ctx context.Context, addr string, participants []string, ttl int32) error
}
