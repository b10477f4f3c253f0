// Package router defines the interface between the ring membership core
// and the consistent-hash routing table used to locate the owner of a
// path-derived key. The routing table's internals, and the client-side
// file-descriptor/chunk arithmetic that calls into it, are out of scope for
// this module: only the interfaces are specified here, plus a
// reference implementation so the interfaces have something concrete to
// exercise.
package router

// MembershipSource is the read-only view the routing layer consumes from
// the ring core. ring.Membership satisfies this.
type MembershipSource interface {
	Copy() []string
}

// Router locates the identity that owns key, and forgets an identity once
// it has been pruned from the ring (e.g. by the coordinator broadcast).
type Router interface {
	// Lookup returns the identity responsible for key, and whether any
	// member was available to answer.
	Lookup(key string) (identity string, ok bool)

	// Remove forgets a specific identity immediately, without waiting for
	// the next membership refresh.
	Remove(identity string)
}
