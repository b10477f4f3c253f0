package ring

import "sync/atomic"

// Membership is the local copy of the most recently coordinator-published
// node list. It is created once at server startup (singleton per server)
// and replaced wholesale on every coordinator message receipt; readers take
// a consistent snapshot via Copy rather than racing the writer.
//
// This mirrors the atomic-pointer-swap-with-snapshot pattern
// internal/api.State uses in the reference node package, generalized to a
// plain set of identities instead of a full pastry routing table.
type Membership struct {
	list atomic.Value // holds []string
}

// NewMembership creates a Membership seeded with just self, the state of a
// freshly started server before any coordinator message has arrived.
func NewMembership(self string) *Membership {
	m := &Membership{}
	m.list.Store([]string{self})
	return m
}

// Copy returns a consistent snapshot of the current membership list. This is
// the read-only interface exposed to the hashing/routing layer.
func (m *Membership) Copy() []string {
	cur := m.list.Load().([]string)
	out := make([]string, len(cur))
	copy(out, cur)
	return out
}

// Update replaces the membership list wholesale. Invoked only by the
// coordinator handler.
func (m *Membership) Update(l []string) {
	cp := make([]string, len(l))
	copy(cp, l)
	m.list.Store(cp)
}

// Contains reports whether id is present in the current membership list.
func (m *Membership) Contains(id string) bool {
	for _, n := range m.Copy() {
		if n == id {
			return true
		}
	}
	return false
}
