// Package ring implements the membership and failure-recovery core of a
// chfsd server: the Neighbour Table, RPC shim wiring, join protocol,
// heartbeat-driven failure detector, Chang-Roberts election, and
// coordinator broadcast.
package ring

import (
	"sync"

	"go.uber.org/atomic"
)

// Role identifies one of the five neighbour pointers a server tracks.
type Role int

const (
	RoleSelf Role = iota
	RoleNext
	RolePrev
	RoleNextNext
	RolePrevPrev
)

func (r Role) String() string {
	switch r {
	case RoleSelf:
		return "self"
	case RoleNext:
		return "next"
	case RolePrev:
		return "prev"
	case RoleNextNext:
		return "next_next"
	case RolePrevPrev:
		return "prev_prev"
	default:
		return "unknown"
	}
}

const numRoles = 5

// cell is a single immutable-once-published value for a role. refs counts
// outstanding snapshots plus the table's own reference to the current
// value; it exists to make the Neighbour Table's rationale (RPCs may run
// for a while against a stable identity even as the table advances)
// checkable, since a cell's id field is never mutated after construction.
type cell struct {
	id   string
	refs atomic.Int32
}

// Snapshot is a borrowed view of a role's value at the time of Get. The
// caller must call Release exactly once. A zero-value ID (empty string)
// means the role is unset; RoleSelf is always set.
type Snapshot struct {
	Role Role
	ID   string

	table *Table
	cell  *cell
}

// IsZero reports whether the snapshotted role had no identity assigned.
func (s Snapshot) IsZero() bool { return s.ID == "" }

// Release drops this snapshot's reference. Safe to call once per Snapshot.
func (s Snapshot) Release() {
	if s.cell == nil {
		return
	}
	s.table.release(s.cell)
}

// Table holds self/next/prev/next_next/prev_prev. Every role but self may
// be empty. Reads take a refcounted Snapshot; writes atomically replace a
// role's cell and retire the old one.
type Table struct {
	slots [numRoles]struct {
		mu  sync.Mutex
		cur *cell
	}

	onFree func(id string) // test hook, may be nil
}

// NewTable creates a Table where every role is initialized to self, matching
// a freshly bootstrapped single-node ring (self == next == prev == next_next
// == prev_prev == self).
func NewTable(self string) *Table {
	t := &Table{}
	for r := Role(0); r < numRoles; r++ {
		c := &cell{id: self}
		c.refs.Store(1)
		t.slots[r].cur = c
	}
	return t
}

// Get returns a Snapshot of role's current value and increments its
// refcount. The caller must later call Release. Callers may hold at most
// one snapshot per role at a time.
func (t *Table) Get(role Role) Snapshot {
	slot := &t.slots[role]
	slot.mu.Lock()
	c := slot.cur
	c.refs.Inc()
	slot.mu.Unlock()

	return Snapshot{Role: role, ID: c.id, table: t, cell: c}
}

// Set replaces role's current value with id. The previous cell is retired
// and, once its refcount reaches zero (every outstanding snapshot has been
// released), considered freed.
func (t *Table) Set(role Role, id string) {
	slot := &t.slots[role]
	newCell := &cell{id: id}
	newCell.refs.Store(1)

	slot.mu.Lock()
	old := slot.cur
	slot.cur = newCell
	slot.mu.Unlock()

	t.release(old)
}

func (t *Table) release(c *cell) {
	if c.refs.Dec() == 0 && t.onFree != nil {
		t.onFree(c.id)
	}
}

// Self is a convenience accessor: self never changes after construction, so
// no snapshot/release dance is needed.
func (t *Table) Self() string {
	return t.slots[RoleSelf].cur.id
}

// SoleMember reports whether every role still points at self, i.e. this
// node believes it is alone in the ring.
func (t *Table) SoleMember() bool {
	self := t.Self()
	for _, r := range []Role{RoleNext, RolePrev, RoleNextNext, RolePrevPrev} {
		snap := t.Get(r)
		ok := snap.ID == self
		snap.Release()
		if !ok {
			return false
		}
	}
	return true
}
