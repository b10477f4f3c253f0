package router

import (
	"sort"
	"strconv"
	"sync"

	"github.com/ringfs/chfsd/id"
)

// ConsistentHash is a reference Router grounded on the pack's
// ppriyankuu-godkv/internal/cluster.ConsistentHash: a sorted ring of
// virtual-node hashes per physical identity, refreshed wholesale from a
// MembershipSource rather than incremental Join/Leave calls, since the
// ring core already owns add/remove semantics and only publishes
// membership wholesale via the coordinator broadcast.
//
// Hashing uses this module's own id package (its MD5-based generator at a
// 64-bit size) instead of ppriyankuu-godkv's truncated SHA1; routing keys
// and node identities are hashed by the same generator, so they share one
// ID space.
type ConsistentHash struct {
	gen      id.Generator
	replicas int

	mut        sync.RWMutex
	ring       map[string]string // hash digit string -> identity
	sortedKeys []string
	source     MembershipSource
	lastSeen   []string
}

// NewConsistentHash builds a Router that re-derives its ring from source on
// every Lookup whose membership has changed since the last call.
func NewConsistentHash(source MembershipSource, replicas int) *ConsistentHash {
	if replicas <= 0 {
		replicas = 8
	}
	return &ConsistentHash{
		gen:      id.NewGenerator(64),
		replicas: replicas,
		ring:     make(map[string]string),
		source:   source,
	}
}

func (c *ConsistentHash) digit(s string) string {
	return c.gen.Get(s).Digits(64, 16).String()
}

// refresh rebuilds the virtual-node ring if source's membership list has
// changed since the last refresh. Must be called with mut held for write.
func (c *ConsistentHash) refreshLocked() {
	cur := c.source.Copy()
	if stringsEqual(cur, c.lastSeen) {
		return
	}

	c.ring = make(map[string]string, len(cur)*c.replicas)
	c.sortedKeys = c.sortedKeys[:0]
	for _, node := range cur {
		for i := 0; i < c.replicas; i++ {
			key := c.digit(node + "#" + strconv.Itoa(i))
			c.ring[key] = node
			c.sortedKeys = append(c.sortedKeys, key)
		}
	}
	sort.Strings(c.sortedKeys)
	c.lastSeen = cur
}

// Lookup implements Router.
func (c *ConsistentHash) Lookup(key string) (string, bool) {
	c.mut.Lock()
	c.refreshLocked()
	c.mut.Unlock()

	c.mut.RLock()
	defer c.mut.RUnlock()

	if len(c.sortedKeys) == 0 {
		return "", false
	}

	target := c.digit(key)
	idx := sort.SearchStrings(c.sortedKeys, target)
	if idx == len(c.sortedKeys) {
		idx = 0
	}
	return c.ring[c.sortedKeys[idx]], true
}

// Remove implements Router: forgets identity ahead of the next refresh so a
// dead node isn't routed to while waiting for the next coordinator
// broadcast.
func (c *ConsistentHash) Remove(identity string) {
	c.mut.Lock()
	defer c.mut.Unlock()

	for k, v := range c.ring {
		if v == identity {
			delete(c.ring, k)
		}
	}
	kept := c.sortedKeys[:0:0]
	for _, k := range c.sortedKeys {
		if _, ok := c.ring[k]; ok {
			kept = append(kept, k)
		}
	}
	c.sortedKeys = kept

	filtered := c.lastSeen[:0:0]
	for _, n := range c.lastSeen {
		if n != identity {
			filtered = append(filtered, n)
		}
	}
	c.lastSeen = filtered
}

func stringsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
