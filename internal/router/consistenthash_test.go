package router

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeSource struct{ nodes []string }

func (f *fakeSource) Copy() []string {
	out := make([]string, len(f.nodes))
	copy(out, f.nodes)
	return out
}

func TestConsistentHashLooksUpToAMember(t *testing.T) {
	src := &fakeSource{nodes: []string{"A", "B", "C"}}
	ch := NewConsistentHash(src, 8)

	id, ok := ch.Lookup("/some/path")
	require.True(t, ok)
	require.Contains(t, src.nodes, id)
}

func TestConsistentHashIsStableForSameKey(t *testing.T) {
	src := &fakeSource{nodes: []string{"A", "B", "C", "D"}}
	ch := NewConsistentHash(src, 8)

	first, ok := ch.Lookup("/file.txt")
	require.True(t, ok)

	second, ok := ch.Lookup("/file.txt")
	require.True(t, ok)
	require.Equal(t, first, second)
}

func TestConsistentHashEmptyMembershipReturnsNotOK(t *testing.T) {
	src := &fakeSource{}
	ch := NewConsistentHash(src, 8)

	_, ok := ch.Lookup("/x")
	require.False(t, ok)
}

func TestConsistentHashRemoveForgetsIdentityImmediately(t *testing.T) {
	src := &fakeSource{nodes: []string{"A", "B"}}
	ch := NewConsistentHash(src, 8)

	_, ok := ch.Lookup("/warm-up") // force an initial refresh
	require.True(t, ok)

	ch.Remove("A")
	ch.Remove("B")

	// source still reports A and B until the next refresh, but Remove must
	// take effect before that refresh happens.
	_, ok = ch.Lookup("/after-remove")
	require.False(t, ok)
}

func TestConsistentHashRefreshesWhenMembershipChanges(t *testing.T) {
	src := &fakeSource{nodes: []string{"A"}}
	ch := NewConsistentHash(src, 8)

	id, ok := ch.Lookup("/x")
	require.True(t, ok)
	require.Equal(t, "A", id)

	src.nodes = []string{"B"}
	id, ok = ch.Lookup("/x")
	require.True(t, ok)
	require.Equal(t, "B", id)
}
