package ring

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestApplyCoordinatorComputesNaturalTwoHopNeighbours(t *testing.T) {
	net := newFakeNetwork()
	a := newFakeServer(t, net, "B") // index 1 in the 5-node list below

	list := []string{"A", "B", "C", "D", "E"}
	a.applyCoordinator(list, 0)

	nextNext := a.table.Get(RoleNextNext)
	require.Equal(t, "D", nextNext.ID) // list[(1+2)%5]
	nextNext.Release()

	prevPrev := a.table.Get(RolePrevPrev)
	require.Equal(t, "E", prevPrev.ID) // list[(1-2+5)%5]
	prevPrev.Release()

	require.ElementsMatch(t, list, a.Membership().Copy())
	require.True(t, a.coordinatorSeen.Load())
}

func TestApplyCoordinatorOnTwoNodeRing(t *testing.T) {
	net := newFakeNetwork()
	a := newFakeServer(t, net, "A")

	a.applyCoordinator([]string{"A", "B"}, 0)

	nextNext := a.table.Get(RoleNextNext)
	require.Equal(t, "A", nextNext.ID)
	nextNext.Release()

	prevPrev := a.table.Get(RolePrevPrev)
	require.Equal(t, "A", prevPrev.ID)
	prevPrev.Release()
}

func TestApplyCoordinatorIsIdempotent(t *testing.T) {
	net := newFakeNetwork()
	a := newFakeServer(t, net, "B")
	list := []string{"A", "B", "C", "D", "E"}

	a.applyCoordinator(list, 0)
	first := a.table.Get(RoleNextNext)
	firstID := first.ID
	first.Release()

	a.applyCoordinator(list, 0)
	second := a.table.Get(RoleNextNext)
	require.Equal(t, firstID, second.ID)
	second.Release()
}

func TestApplyCoordinatorWhenSelfMissingDoesNotPanic(t *testing.T) {
	net := newFakeNetwork()
	a := newFakeServer(t, net, "Z") // not in the list below

	require.NotPanics(t, func() {
		a.applyCoordinator([]string{"A", "B", "C"}, 0)
	})

	// Self was pruned upstream; two-hop neighbours are left untouched, and
	// coordinator_rpc_done is not yet considered satisfied by this message.
	require.False(t, a.coordinatorSeen.Load())
}

func TestCoordinatorHandlerForwardsWhileTTLPositiveThenApplies(t *testing.T) {
	net := newFakeNetwork()
	a := newFakeServer(t, net, "A")
	b := newFakeServer(t, net, "B")

	a.table.Set(RoleNext, "B")

	a.Coordinator(context.Background(), []string{"A", "B"}, 1)

	require.True(t, a.coordinatorSeen.Load())
	require.True(t, b.coordinatorSeen.Load())
}

func TestCoordinatorHandlerAppliesImmediatelyWhenTTLZero(t *testing.T) {
	net := newFakeNetwork()
	a := newFakeServer(t, net, "A")

	a.Coordinator(context.Background(), []string{"A", "B"}, 0)

	require.True(t, a.coordinatorSeen.Load())
	require.ElementsMatch(t, []string{"A", "B"}, a.Membership().Copy())
}
