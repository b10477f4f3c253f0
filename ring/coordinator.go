package ring

import (
	"context"

	"github.com/go-kit/kit/log/level"
)

// Coordinator is the coordinator broadcast RPC receiver. Every hop, including the one that
// wins the election and the one where the message completes its lap,
// applies the list and recomputes two-hop neighbours (gated only on
// whether to keep forwarding, via TTL).
func (s *Server) Coordinator(ctx context.Context, participants []string, ttl int32) {
	s.touchHeartbeat()
	s.debugList("coordinator", participants)

	list := append([]string(nil), participants...)

	if ttl > 0 {
		ttl--
		err := s.coordForward(&list, func(next string, l []string) error {
			ctx, cancel := s.callCtx()
			defer cancel()
			return s.transport.Coordinator(ctx, next, l, ttl)
		})
		if err != nil {
			level.Warn(s.log).Log("msg", "coordinator forward failed permanently", "err", err)
		}
	}

	s.applyCoordinator(list, ttl)
}

// applyCoordinator replaces the Membership List and recomputes next_next /
// prev_prev from list's natural neighbours around self. Applying the same
// list twice produces the same Neighbour Table and Membership List.
func (s *Server) applyCoordinator(list []string, ttl int32) {
	s.membership.Update(list)
	s.metrics.membershipSize.Set(float64(len(list)))

	n := len(list)
	if n == 0 {
		level.Error(s.log).Log("msg", "coordinator: empty participant list")
		return
	}

	idx := -1
	for i, id := range list {
		if id == s.Self() {
			idx = i
			break
		}
	}
	if idx < 0 {
		// self has been pruned from the list by coord_fix on some upstream
		// hop (we were the dead peer another node just routed around); there
		// is nothing for us to anchor two-hop neighbours against.
		level.Warn(s.log).Log("msg", "coordinator: self missing from final list")
		return
	}

	// Natural-form two-hop neighbours: (idx+2)/(idx-2) mod n, not the C
	// original's i-4-then-normalize form.
	nextNext := list[(idx+2)%n]
	prevPrev := list[((idx-2)%n+n)%n]

	s.table.Set(RoleNextNext, nextNext)
	s.table.Set(RolePrevPrev, prevPrev)

	s.coordinatorOnce.Do(func() {
		s.coordinatorSeen.Store(true)
		close(s.coordinatorDone)
	})
}
