package ring

import (
	"github.com/go-kit/kit/log/level"
)

// fixNext runs the repair step: when a forward to next fails, replace next
// with next_next (the standby successor published by the most recent
// coordinator message), restore next_next's back-link to self, optionally
// kick a fresh election, and report the new next so the caller can retry
// its forward.
//
// election controls whether a fresh election(self) is sent to the repaired
// next, matching the heartbeat/list call sites (election=true) versus the
// already-in-an-election call sites (election=false).
func (s *Server) fixNext(failedNext string, election bool) (newNext string, err error) {
	level.Debug(s.log).Log("msg", "fix_next", "remove", failedNext, "election", election)

	nn := s.table.Get(RoleNextNext)
	defer nn.Release()

	if nn.IsZero() || nn.ID == failedNext {
		level.Error(s.log).Log("msg", "no more server", "component", "fix_next")
		s.metrics.collapses.Inc()
		return "", &ErrCollapsed{Role: "next_next"}
	}

	s.table.Set(RoleNext, nn.ID)
	s.metrics.repairsPerformed.Inc()

	ctx, cancel := s.callCtx()
	defer cancel()
	if err := s.transport.SetPrev(ctx, nn.ID, s.Self()); err != nil {
		level.Error(s.log).Log("msg", "fix_next (set_prev)", "err", err)
	}

	if election {
		ctx2, cancel2 := s.callCtx()
		defer cancel2()
		if err := s.transport.Election(ctx2, nn.ID, []string{s.Self()}); err != nil {
			level.Error(s.log).Log("msg", "fix_next (election)", "err", err)
		}
	}

	return nn.ID, nil
}

// forwardWithRepair retries send against next, repairing next via fixNext
// whenever the forward fails, until it succeeds or the ring collapses.
func (s *Server) forwardWithRepair(election bool, send func(next string) error) error {
	for {
		nextSnap := s.table.Get(RoleNext)
		next := nextSnap.ID
		nextSnap.Release()

		err := send(next)
		if err == nil {
			return nil
		}

		level.Info(s.log).Log("msg", "forward failed, repairing", "next", next, "err", err)

		if _, ferr := s.fixNext(next, election); ferr != nil {
			return ferr
		}
	}
}

// pruneDead returns a new slice holding list without addr, matching the C original's
// remove_host helper shared by election-to-coordinator handoff and
// coordinator forwarding.
func pruneDead(list []string, addr string) []string {
	out := list[:0:0]
	for _, id := range list {
		if id != addr {
			out = append(out, id)
		}
	}
	return out
}

// coordForward is like forwardWithRepair, but also prunes the unreachable
// next from the coordinator's participant list before retrying, per the
// coordinator broadcast's own repair step.
//
// Unlike the C original's remove_host, ttl is not decremented when a dead
// peer is pruned here: the caller already decremented it once before the
// first send, and pruning-then-retrying reuses that same ttl rather than
// spending another decrement on a hop that never actually happened. Worst
// case this costs one extra, idempotent forward once the list is exhausted.
func (s *Server) coordForward(list *[]string, send func(next string, list []string) error) error {
	for {
		nextSnap := s.table.Get(RoleNext)
		next := nextSnap.ID
		nextSnap.Release()

		err := send(next, *list)
		if err == nil {
			return nil
		}

		level.Info(s.log).Log("msg", "coordinator forward failed, repairing", "next", next, "err", err)

		*list = pruneDead(*list, next)

		if _, ferr := s.fixNext(next, false); ferr != nil {
			return ferr
		}
	}
}
