package ring

import (
	"context"
	"fmt"

	"github.com/go-kit/kit/log/level"
)

// Join implements the bootstrap-peer side of joining: splice joiner in
// between self and self.prev, repairing through prev_prev if prev is dead.
// Returns the identity joiner should install as its own prev (self becomes
// joiner's next).
func (s *Server) Join(ctx context.Context, joiner string) (string, error) {
	s.joinMu.Lock()
	defer s.joinMu.Unlock()

	prevSnap := s.table.Get(RolePrev)
	prev := prevSnap.ID
	prevSnap.Release()

	level.Info(s.log).Log("msg", "received join request", "peer", joiner, "prev", prev)

	setNextCtx, cancel := s.callCtx()
	err := s.transport.SetNext(setNextCtx, prev, joiner)
	cancel()

	usedPrev := prev
	if err != nil {
		level.Warn(s.log).Log("msg", "join: set_next to prev failed, falling back to prev_prev", "prev", prev, "err", err)

		ppSnap := s.table.Get(RolePrevPrev)
		pp := ppSnap.ID
		ppSnap.Release()

		setNextCtx2, cancel2 := s.callCtx()
		err = s.transport.SetNext(setNextCtx2, pp, joiner)
		cancel2()
		if err != nil {
			level.Error(s.log).Log("msg", "join: set_next to prev_prev also failed, aborting", "prev_prev", pp, "err", err)
			return "", fmt.Errorf("join: both prev (%s) and prev_prev (%s) unreachable: %w", prev, pp, err)
		}
		usedPrev = pp
	}

	s.table.Set(RolePrev, joiner)

	return usedPrev, nil
}

// Bootstrap is the joining node's side: send join(self) to bootstrap peer
// B, install the returned identity as prev and B as next.
func (s *Server) Bootstrap(ctx context.Context, bootstrapAddr string) error {
	prev, err := s.transport.Join(ctx, bootstrapAddr, s.Self())
	if err != nil {
		return fmt.Errorf("join against %s failed: %w", bootstrapAddr, err)
	}

	s.table.Set(RolePrev, prev)
	s.table.Set(RoleNext, bootstrapAddr)

	level.Info(s.log).Log("msg", "joined cluster", "bootstrap", bootstrapAddr, "prev", prev)
	return nil
}
