package ring

import (
	"context"

	"github.com/go-kit/kit/log/level"
)

// StartElection forwards election([self]) to next, with repair (election
// kick disabled on the repair itself per the original: starting a fresh
// election here already counts as "we started one"). Resets
// heartbeat_time up front so a concurrent heartbeat tick doesn't also fire.
func (s *Server) StartElection() {
	s.touchHeartbeat()
	s.metrics.electionsStarted.Inc()
	level.Debug(s.log).Log("msg", "election starts")

	err := s.forwardWithRepair(false, func(next string) error {
		ctx, cancel := s.callCtx()
		defer cancel()
		return s.transport.Election(ctx, next, []string{s.Self()})
	})
	if err != nil {
		level.Warn(s.log).Log("msg", "start_election", "err", err)
	}
}

// Election is the election RPC receiver. If self is not yet in
// the participant list, append self and forward. Otherwise self has seen
// its own identity return: self is the elected coordinator, so emit
// coordinator(L, TTL=|L|-1) to next.
func (s *Server) Election(ctx context.Context, participants []string) {
	s.touchHeartbeat()
	s.debugList("election", participants)

	for _, p := range participants {
		if p == s.Self() {
			s.becomeCoordinator(participants)
			return
		}
	}

	next := append(append([]string(nil), participants...), s.Self())
	err := s.forwardWithRepair(false, func(peer string) error {
		ctx, cancel := s.callCtx()
		defer cancel()
		return s.transport.Election(ctx, peer, next)
	})
	if err != nil {
		level.Warn(s.log).Log("msg", "election forward failed permanently", "err", err)
	}
}

// becomeCoordinator emits the terminal coordinator message. The tie-break
// falls out naturally: whichever election message laps back to its
// initiator first wins, since every node that merely forwards an
// in-flight election updates its own heartbeat_time and so never starts a
// competing one before this message completes.
func (s *Server) becomeCoordinator(participants []string) {
	list := append([]string(nil), participants...)
	ttl := int32(len(list) - 1)
	s.metrics.coordinatorsEmitted.Inc()

	level.Info(s.log).Log("msg", "elected coordinator", "list_len", len(list))

	err := s.coordForward(&list, func(next string, l []string) error {
		ctx, cancel := s.callCtx()
		defer cancel()
		return s.transport.Coordinator(ctx, next, l, ttl)
	})
	if err != nil {
		level.Warn(s.log).Log("msg", "coordinator emission failed permanently", "err", err)
		return
	}

	// The coordinator does not apply the list locally here: since it is a
	// member of the ring, the message it just forwarded will complete its
	// lap and arrive back over the wire as an ordinary Coordinator call,
	// the terminal hop of the broadcast.
}
