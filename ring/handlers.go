package ring

import "context"

// SetNext is the set_next RPC receiver. Installing a new next always kicks
// a fresh election, which is what republishes two-hop neighbours so the
// newly spliced-in node becomes known ring-wide.
func (s *Server) SetNext(ctx context.Context, next string) {
	s.table.Set(RoleNext, next)
	go s.StartElection()
}

// SetPrev is the set_prev RPC receiver: a plain one-way replacement,
// no side effects beyond the table write.
func (s *Server) SetPrev(ctx context.Context, prev string) {
	s.table.Set(RolePrev, prev)
}
