package store

// opState tracks the operation phases shared by every slice: an
// in-flight counter backing the loading flag and the last recorded
// error. Duplicate dispatches are not deduplicated; the counter keeps
// loading truthful when two operations overlap.
//
// All methods must be called with the owning slice's mutex held.
type opState struct {
	inFlight int
	err      string
}

func (s *opState) loading() bool { return s.inFlight > 0 }

func (s *opState) begin() {
	s.inFlight++
	s.err = ""
}

// end completes a mutation-class operation and reports whether the
// result should be merged. Mutations always merge on success.
func (s *opState) end(err error, fallback string) bool {
	s.inFlight--
	if err != nil {
		s.err = errText(err, fallback)
		return false
	}
	return true
}

// endFetch completes a fetch-class operation guarded by a sequence
// gate. A stale completion (a newer fetch through the same gate was
// issued meanwhile) merges nothing and records nothing, not even its
// error: the superseding fetch owns the state now. This is what lets
// the reducer safely ignore a late response for a superseded request.
func (s *opState) endFetch(g *gate, tok uint64, err error, fallback string) bool {
	s.inFlight--
	if !g.latest(tok) {
		return false
	}
	if err != nil {
		s.err = errText(err, fallback)
		return false
	}
	return true
}

// gate hands out monotonic sequence tokens for one fetch target (a
// list, a selected entity). Only the holder of the newest token may
// merge.
type gate struct {
	seq uint64
}

func (g *gate) next() uint64 {
	g.seq++
	return g.seq
}

func (g *gate) latest(tok uint64) bool { return tok == g.seq }
