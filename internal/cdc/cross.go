package cdc

import "sync/atomic"

// twoStage is the receiving half of a cross-domain value exchange: a pair of
// capture stages advanced once per receiving-domain step. Only the second
// stage is ever used for computation, which bounds the visibility of foreign
// updates to two steps instead of making them instantaneous. The slack is
// deliberate: a value seen late is conservative, a value seen torn would be
// wrong.
type twoStage struct {
	s1, s2 uint64
}

// sample advances the stages by one step and returns the settled value.
func (t *twoStage) sample(cell *atomic.Uint64) uint64 {
	t.s2 = t.s1
	t.s1 = cell.Load()
	return t.s2
}

// current returns the settled value from the most recent step.
func (t *twoStage) current() uint64 {
	return t.s2
}

func (t *twoStage) reset() {
	t.s1, t.s2 = 0, 0
}

// FlagCrossing carries a single sticky boolean from a writer domain to a
// reader domain using the same two-stage resample protocol as the queue's
// pointer exchange. It is a standalone primitive: exactly one goroutine may
// call the writer-side methods and exactly one the reader-side methods.
type FlagCrossing struct {
	cell atomic.Bool

	// writer-owned
	local bool

	// reader-owned
	s1, s2 bool
}

// Set raises or clears the flag. Writer side.
func (f *FlagCrossing) Set(v bool) {
	f.local = v
	f.cell.Store(v)
}

// Get returns the writer's local view of the flag. Writer side.
func (f *FlagCrossing) Get() bool {
	return f.local
}

// Sample advances the reader's capture stages by one step and returns the
// settled value. Reader side. An update becomes visible at most two Sample
// calls after Set.
func (f *FlagCrossing) Sample() bool {
	f.s2 = f.s1
	f.s1 = f.cell.Load()
	return f.s2
}

// Observed returns the settled value from the most recent Sample. Reader side.
func (f *FlagCrossing) Observed() bool {
	return f.s2
}
