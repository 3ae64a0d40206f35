package cdc

import "testing"

func TestFlagCrossing_VisibleWithinTwoSamples(t *testing.T) {
	var f FlagCrossing

	f.Set(true)
	if !f.Get() {
		t.Fatal("writer-side view should be immediate")
	}

	// The reader must see the update no later than the second sample.
	first := f.Sample()
	second := f.Sample()
	if !first && !second {
		t.Fatal("flag not visible after two samples")
	}
	if !f.Observed() {
		t.Fatal("Observed should return the settled value")
	}
}

func TestFlagCrossing_ClearPropagates(t *testing.T) {
	var f FlagCrossing

	f.Set(true)
	f.Sample()
	f.Sample()

	f.Set(false)
	f.Sample()
	if !f.Observed() {
		// One stale sample is allowed.
		f.Sample()
	}
	f.Sample()
	if f.Observed() {
		t.Fatal("clear not visible after two samples")
	}
}

func TestTwoStage_LagIsExactlyTwoSteps(t *testing.T) {
	var ts twoStage

	var q Queue
	q.wGray.Store(7)

	if got := ts.sample(&q.wGray); got != 0 {
		t.Fatalf("first sample = %d, want stale 0", got)
	}
	if got := ts.sample(&q.wGray); got != 7 {
		t.Fatalf("second sample = %d, want 7", got)
	}
	if ts.current() != 7 {
		t.Fatalf("current() = %d, want 7", ts.current())
	}
}
