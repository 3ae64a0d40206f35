// Package latency accumulates the round-trip latency of transmitted records
// from their T1/T4 stage timestamps.
package latency

import "github.com/bft-labs/bbobridge/internal/domain"

// DefaultClockPeriodNs assumes a 250 MHz cycle clock.
const DefaultClockPeriodNs = 4

// Accumulator tracks min/max/last round trip over transmitted records.
// It is owned by the consumer loop and is not safe for concurrent use;
// publish snapshots through the status registers instead.
type Accumulator struct {
	periodNs uint64

	minNs   uint64
	maxNs   uint64
	lastNs  uint64
	samples uint64
}

// New creates an accumulator converting cycles to nanoseconds at periodNs
// per cycle. A zero period uses DefaultClockPeriodNs.
func New(periodNs uint64) *Accumulator {
	if periodNs == 0 {
		periodNs = DefaultClockPeriodNs
	}
	return &Accumulator{periodNs: periodNs}
}

// Observe folds one transmitted record into the accumulator. Records with
// absent or inconsistent timestamps are ignored.
func (a *Accumulator) Observe(rec domain.Record) {
	cycles := rec.RoundTrip()
	if cycles == 0 {
		return
	}

	ns := uint64(cycles) * a.periodNs
	if a.samples == 0 || ns < a.minNs {
		a.minNs = ns
	}
	if ns > a.maxNs {
		a.maxNs = ns
	}
	a.lastNs = ns
	a.samples++
}

// MinNs returns the smallest observed round trip, 0 before any sample.
func (a *Accumulator) MinNs() uint64 { return a.minNs }

// MaxNs returns the largest observed round trip.
func (a *Accumulator) MaxNs() uint64 { return a.maxNs }

// LastNs returns the most recent round trip.
func (a *Accumulator) LastNs() uint64 { return a.lastNs }

// Samples returns the number of records folded in.
func (a *Accumulator) Samples() uint64 { return a.samples }

// Reset clears all accumulated values.
func (a *Accumulator) Reset() {
	a.minNs, a.maxNs, a.lastNs, a.samples = 0, 0, 0, 0
}
