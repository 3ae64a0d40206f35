package latency

import (
	"testing"

	"github.com/bft-labs/bbobridge/internal/domain"
)

func TestAccumulator_MinMaxLast(t *testing.T) {
	a := New(4)

	a.Observe(domain.Record{T1: 100, T4: 200}) // 100 cycles = 400 ns
	a.Observe(domain.Record{T1: 100, T4: 150}) // 50 cycles = 200 ns
	a.Observe(domain.Record{T1: 100, T4: 175}) // 75 cycles = 300 ns

	if a.MinNs() != 200 {
		t.Errorf("min = %d, want 200", a.MinNs())
	}
	if a.MaxNs() != 400 {
		t.Errorf("max = %d, want 400", a.MaxNs())
	}
	if a.LastNs() != 300 {
		t.Errorf("last = %d, want 300", a.LastNs())
	}
	if a.Samples() != 3 {
		t.Errorf("samples = %d, want 3", a.Samples())
	}
}

func TestAccumulator_IgnoresUnusableTimestamps(t *testing.T) {
	a := New(0)

	a.Observe(domain.Record{T1: 0, T4: 500}) // no parse timestamp
	a.Observe(domain.Record{T1: 500, T4: 400}) // wrapped/inconsistent
	a.Observe(domain.Record{T1: 500, T4: 500}) // zero trip

	if a.Samples() != 0 {
		t.Errorf("samples = %d, want 0", a.Samples())
	}

	a.Observe(domain.Record{T1: 1, T4: 2})
	if a.LastNs() != DefaultClockPeriodNs {
		t.Errorf("last = %d, want one default period", a.LastNs())
	}
}

func TestAccumulator_Reset(t *testing.T) {
	a := New(4)
	a.Observe(domain.Record{T1: 1, T4: 100})
	a.Reset()

	if a.Samples() != 0 || a.MinNs() != 0 || a.MaxNs() != 0 || a.LastNs() != 0 {
		t.Error("Reset did not clear accumulator")
	}
}
