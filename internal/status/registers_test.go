package status

import (
	"testing"

	"github.com/bft-labs/bbobridge/internal/domain"
	"github.com/bft-labs/bbobridge/internal/latency"
)

func TestRegisters_EnableGate(t *testing.T) {
	r := New()
	rec := domain.Record{Symbol: domain.NewSymbol("AAPL")}

	if r.Accepts(rec) {
		t.Error("disabled registers accepted a record")
	}
	r.SetEnabled(true)
	if !r.Accepts(rec) {
		t.Error("enabled, unfiltered registers rejected a record")
	}
}

func TestRegisters_SymbolFilter(t *testing.T) {
	r := New()
	r.SetEnabled(true)
	r.SetSymbolFilter([]string{"AAPL", "MSFT"})

	if !r.Accepts(domain.Record{Symbol: domain.NewSymbol("AAPL")}) {
		t.Error("filtered symbol rejected")
	}
	if r.Accepts(domain.Record{Symbol: domain.NewSymbol("GOOG")}) {
		t.Error("unlisted symbol accepted")
	}

	// Equality is on the padded 8-byte field, not a prefix.
	if r.Accepts(domain.Record{Symbol: domain.NewSymbol("AAPL0001")}) {
		t.Error("prefix-matching symbol accepted")
	}

	r.SetSymbolFilter(nil)
	if !r.Accepts(domain.Record{Symbol: domain.NewSymbol("GOOG")}) {
		t.Error("cleared filter still rejecting")
	}
}

func TestRegisters_Snapshot(t *testing.T) {
	r := New()
	r.IncAccepted()
	r.IncAccepted()
	r.IncDropped()
	r.SetTransmitted(2)

	lat := latency.New(4)
	lat.Observe(domain.Record{T1: 100, T4: 200})

	st := r.Snapshot(true, "AAPL", lat)
	if st.Accepted != 2 || st.Dropped != 1 || st.Transmitted != 2 {
		t.Errorf("counters = %d/%d/%d, want 2/1/2", st.Accepted, st.Dropped, st.Transmitted)
	}
	if !st.Overflow {
		t.Error("overflow not carried into snapshot")
	}
	if st.LatencyLastNs != 400 || st.LatencySamples != 1 {
		t.Errorf("latency = %dns/%d samples, want 400/1", st.LatencyLastNs, st.LatencySamples)
	}
	if st.LastSymbol != "AAPL" {
		t.Errorf("last symbol = %q", st.LastSymbol)
	}
	if st.UpdatedAt.IsZero() {
		t.Error("snapshot timestamp not set")
	}
}
