// Package status implements the control/status register block: the enable
// gate, the optional symbol filter, and the observable counters. Controllers
// (CLI flags, the config watcher plugin) write the control side; the bridge
// loops write the counters they own and read the controls.
package status

import (
	"sync/atomic"
	"time"

	"github.com/bft-labs/bbobridge/internal/domain"
	"github.com/bft-labs/bbobridge/internal/latency"
)

type symbolSet map[[domain.SymbolLen]byte]struct{}

// Registers is safe for concurrent use. Control fields may be updated at
// runtime; the producer observes updates on its next record.
type Registers struct {
	enable atomic.Bool
	filter atomic.Pointer[symbolSet] // nil = pass all symbols

	accepted    atomic.Uint64
	dropped     atomic.Uint64
	transmitted atomic.Uint64
}

// New returns a disabled register block with no symbol filter.
func New() *Registers {
	return &Registers{}
}

// SetEnabled gates whether the producer attempts to enqueue records at all.
func (r *Registers) SetEnabled(v bool) { r.enable.Store(v) }

// Enabled returns the current enable gate.
func (r *Registers) Enabled() bool { return r.enable.Load() }

// SetSymbolFilter installs an equality filter: only records whose symbol is
// in syms pass the gate. An empty list removes the filter.
func (r *Registers) SetSymbolFilter(syms []string) {
	if len(syms) == 0 {
		r.filter.Store(nil)
		return
	}
	set := make(symbolSet, len(syms))
	for _, s := range syms {
		set[domain.NewSymbol(s)] = struct{}{}
	}
	r.filter.Store(&set)
}

// SymbolFilter returns the currently filtered symbols, nil when unfiltered.
func (r *Registers) SymbolFilter() []string {
	set := r.filter.Load()
	if set == nil {
		return nil
	}
	out := make([]string, 0, len(*set))
	for sym := range *set {
		out = append(out, domain.Record{Symbol: sym}.SymbolString())
	}
	return out
}

// Accepts decides whether the producer should even attempt to enqueue rec.
func (r *Registers) Accepts(rec domain.Record) bool {
	if !r.enable.Load() {
		return false
	}
	set := r.filter.Load()
	if set == nil {
		return true
	}
	_, ok := (*set)[rec.Symbol]
	return ok
}

// IncAccepted counts a record committed to the queue. Producer side.
func (r *Registers) IncAccepted() { r.accepted.Add(1) }

// IncDropped counts a record rejected by a full queue. Producer side.
func (r *Registers) IncDropped() { r.dropped.Add(1) }

// SetTransmitted mirrors the encoder's transmitted-record counter.
// Consumer side.
func (r *Registers) SetTransmitted(n uint64) { r.transmitted.Store(n) }

// Accepted returns the committed-record count.
func (r *Registers) Accepted() uint64 { return r.accepted.Load() }

// Dropped returns the rejected-record count.
func (r *Registers) Dropped() uint64 { return r.dropped.Load() }

// Transmitted returns the fully delivered record count.
func (r *Registers) Transmitted() uint64 { return r.transmitted.Load() }

// Snapshot assembles a status view from the counters, the consumer's
// overflow observation, and the latency accumulator. lat may be nil.
func (r *Registers) Snapshot(overflow bool, lastSymbol string, lat *latency.Accumulator) domain.Status {
	st := domain.Status{
		Accepted:    r.accepted.Load(),
		Dropped:     r.dropped.Load(),
		Transmitted: r.transmitted.Load(),
		Overflow:    overflow,
		LastSymbol:  lastSymbol,
		UpdatedAt:   time.Now().UTC(),
	}
	if lat != nil {
		st.LatencyMinNs = lat.MinNs()
		st.LatencyMaxNs = lat.MaxNs()
		st.LatencyLastNs = lat.LastNs()
		st.LatencySamples = lat.Samples()
	}
	return st
}
