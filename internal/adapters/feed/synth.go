package feed

import (
	"context"
	"io"
	"math/rand"
	"time"

	"github.com/bft-labs/bbobridge/internal/domain"
)

// SynthSource implements ports.RecordSource with a random-walk BBO
// generator. It exists for soak testing and demos when no live feed is
// reachable.
type SynthSource struct {
	symbols  []string
	interval time.Duration
	limit    uint64
	clock    Clock

	emitted uint64
	mids    []uint32
	rng     *rand.Rand
}

// NewSynthSource generates updates for symbols every interval. limit bounds
// the total records emitted; 0 means unbounded.
func NewSynthSource(symbols []string, interval time.Duration, limit uint64, clock Clock) *SynthSource {
	if len(symbols) == 0 {
		symbols = []string{"TESTAAPL"}
	}
	if interval <= 0 {
		interval = time.Millisecond
	}

	mids := make([]uint32, len(symbols))
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	for i := range mids {
		mids[i] = 100_0000 + uint32(rng.Intn(900_0000)) // ticks
	}
	return &SynthSource{
		symbols:  symbols,
		interval: interval,
		limit:    limit,
		clock:    clock,
		mids:     mids,
		rng:      rng,
	}
}

// Next emits the next synthetic update, io.EOF once the limit is reached.
func (s *SynthSource) Next(ctx context.Context) (domain.Record, error) {
	if s.limit > 0 && s.emitted >= s.limit {
		return domain.Record{}, io.EOF
	}

	select {
	case <-ctx.Done():
		return domain.Record{}, ctx.Err()
	case <-time.After(s.interval):
	}

	i := int(s.emitted) % len(s.symbols)
	mid := s.mids[i]

	// Random walk, one tick at a time, floor at 100 ticks.
	switch s.rng.Intn(3) {
	case 0:
		if mid > 100 {
			mid--
		}
	case 1:
		mid++
	}
	s.mids[i] = mid

	spread := uint32(1 + s.rng.Intn(4))
	rec := domain.Record{
		Symbol:   domain.NewSymbol(s.symbols[i]),
		BidPrice: mid - spread/2,
		AskPrice: mid - spread/2 + spread,
		BidSize:  uint32(1 + s.rng.Intn(500)),
		AskSize:  uint32(1 + s.rng.Intn(500)),
		Spread:   spread,
		T1:       s.clock(),
	}
	s.emitted++
	return rec, nil
}

// Close is a no-op for the generator.
func (s *SynthSource) Close() error { return nil }
