package feed

import (
	"context"
	"math/rand"
	"time"
)

// backoff implements exponential backoff with jitter for reconnect loops.
type backoff struct {
	initial time.Duration
	max     time.Duration
	current time.Duration
}

func newBackoff(initial, max time.Duration) *backoff {
	return &backoff{initial: initial, max: max, current: initial}
}

// Wait sleeps for the current backoff duration (±20% jitter) or until ctx is
// canceled, then increases the duration for next time.
func (b *backoff) Wait(ctx context.Context) {
	jitter := float64(b.current) * 0.2 * (rand.Float64()*2 - 1)
	sleep := time.Duration(float64(b.current) + jitter)

	select {
	case <-ctx.Done():
	case <-time.After(sleep):
	}

	b.current *= 2
	if b.current > b.max {
		b.current = b.max
	}
}

func (b *backoff) Reset() {
	b.current = b.initial
}
