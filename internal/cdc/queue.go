package cdc

import (
	"fmt"
	"math/bits"
	"sync/atomic"

	"github.com/bft-labs/bbobridge/internal/domain"
)

// DefaultCapacity is the queue depth used when Config.Capacity is zero.
const DefaultCapacity = 16

// Config holds construction parameters for a Queue.
type Config struct {
	// Capacity is the number of slots. Must be a power of two >= 2.
	// Defaults to DefaultCapacity.
	Capacity int

	// AlmostFullThreshold is the occupancy at which AlmostFull asserts.
	// Defaults to Capacity-2, leaving upstream one record of slack before
	// a full stall.
	AlmostFullThreshold int
}

func (c *Config) setDefaults() {
	if c.Capacity == 0 {
		c.Capacity = DefaultCapacity
	}
	if c.AlmostFullThreshold == 0 {
		c.AlmostFullThreshold = c.Capacity - 2
	}
}

// Queue is a fixed-capacity circular record buffer shared by exactly two
// goroutines with no timing relationship: one producer and one consumer.
//
// Each side owns its index outright and only ever sees the other side's
// index as a Gray-coded export resampled through a two-stage buffer, so
// neither side can observe a torn update and neither side ever blocks.
// Fullness and emptiness are therefore conservative: a status change in one
// domain becomes visible to the other within two of the receiver's steps
// (one step = one Offer or Poll call), never incorrectly early.
//
// Methods are split strictly by side. Offer, IsFull, AlmostFull, Occupancy,
// OverflowLocal and ResetProducer belong to the producer goroutine; Poll,
// IsEmpty, Overflow and ResetConsumer belong to the consumer goroutine.
type Queue struct {
	capacity uint64
	ptrMask  uint64 // pointers are one bit wider than needed to address slots
	idxMask  uint64
	fullMask uint64 // top two pointer bits: set when the writer is one lap ahead
	almostAt uint64

	slots []domain.Record

	// producer-owned
	widx     uint64
	rSampler twoStage

	// consumer-owned
	ridx     uint64
	wSampler twoStage

	// cross-domain exports, single writer each, Gray-coded
	wGray atomic.Uint64
	rGray atomic.Uint64

	overflow FlagCrossing
}

// New creates a queue from cfg. Returns an error if the capacity is not a
// power of two or the threshold does not fit the capacity.
func New(cfg Config) (*Queue, error) {
	cfg.setDefaults()
	if cfg.Capacity < 2 || bits.OnesCount(uint(cfg.Capacity)) != 1 {
		return nil, fmt.Errorf("%w: capacity %d must be a power of two >= 2",
			domain.ErrInvalidConfig, cfg.Capacity)
	}
	if cfg.AlmostFullThreshold < 1 || cfg.AlmostFullThreshold > cfg.Capacity {
		return nil, fmt.Errorf("%w: almost-full threshold %d out of range for capacity %d",
			domain.ErrInvalidConfig, cfg.AlmostFullThreshold, cfg.Capacity)
	}

	capacity := uint64(cfg.Capacity)
	ptrBits := uint(bits.TrailingZeros64(capacity)) + 1
	return &Queue{
		capacity: capacity,
		ptrMask:  (1 << ptrBits) - 1,
		idxMask:  capacity - 1,
		fullMask: 0b11 << (ptrBits - 2),
		almostAt: uint64(cfg.AlmostFullThreshold),
		slots:    make([]domain.Record, capacity),
	}, nil
}

// Capacity returns the number of slots.
func (q *Queue) Capacity() int { return int(q.capacity) }

// Offer runs one producer step: it resamples the consumer's exported read
// pointer, then either commits rec and advances the write pointer or rejects
// it. A rejected record is dropped and the sticky overflow flag is raised;
// Offer never blocks and never overwrites a committed slot.
func (q *Queue) Offer(rec domain.Record) error {
	rg := q.rSampler.sample(&q.rGray)
	if grayEncode(q.widx)^rg == q.fullMask {
		q.overflow.Set(true)
		return domain.ErrQueueFull
	}

	q.slots[q.widx&q.idxMask] = rec
	q.widx = (q.widx + 1) & q.ptrMask
	// The atomic store publishes the slot write along with the pointer.
	q.wGray.Store(grayEncode(q.widx))
	return nil
}

// IsFull reports fullness from the producer's last sampled view. It does not
// advance the sampling stages.
func (q *Queue) IsFull() bool {
	return grayEncode(q.widx)^q.rSampler.current() == q.fullMask
}

// Occupancy estimates the number of in-flight records from the producer's
// last sampled view. The estimate can only overstate occupancy, never
// understate it.
func (q *Queue) Occupancy() int {
	rbin := grayDecode(q.rSampler.current())
	return int((q.widx - rbin) & q.ptrMask)
}

// AlmostFull asserts while the producer-side occupancy estimate has reached
// the configured threshold, giving upstream slack before a full stall.
func (q *Queue) AlmostFull() bool {
	return uint64(q.Occupancy()) >= q.almostAt
}

// OverflowLocal returns the producer's own view of the sticky overflow flag.
func (q *Queue) OverflowLocal() bool {
	return q.overflow.Get()
}

// ResetProducer zeroes the producer domain: the write pointer, its view of
// the read pointer, and the overflow flag. Committed slot contents are left
// intact; the consumer may keep running through a producer reset.
func (q *Queue) ResetProducer() {
	q.widx = 0
	q.rSampler.reset()
	q.overflow.Set(false)
	q.wGray.Store(0)
}

// Poll runs one consumer step: it resamples the producer's exported write
// pointer and overflow flag, then returns the oldest unread record or
// domain.ErrQueueEmpty. The emptiness decision lags true state by up to two
// Poll calls; it is never wrong in the other direction.
//
// domain.ErrMalformedRead is returned if the sampled pointers describe an
// occupancy beyond capacity. That only occurs when the single-writer
// discipline has been broken.
func (q *Queue) Poll() (domain.Record, error) {
	wg := q.wSampler.sample(&q.wGray)
	q.overflow.Sample()

	if grayEncode(q.ridx) == wg {
		return domain.Record{}, domain.ErrQueueEmpty
	}
	if occ := (grayDecode(wg) - q.ridx) & q.ptrMask; occ > q.capacity {
		return domain.Record{}, domain.ErrMalformedRead
	}

	rec := q.slots[q.ridx&q.idxMask]
	q.ridx = (q.ridx + 1) & q.ptrMask
	q.rGray.Store(grayEncode(q.ridx))
	return rec, nil
}

// IsEmpty reports emptiness from the consumer's last sampled view. It does
// not advance the sampling stages.
func (q *Queue) IsEmpty() bool {
	return grayEncode(q.ridx) == q.wSampler.current()
}

// Overflow returns the consumer's two-stage-sampled view of the sticky
// overflow flag. Read-only on this side; cleared only by producer reset.
func (q *Queue) Overflow() bool {
	return q.overflow.Observed()
}

// ResetConsumer zeroes the consumer domain: the read pointer and its view of
// the write pointer. The producer may keep running through a consumer reset.
func (q *Queue) ResetConsumer() {
	q.ridx = 0
	q.wSampler.reset()
	q.rGray.Store(0)
}
