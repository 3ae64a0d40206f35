package app

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/bft-labs/bbobridge/internal/cdc"
	"github.com/bft-labs/bbobridge/internal/domain"
	"github.com/bft-labs/bbobridge/internal/encode"
	"github.com/bft-labs/bbobridge/internal/latency"
	"github.com/bft-labs/bbobridge/internal/ports"
	"github.com/bft-labs/bbobridge/internal/status"
)

// Clock returns the current cycle counter used for record timestamps.
type Clock func() uint32

// BridgeConfig contains configuration for the bridge loops.
type BridgeConfig struct {
	QueueCapacity       int
	AlmostFullThreshold int
	PollInterval        time.Duration
	StatusInterval      time.Duration
	ClockPeriodNs       uint32
	Once                bool
}

func (c *BridgeConfig) setDefaults() {
	if c.PollInterval == 0 {
		c.PollInterval = 100 * time.Microsecond
	}
	if c.StatusInterval == 0 {
		c.StatusInterval = 5 * time.Second
	}
	if c.ClockPeriodNs == 0 {
		c.ClockPeriodNs = latency.DefaultClockPeriodNs
	}
}

// Bridge orchestrates the ingress and egress halves of the record path.
//
// The ingress loop pulls records from the source, applies the enable and
// symbol-filter registers, stamps the queue-entry timestamp and offers the
// record to the crossing queue. The egress loop drains the queue, stamps the
// exit timestamps, serializes each record through the frame encoder and
// pushes the frames into the sink under backpressure. The two loops share
// nothing but the queue and never block each other.
type Bridge struct {
	config     BridgeConfig
	source     ports.RecordSource
	sink       ports.FrameSink
	statusRepo ports.StatusRepository
	logger     ports.Logger
	regs       *status.Registers
	clock      Clock

	queue *cdc.Queue
	enc   *encode.Encoder
	lat   *latency.Accumulator

	lastSymbol string
}

// NewBridge creates a bridge from its dependencies. The queue is built from
// the capacity and threshold in config.
func NewBridge(
	config BridgeConfig,
	source ports.RecordSource,
	sink ports.FrameSink,
	statusRepo ports.StatusRepository,
	regs *status.Registers,
	clock Clock,
	logger ports.Logger,
) (*Bridge, error) {
	config.setDefaults()

	queue, err := cdc.New(cdc.Config{
		Capacity:            config.QueueCapacity,
		AlmostFullThreshold: config.AlmostFullThreshold,
	})
	if err != nil {
		return nil, err
	}

	return &Bridge{
		config:     config,
		source:     source,
		sink:       sink,
		statusRepo: statusRepo,
		logger:     logger,
		regs:       regs,
		clock:      clock,
		queue:      queue,
		enc:        encode.New(),
		lat:        latency.New(uint64(config.ClockPeriodNs)),
	}, nil
}

// Run executes both loops until the context is canceled, the source is
// exhausted in Once mode, or the egress loop hits an unrecoverable error.
// The final status snapshot is persisted before Run returns.
func (b *Bridge) Run(parent context.Context) error {
	// Both loops run under a derived context so an egress failure can tear
	// down an ingress loop parked in source.Next.
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	ingressDone := make(chan struct{})
	ingressErr := make(chan error, 1)

	go func() {
		defer close(ingressDone)
		ingressErr <- b.runIngress(ctx)
	}()

	egressResult := b.runEgress(ctx, ingressDone)
	cancel()

	<-ingressDone
	srcResult := <-ingressErr

	b.saveStatus(context.Background())

	if egressResult != nil && !errors.Is(egressResult, context.Canceled) {
		return egressResult
	}
	if srcResult != nil && !errors.Is(srcResult, context.Canceled) {
		return srcResult
	}
	if err := parent.Err(); err != nil && !b.config.Once {
		return err
	}
	return nil
}

// runIngress is the producer-side loop. It owns the queue's write pointer.
func (b *Bridge) runIngress(ctx context.Context) error {
	for {
		rec, err := b.source.Next(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				b.logger.Info("source exhausted")
				return nil
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			b.logger.Error("source read error", ports.Err(err))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(b.config.PollInterval):
			}
			continue
		}

		if !b.regs.Accepts(rec) {
			b.regs.IncDropped()
			continue
		}

		rec.T2 = b.clock()

		if err := b.queue.Offer(rec); err != nil {
			// Full queue: the record is dropped, never retried. The sticky
			// overflow flag is already raised inside Offer.
			b.regs.IncDropped()
			b.logger.Warn("queue full, record dropped",
				ports.String("symbol", rec.SymbolString()),
				ports.Int("occupancy", b.queue.Occupancy()),
			)
			continue
		}
		b.regs.IncAccepted()

		if b.queue.AlmostFull() {
			b.logger.Debug("queue almost full",
				ports.Int("occupancy", b.queue.Occupancy()),
			)
		}
	}
}

// runEgress is the consumer-side loop. It owns the queue's read pointer and
// the frame encoder. In Once mode it keeps draining after the ingress loop
// finishes until three consecutive polls report empty.
func (b *Bridge) runEgress(ctx context.Context, ingressDone <-chan struct{}) error {
	statusTicker := time.NewTicker(b.config.StatusInterval)
	defer statusTicker.Stop()

	retry := newBackoff(DefaultBackoffInitial, DefaultBackoffMax)
	emptyStreak := 0

	for {
		select {
		case <-statusTicker.C:
			b.saveStatus(ctx)
		default:
		}

		rec, err := b.queue.Poll()
		switch {
		case errors.Is(err, domain.ErrQueueEmpty):
			emptyStreak++
			select {
			case <-ingressDone:
				// Emptiness can lag the producer by two polls. Three empty
				// polls in a row after ingress finished means drained.
				if emptyStreak >= 3 {
					return nil
				}
				continue
			default:
			}
			if ctx.Err() != nil && !b.config.Once {
				return ctx.Err()
			}
			select {
			case <-ctx.Done():
				if !b.config.Once {
					return ctx.Err()
				}
			case <-time.After(b.config.PollInterval):
			}
			continue
		case err != nil:
			b.logger.Error("queue state corrupted", ports.Err(err))
			return err
		}
		emptyStreak = 0

		rec.T3 = b.clock()
		rec.T4 = b.clock()

		if err := b.transmit(ctx, rec, retry); err != nil {
			return err
		}

		b.lat.Observe(rec)
		b.lastSymbol = rec.SymbolString()
		b.regs.SetTransmitted(b.enc.Transmitted())
	}
}

// transmit serializes one record through the encoder and writes all six
// frames into the sink. A failed write is retried with backoff; the encoder
// holds the current frame until the sink accepts it, so a retry resends the
// same frame and the record is never corrupted mid-flight.
func (b *Bridge) transmit(ctx context.Context, rec domain.Record, retry *backoff) error {
	if err := b.enc.Load(rec); err != nil {
		return err
	}

	for {
		frame, ok := b.enc.Frame()
		if !ok {
			return nil
		}

		if err := b.sink.Write(ctx, frame); err != nil {
			if ctx.Err() != nil {
				b.enc.Reset()
				return ctx.Err()
			}
			b.logger.Warn("sink write failed, retrying",
				ports.Err(err),
				ports.Duration("backoff", retry.Current()),
			)
			if serr := retry.Sleep(ctx); serr != nil {
				b.enc.Reset()
				return serr
			}
			continue
		}

		retry.Reset()
		b.enc.Advance()
	}
}

// saveStatus persists the current status snapshot.
func (b *Bridge) saveStatus(ctx context.Context) {
	snap := b.regs.Snapshot(b.queue.Overflow(), b.lastSymbol, b.lat)
	if err := b.statusRepo.Save(ctx, snap); err != nil {
		b.logger.Error("failed to save status", ports.Err(err))
	}
}

// Queue exposes the crossing queue for observability.
func (b *Bridge) Queue() *cdc.Queue { return b.queue }

// Latency exposes the latency accumulator for observability.
func (b *Bridge) Latency() *latency.Accumulator { return b.lat }
