package bbobridge

import (
	"context"
	"fmt"
	"sync"

	"github.com/bft-labs/bbobridge/internal/adapters/feed"
	"github.com/bft-labs/bbobridge/internal/adapters/fs"
	"github.com/bft-labs/bbobridge/internal/adapters/sink"
	"github.com/bft-labs/bbobridge/internal/app"
	"github.com/bft-labs/bbobridge/internal/domain"
	"github.com/bft-labs/bbobridge/internal/ports"
	"github.com/bft-labs/bbobridge/internal/status"
)

// Bridge is a BBO record bridge that can be embedded in other applications.
// Use New() to create an instance, then Start() to begin bridging.
type Bridge struct {
	config     Config
	opts       options
	lifecycle  *app.Lifecycle
	bridge     *app.Bridge
	source     ports.RecordSource
	sink       ports.FrameSink
	statusRepo ports.StatusRepository
	regs       *status.Registers
	logger     ports.Logger

	plugins []Plugin

	mu        sync.RWMutex
	closeOnce sync.Once
	ctx       context.Context
	cancel    context.CancelFunc
}

// closeIO closes the source and sink exactly once.
func (b *Bridge) closeIO() {
	b.closeOnce.Do(func() {
		if cerr := b.source.Close(); cerr != nil {
			b.logger.Warn("source close failed", ports.Err(cerr))
		}
		if cerr := b.sink.Close(); cerr != nil {
			b.logger.Warn("sink close failed", ports.Err(cerr))
		}
	})
}

// New creates a new Bridge instance with the given configuration.
// The instance is created in StateStopped; call Start() to begin bridging.
// Returns an error if configuration is invalid.
func New(cfg Config, opts ...Option) (*Bridge, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if o.source == nil && cfg.Source == SourceCustom {
		return nil, fmt.Errorf("%w: custom source configured but none injected",
			domain.ErrInvalidConfig)
	}
	if o.sink == nil && cfg.SinkAddr == "" && cfg.OutPath == "" {
		return nil, fmt.Errorf("%w: no frame sink configured", domain.ErrInvalidConfig)
	}

	logger := o.logger

	var emitter eventEmitterWrapper
	if o.eventHandler != nil {
		emitter = eventEmitterWrapper{handler: o.eventHandler}
	}

	lifecycle := app.NewLifecycle(logger, &emitter)

	clk := feed.CycleClock(uint64(cfg.ClockPeriodNs))

	source, err := buildSource(cfg, o, clk, logger)
	if err != nil {
		return nil, err
	}

	frameSink, err := buildSink(cfg, o)
	if err != nil {
		source.Close()
		return nil, err
	}

	regs := status.New()
	regs.SetEnabled(cfg.Enabled)
	if len(cfg.Symbols) > 0 {
		regs.SetSymbolFilter(cfg.Symbols)
	}

	statusRepo := fs.NewStatusFileRepository(cfg.StateDir)

	bridge, err := app.NewBridge(
		app.BridgeConfig{
			QueueCapacity:       cfg.QueueCapacity,
			AlmostFullThreshold: cfg.AlmostFullThreshold,
			PollInterval:        cfg.PollInterval,
			StatusInterval:      cfg.StatusInterval,
			ClockPeriodNs:       cfg.ClockPeriodNs,
			Once:                cfg.Once,
		},
		source, frameSink, statusRepo, regs, app.Clock(clk), logger,
	)
	if err != nil {
		source.Close()
		frameSink.Close()
		return nil, err
	}

	return &Bridge{
		config:     cfg,
		opts:       o,
		lifecycle:  lifecycle,
		bridge:     bridge,
		source:     source,
		sink:       frameSink,
		statusRepo: statusRepo,
		regs:       regs,
		logger:     logger,
		plugins:    o.plugins,
	}, nil
}

// buildSource constructs the record source from config unless one was injected.
func buildSource(cfg Config, o options, clk feed.Clock, logger ports.Logger) (ports.RecordSource, error) {
	if o.source != nil {
		return o.source, nil
	}

	switch cfg.Source {
	case SourceWS:
		return feed.NewWSSource(feed.WSConfig{
			URL:         cfg.FeedURL,
			Symbols:     cfg.Symbols,
			DialTimeout: cfg.DialTimeout,
		}, clk, logger), nil
	case SourceReplay:
		return feed.NewReplaySource(cfg.ReplayPath, clk)
	case SourceSynth:
		return feed.NewSynthSource(cfg.Symbols, cfg.PollInterval, 0, clk), nil
	default:
		return nil, fmt.Errorf("%w: unknown source %q", domain.ErrInvalidConfig, cfg.Source)
	}
}

// buildSink constructs the frame sink from config unless one was injected.
func buildSink(cfg Config, o options) (ports.FrameSink, error) {
	if o.sink != nil {
		return o.sink, nil
	}
	if cfg.OutPath != "" {
		return sink.OpenFile(cfg.OutPath)
	}
	return sink.Dial(cfg.SinkAddr, cfg.DialTimeout)
}

// Start begins bridging in the background.
// Returns immediately after starting the bridge goroutine.
// Returns an error if already running or if startup fails.
// The provided context is used for the lifetime of the bridging operation.
func (b *Bridge) Start(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.lifecycle.CanStart() {
		return domain.ErrAlreadyRunning
	}

	if err := b.lifecycle.TransitionTo(app.StateStarting, "Start() called"); err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	b.ctx = runCtx
	b.cancel = cancel
	b.lifecycle.SetCancel(cancel)

	pluginCfg := PluginConfig{
		StateDir:  b.config.StateDir,
		Registers: b.regs,
		Logger:    b.logger,
	}
	for _, p := range b.plugins {
		if err := p.Initialize(runCtx, pluginCfg); err != nil {
			b.logger.Error("plugin initialization failed",
				ports.String("plugin", p.Name()),
				ports.Err(err))
			cancel()
			_ = b.lifecycle.TransitionTo(app.StateCrashed, "plugin init failed: "+p.Name())
			return err
		}
		b.logger.Info("plugin initialized", ports.String("plugin", p.Name()))
	}

	b.lifecycle.AddWorker()
	go func() {
		defer b.lifecycle.WorkerDone()

		if err := b.lifecycle.TransitionTo(app.StateRunning, "bridge starting"); err != nil {
			b.logger.Error("failed to transition to running", ports.Err(err))
			return
		}

		err := b.bridge.Run(runCtx)

		if err != nil && err != context.Canceled {
			b.logger.Error("bridge error", ports.Err(err))
			_ = b.lifecycle.TransitionTo(app.StateCrashed, err.Error())
			b.closeIO()
			return
		}

		// In Once mode the run loop finishes on its own; fold the instance
		// back to Stopped so Status() reflects completion. A concurrent
		// Stop() owns the transitions and the closes instead.
		if b.lifecycle.State() == app.StateRunning {
			_ = b.lifecycle.TransitionTo(app.StateStopping, "run complete")
			b.closeIO()
			_ = b.lifecycle.TransitionTo(app.StateStopped, "run complete")
		}
	}()

	return nil
}

// Stop gracefully shuts down the bridge.
// The egress loop finishes the in-flight record and the final status
// snapshot is persisted. Waits up to 30 seconds before forcing shutdown.
// Returns nil on graceful shutdown, ErrShutdownTimeout if forced.
func (b *Bridge) Stop() error {
	b.mu.Lock()

	if !b.lifecycle.CanStop() {
		b.mu.Unlock()
		return domain.ErrNotRunning
	}

	if err := b.lifecycle.TransitionTo(app.StateStopping, "Stop() called"); err != nil {
		b.mu.Unlock()
		return err
	}

	if b.cancel != nil {
		b.cancel()
	}

	b.mu.Unlock()

	err := b.lifecycle.WaitWithTimeout(app.ShutdownTimeout)

	// Shutdown plugins in reverse order
	shutdownCtx := context.Background()
	for i := len(b.plugins) - 1; i >= 0; i-- {
		p := b.plugins[i]
		if shutdownErr := p.Shutdown(shutdownCtx); shutdownErr != nil {
			b.logger.Error("plugin shutdown failed",
				ports.String("plugin", p.Name()),
				ports.Err(shutdownErr))
		} else {
			b.logger.Info("plugin shutdown complete", ports.String("plugin", p.Name()))
		}
	}

	b.closeIO()

	if err != nil {
		_ = b.lifecycle.TransitionTo(app.StateCrashed, "shutdown timeout")
	} else {
		_ = b.lifecycle.TransitionTo(app.StateStopped, "graceful shutdown")
	}

	return err
}

// Status returns the current lifecycle state.
// Safe to call concurrently from any goroutine.
func (b *Bridge) Status() State {
	return convertState(b.lifecycle.State())
}

// Snapshot returns the last persisted status snapshot.
func (b *Bridge) Snapshot(ctx context.Context) (domain.Status, error) {
	return b.statusRepo.Load(ctx)
}

// Registers exposes the runtime control registers for callers that flip the
// enable bit or swap the symbol filter while the bridge runs.
func (b *Bridge) Registers() *status.Registers {
	return b.regs
}

// eventEmitterWrapper adapts EventHandler to the internal emitter interface.
type eventEmitterWrapper struct {
	handler EventHandler
}

func (e *eventEmitterWrapper) OnStateChange(previous, current app.State, reason string) {
	if e.handler == nil {
		return
	}
	e.handler.OnStateChange(StateChangeEvent{
		Previous: convertState(previous),
		Current:  convertState(current),
		Reason:   reason,
	})
}

func convertState(s app.State) State {
	switch s {
	case app.StateStopped:
		return StateStopped
	case app.StateStarting:
		return StateStarting
	case app.StateRunning:
		return StateRunning
	case app.StateStopping:
		return StateStopping
	case app.StateCrashed:
		return StateCrashed
	default:
		return StateStopped
	}
}
