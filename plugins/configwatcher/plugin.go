// Package configwatcher provides runtime control-file monitoring for
// bbobridge. When enabled, it watches a YAML control file and applies its
// enable flag and symbol list to the bridge's control registers on change.
package configwatcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"github.com/bft-labs/bbobridge/internal/status"
	"github.com/bft-labs/bbobridge/pkg/bbobridge"
)

// DefaultControlFile is the control file name used when Config.ControlPath
// is empty. It is resolved relative to the bridge's state directory.
const DefaultControlFile = "control.yaml"

// controlFile is the on-disk YAML shape of the control file.
type controlFile struct {
	Enabled *bool    `yaml:"enabled"`
	Symbols []string `yaml:"symbols"`
}

// Plugin implements control file watching. It monitors the control file and
// applies register updates when it changes.
type Plugin struct {
	mu sync.RWMutex

	// Configuration
	controlPath   string
	retryInterval time.Duration
	debounceDelay time.Duration

	// Runtime state
	regs     *status.Registers
	logger   bbobridge.Logger
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	debounce *time.Timer
}

// Config holds configuration options for the control watcher plugin.
type Config struct {
	// ControlPath is the path to the control file.
	// Default: <state dir>/control.yaml
	ControlPath string

	// RetryInterval is the delay between read retries on failure.
	// Default: 5 seconds
	RetryInterval time.Duration

	// DebounceDelay is the delay to wait after a file change before reloading.
	// Default: 100 milliseconds
	DebounceDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		RetryInterval: 5 * time.Second,
		DebounceDelay: 100 * time.Millisecond,
	}
}

// New creates a new control watcher plugin with the given configuration.
func New(cfg Config) *Plugin {
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = 5 * time.Second
	}
	if cfg.DebounceDelay <= 0 {
		cfg.DebounceDelay = 100 * time.Millisecond
	}

	return &Plugin{
		controlPath:   cfg.ControlPath,
		retryInterval: cfg.RetryInterval,
		debounceDelay: cfg.DebounceDelay,
	}
}

// Name returns the plugin identifier.
func (p *Plugin) Name() string {
	return "configwatcher"
}

// Initialize sets up the plugin and starts the watch loop.
func (p *Plugin) Initialize(ctx context.Context, cfg bbobridge.PluginConfig) error {
	p.mu.Lock()
	p.regs = cfg.Registers
	p.logger = cfg.Logger
	if p.controlPath == "" && cfg.StateDir != "" {
		p.controlPath = filepath.Join(cfg.StateDir, DefaultControlFile)
	}
	p.mu.Unlock()

	if p.controlPath == "" || p.regs == nil {
		p.logger.Warn("control watcher disabled: no control path or registers")
		return nil
	}

	watchCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	p.logger.Info("control watcher plugin initialized")

	p.wg.Add(1)
	go p.watchLoop(watchCtx)

	return nil
}

// Shutdown stops the watch loop.
func (p *Plugin) Shutdown(ctx context.Context) error {
	if p.cancel != nil {
		p.cancel()
	}
	p.wg.Wait()
	return nil
}

// watchLoop watches the control file's directory for changes. The directory
// is watched rather than the file so replace-by-rename edits keep working.
func (p *Plugin) watchLoop(ctx context.Context) {
	defer p.wg.Done()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		p.logger.Error("control watcher: failed to create watcher")
		return
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(p.controlPath)); err != nil {
		p.logger.Error("control watcher: failed to watch directory")
		// Still apply whatever the file holds now
		p.applyWithRetry(ctx)
		return
	}

	// Apply initial state
	p.applyWithRetry(ctx)

	base := filepath.Base(p.controlPath)
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != base {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			p.debounceApply(ctx, p.debounceDelay)

		case _, ok := <-watcher.Errors:
			if !ok {
				return
			}
			p.logger.Error("control watcher: watcher error")
		}
	}
}

func (p *Plugin) debounceApply(ctx context.Context, delay time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.debounce != nil {
		p.debounce.Stop()
	}

	p.debounce = time.AfterFunc(delay, func() {
		p.applyWithRetry(ctx)
	})
}

// applyWithRetry reads and applies the control file. Read failures are
// retried a few times; a missing file is not an error, and a parse failure
// waits for the next change event instead of retrying.
func (p *Plugin) applyWithRetry(ctx context.Context) {
	for attempt := 0; attempt < 3; attempt++ {
		retryable, err := p.apply()
		if err == nil {
			p.logger.Info("control watcher: applied control file")
			return
		}
		if os.IsNotExist(err) {
			p.logger.Debug("control watcher: no control file yet")
			return
		}
		if !retryable {
			p.logger.Error("control watcher: control file malformed")
			return
		}

		p.logger.Error("control watcher: read failed")
		select {
		case <-ctx.Done():
			return
		case <-time.After(p.retryInterval):
		}
	}
}

// apply reads the control file and pushes its contents into the registers.
// The bool reports whether a failure is worth retrying.
func (p *Plugin) apply() (bool, error) {
	data, err := os.ReadFile(p.controlPath)
	if err != nil {
		return true, err
	}

	var cf controlFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return false, fmt.Errorf("parse control file: %w", err)
	}

	p.mu.RLock()
	regs := p.regs
	p.mu.RUnlock()

	if cf.Enabled != nil {
		regs.SetEnabled(*cf.Enabled)
	}
	// An explicit empty list clears the filter; a missing key leaves it alone.
	if cf.Symbols != nil {
		regs.SetSymbolFilter(cf.Symbols)
	}
	return false, nil
}

// Ensure Plugin implements bbobridge.Plugin.
var _ bbobridge.Plugin = (*Plugin)(nil)
