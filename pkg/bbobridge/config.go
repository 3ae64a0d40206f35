package bbobridge

import (
	"fmt"
	"math/bits"
	"os"
	"path/filepath"
	"time"
)

// Feed source kinds accepted by Config.Source.
const (
	SourceWS     = "ws"
	SourceReplay = "replay"
	SourceSynth  = "synth"
	SourceCustom = "custom"
)

// Config holds configuration for a Bridge instance.
type Config struct {
	// Source selects the record source: ws, replay, synth, or custom when a
	// source is injected with WithRecordSource.
	Source     string
	FeedURL    string
	ReplayPath string
	Symbols    []string

	// SinkAddr and OutPath select the frame sink; exactly one is used unless
	// a sink is injected with WithFrameSink.
	SinkAddr string
	OutPath  string

	// StateDir is where the status snapshot file lives.
	StateDir string

	QueueCapacity       int
	AlmostFullThreshold int
	PollInterval        time.Duration
	StatusInterval      time.Duration
	DialTimeout         time.Duration
	ClockPeriodNs       uint32

	// Enabled sets the initial value of the enable register. A disabled
	// bridge drops every record until re-enabled.
	Enabled bool

	// Once drains the source to exhaustion and stops instead of running
	// until canceled.
	Once bool
}

// SetDefaults fills zero-valued fields with defaults.
func (c *Config) SetDefaults() {
	if c.Source == "" {
		c.Source = SourceCustom
	}
	if c.QueueCapacity == 0 {
		c.QueueCapacity = 16
	}
	if c.PollInterval == 0 {
		c.PollInterval = time.Millisecond
	}
	if c.StatusInterval == 0 {
		c.StatusInterval = 5 * time.Second
	}
	if c.DialTimeout == 0 {
		c.DialTimeout = 10 * time.Second
	}
	if c.ClockPeriodNs == 0 {
		c.ClockPeriodNs = 4
	}
	if c.StateDir == "" {
		if h, err := os.UserHomeDir(); err == nil {
			c.StateDir = filepath.Join(h, ".bbobridge")
		} else {
			c.StateDir = "."
		}
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	switch c.Source {
	case SourceWS:
		if c.FeedURL == "" {
			return fmt.Errorf("FeedURL is required for the ws source")
		}
	case SourceReplay:
		if c.ReplayPath == "" {
			return fmt.Errorf("ReplayPath is required for the replay source")
		}
	case SourceSynth, SourceCustom:
	default:
		return fmt.Errorf("unknown source %q", c.Source)
	}

	if c.QueueCapacity < 2 || bits.OnesCount(uint(c.QueueCapacity)) != 1 {
		return fmt.Errorf("QueueCapacity %d must be a power of two >= 2", c.QueueCapacity)
	}
	if c.AlmostFullThreshold < 0 || c.AlmostFullThreshold > c.QueueCapacity {
		return fmt.Errorf("AlmostFullThreshold %d out of range for capacity %d",
			c.AlmostFullThreshold, c.QueueCapacity)
	}
	return nil
}
