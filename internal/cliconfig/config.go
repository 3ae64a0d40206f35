package cliconfig

import (
	"fmt"
	"math/bits"
	"strconv"
	"time"
)

// Feed source kinds accepted by Config.Source.
const (
	SourceWS     = "ws"
	SourceReplay = "replay"
	SourceSynth  = "synth"
)

// DefaultFeedURL is the default websocket quote feed endpoint.
const DefaultFeedURL = "wss://feed.bft-labs.io/bbo"

// Config holds CLI configuration for bbobridge.
type Config struct {
	Source      string
	FeedURL     string
	ReplayPath  string
	Symbols     []string
	SymbolsFile string

	SinkAddr string
	OutPath  string

	StateDir string

	QueueCapacity       int
	AlmostFullThreshold int
	PollInterval        time.Duration
	StatusInterval      time.Duration
	DialTimeout         time.Duration
	ClockPeriodNs       int

	Enabled bool
	Once    bool

	LogFile string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		Source:         SourceWS,
		FeedURL:        DefaultFeedURL,
		QueueCapacity:  16,
		PollInterval:   time.Millisecond,
		StatusInterval: 5 * time.Second,
		DialTimeout:    10 * time.Second,
		ClockPeriodNs:  4,
		Enabled:        true,
	}
}

// Validate checks the configuration for errors and sets derived defaults.
func (c *Config) Validate() error {
	switch c.Source {
	case SourceWS:
		if c.FeedURL == "" {
			return fmt.Errorf("feed-url is required for the ws source")
		}
	case SourceReplay:
		if c.ReplayPath == "" {
			return fmt.Errorf("replay-path is required for the replay source")
		}
	case SourceSynth:
	default:
		return fmt.Errorf("unknown source %q (want ws, replay or synth)", c.Source)
	}

	if c.SinkAddr == "" && c.OutPath == "" {
		return fmt.Errorf("one of sink-addr or out is required")
	}
	if c.SinkAddr != "" && c.OutPath != "" {
		return fmt.Errorf("sink-addr and out are mutually exclusive")
	}

	if c.QueueCapacity < 2 || bits.OnesCount(uint(c.QueueCapacity)) != 1 {
		return fmt.Errorf("queue-capacity %d must be a power of two >= 2", c.QueueCapacity)
	}
	if c.AlmostFullThreshold < 0 || c.AlmostFullThreshold > c.QueueCapacity {
		return fmt.Errorf("almost-full threshold %d out of range for capacity %d",
			c.AlmostFullThreshold, c.QueueCapacity)
	}

	if c.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive")
	}
	if c.StatusInterval <= 0 {
		return fmt.Errorf("status interval must be positive")
	}
	if c.ClockPeriodNs <= 0 {
		return fmt.Errorf("clock period must be positive")
	}

	return nil
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

// newConfigSetter creates a new setter with the given changed flags map.
func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setStrings sets a string slice if non-empty and flag not changed.
func (s *configSetter) setStrings(flag string, value []string, dst *[]string) {
	if len(value) == 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setIntFromString parses a string to int and sets the destination if valid.
// Used for environment variables that come as strings.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i <= 0 {
		return nil
	}
	*dst = i
	return nil
}

// setBoolFromString parses a string to bool and sets the destination.
// Accepts "true", "1" as true, anything else as false.
// Used for environment variables that come as strings.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
