package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
type FileConfig struct {
	Source      string   `toml:"source"`
	FeedURL     string   `toml:"feed_url"`
	ReplayPath  string   `toml:"replay_path"`
	Symbols     []string `toml:"symbols"`
	SymbolsFile string   `toml:"symbols_file"`

	SinkAddr string `toml:"sink_addr"`
	OutPath  string `toml:"out_path"`

	StateDir string `toml:"state_dir"`

	QueueCapacity       int    `toml:"queue_capacity"`
	AlmostFullThreshold int    `toml:"almost_full_threshold"`
	PollInterval        string `toml:"poll_interval"`
	StatusInterval      string `toml:"status_interval"`
	DialTimeout         string `toml:"dial_timeout"`
	ClockPeriodNs       int    `toml:"clock_period_ns"`

	Enabled *bool `toml:"enabled"`
	Once    *bool `toml:"once"`

	LogFile string `toml:"log_file"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns the default configuration file path.
// Returns ~/.bbobridge/config.toml if user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".bbobridge", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("source", fc.Source, &cfg.Source)
	s.setString("feed-url", fc.FeedURL, &cfg.FeedURL)
	s.setString("replay-path", fc.ReplayPath, &cfg.ReplayPath)
	s.setStrings("symbols", fc.Symbols, &cfg.Symbols)
	s.setString("symbols-file", fc.SymbolsFile, &cfg.SymbolsFile)

	s.setString("sink-addr", fc.SinkAddr, &cfg.SinkAddr)
	s.setString("out", fc.OutPath, &cfg.OutPath)
	s.setString("state-dir", fc.StateDir, &cfg.StateDir)
	s.setString("log-file", fc.LogFile, &cfg.LogFile)

	s.setInt("queue-capacity", fc.QueueCapacity, &cfg.QueueCapacity)
	s.setInt("almost-full", fc.AlmostFullThreshold, &cfg.AlmostFullThreshold)
	s.setInt("clock-period-ns", fc.ClockPeriodNs, &cfg.ClockPeriodNs)

	if err := s.setDuration("poll", fc.PollInterval, &cfg.PollInterval); err != nil {
		return err
	}
	if err := s.setDuration("status-interval", fc.StatusInterval, &cfg.StatusInterval); err != nil {
		return err
	}
	if err := s.setDuration("dial-timeout", fc.DialTimeout, &cfg.DialTimeout); err != nil {
		return err
	}

	s.setBool("enabled", fc.Enabled, &cfg.Enabled)
	s.setBool("once", fc.Once, &cfg.Once)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
