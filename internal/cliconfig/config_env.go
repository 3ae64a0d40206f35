package cliconfig

import (
	"os"
	"strings"
)

// envPrefix is the prefix for all bbobridge environment variables.
const envPrefix = "BBOBRIDGE_"

// ApplyEnvConfig applies BBOBRIDGE_* environment variables to the Config.
// Environment values override file config but are overridden by flags that
// were explicitly set (tracked in the changed map).
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("source", os.Getenv(envPrefix+"SOURCE"), &cfg.Source)
	s.setString("feed-url", os.Getenv(envPrefix+"FEED_URL"), &cfg.FeedURL)
	s.setString("replay-path", os.Getenv(envPrefix+"REPLAY_PATH"), &cfg.ReplayPath)
	s.setString("symbols-file", os.Getenv(envPrefix+"SYMBOLS_FILE"), &cfg.SymbolsFile)
	s.setString("sink-addr", os.Getenv(envPrefix+"SINK_ADDR"), &cfg.SinkAddr)
	s.setString("out", os.Getenv(envPrefix+"OUT"), &cfg.OutPath)
	s.setString("state-dir", os.Getenv(envPrefix+"STATE_DIR"), &cfg.StateDir)
	s.setString("log-file", os.Getenv(envPrefix+"LOG_FILE"), &cfg.LogFile)

	if v := os.Getenv(envPrefix + "SYMBOLS"); v != "" && !changed["symbols"] {
		cfg.Symbols = splitSymbols(v)
	}

	if err := s.setIntFromString("queue-capacity", os.Getenv(envPrefix+"QUEUE_CAPACITY"), &cfg.QueueCapacity); err != nil {
		return err
	}
	if err := s.setIntFromString("almost-full", os.Getenv(envPrefix+"ALMOST_FULL"), &cfg.AlmostFullThreshold); err != nil {
		return err
	}
	if err := s.setIntFromString("clock-period-ns", os.Getenv(envPrefix+"CLOCK_PERIOD_NS"), &cfg.ClockPeriodNs); err != nil {
		return err
	}

	if err := s.setDuration("poll", os.Getenv(envPrefix+"POLL"), &cfg.PollInterval); err != nil {
		return err
	}
	if err := s.setDuration("status-interval", os.Getenv(envPrefix+"STATUS_INTERVAL"), &cfg.StatusInterval); err != nil {
		return err
	}
	if err := s.setDuration("dial-timeout", os.Getenv(envPrefix+"DIAL_TIMEOUT"), &cfg.DialTimeout); err != nil {
		return err
	}

	s.setBoolFromString("enabled", os.Getenv(envPrefix+"ENABLED"), &cfg.Enabled)
	s.setBoolFromString("once", os.Getenv(envPrefix+"ONCE"), &cfg.Once)

	return nil
}

// splitSymbols splits a comma-separated symbol list, trimming whitespace and
// dropping empty entries.
func splitSymbols(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
