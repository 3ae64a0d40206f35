package cliconfig

import (
	"testing"
	"time"
)

func TestApplyEnvConfig(t *testing.T) {
	t.Setenv("BBOBRIDGE_SOURCE", "synth")
	t.Setenv("BBOBRIDGE_SINK_ADDR", "localhost:9100")
	t.Setenv("BBOBRIDGE_QUEUE_CAPACITY", "32")
	t.Setenv("BBOBRIDGE_POLL", "5ms")
	t.Setenv("BBOBRIDGE_SYMBOLS", "AAPL, MSFT ,GOOG")
	t.Setenv("BBOBRIDGE_ONCE", "true")
	t.Setenv("BBOBRIDGE_ENABLED", "0")

	cfg := DefaultConfig()
	if err := ApplyEnvConfig(&cfg, map[string]bool{}); err != nil {
		t.Fatalf("ApplyEnvConfig: %v", err)
	}

	if cfg.Source != "synth" {
		t.Errorf("Source = %q, want synth", cfg.Source)
	}
	if cfg.SinkAddr != "localhost:9100" {
		t.Errorf("SinkAddr = %q", cfg.SinkAddr)
	}
	if cfg.QueueCapacity != 32 {
		t.Errorf("QueueCapacity = %d, want 32", cfg.QueueCapacity)
	}
	if cfg.PollInterval != 5*time.Millisecond {
		t.Errorf("PollInterval = %v, want 5ms", cfg.PollInterval)
	}
	if len(cfg.Symbols) != 3 || cfg.Symbols[1] != "MSFT" {
		t.Errorf("Symbols = %v, want trimmed three-symbol list", cfg.Symbols)
	}
	if !cfg.Once {
		t.Error("Once should be true")
	}
	if cfg.Enabled {
		t.Error("Enabled should be false from env")
	}
}

func TestApplyEnvConfig_FlagWins(t *testing.T) {
	t.Setenv("BBOBRIDGE_SOURCE", "synth")
	t.Setenv("BBOBRIDGE_QUEUE_CAPACITY", "32")

	cfg := DefaultConfig()
	cfg.Source = "replay"
	cfg.QueueCapacity = 64

	changed := map[string]bool{"source": true, "queue-capacity": true}
	if err := ApplyEnvConfig(&cfg, changed); err != nil {
		t.Fatalf("ApplyEnvConfig: %v", err)
	}

	if cfg.Source != "replay" {
		t.Errorf("Source = %q, explicit flag should win over env", cfg.Source)
	}
	if cfg.QueueCapacity != 64 {
		t.Errorf("QueueCapacity = %d, explicit flag should win over env", cfg.QueueCapacity)
	}
}

func TestApplyEnvConfig_BadInt(t *testing.T) {
	t.Setenv("BBOBRIDGE_QUEUE_CAPACITY", "many")

	cfg := DefaultConfig()
	if err := ApplyEnvConfig(&cfg, map[string]bool{}); err == nil {
		t.Fatal("expected parse error")
	}
}
