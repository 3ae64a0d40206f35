package cliconfig

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadFileConfig(t *testing.T) {
	path := writeTempConfig(t, `
source = "replay"
replay_path = "/data/capture.bin"
out_path = "/data/frames.bin"
queue_capacity = 32
almost_full_threshold = 28
poll_interval = "2ms"
status_interval = "10s"
clock_period_ns = 8
symbols = ["AAPL", "MSFT"]
enabled = false
once = true
`)

	fc, err := LoadFileConfig(path)
	if err != nil {
		t.Fatalf("LoadFileConfig: %v", err)
	}

	if fc.Source != "replay" {
		t.Errorf("Source = %q, want replay", fc.Source)
	}
	if fc.QueueCapacity != 32 {
		t.Errorf("QueueCapacity = %d, want 32", fc.QueueCapacity)
	}
	if fc.Enabled == nil || *fc.Enabled {
		t.Error("Enabled should parse as false")
	}
	if fc.Once == nil || !*fc.Once {
		t.Error("Once should parse as true")
	}
	if len(fc.Symbols) != 2 {
		t.Errorf("Symbols = %v, want 2 entries", fc.Symbols)
	}
}

func TestLoadFileConfig_BadTOML(t *testing.T) {
	path := writeTempConfig(t, `source = [unterminated`)

	if _, err := LoadFileConfig(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestApplyFileConfig_Precedence(t *testing.T) {
	cfg := DefaultConfig()
	cfg.QueueCapacity = 64 // came from an explicit flag

	no := false
	fc := FileConfig{
		Source:        "synth",
		OutPath:       "/data/frames.bin",
		QueueCapacity: 32,
		PollInterval:  "3ms",
		Enabled:       &no,
	}

	changed := map[string]bool{"queue-capacity": true}
	if err := ApplyFileConfig(&cfg, fc, changed); err != nil {
		t.Fatalf("ApplyFileConfig: %v", err)
	}

	if cfg.QueueCapacity != 64 {
		t.Errorf("QueueCapacity = %d, explicit flag should win over file", cfg.QueueCapacity)
	}
	if cfg.Source != "synth" {
		t.Errorf("Source = %q, want synth from file", cfg.Source)
	}
	if cfg.OutPath != "/data/frames.bin" {
		t.Errorf("OutPath = %q, want file value", cfg.OutPath)
	}
	if cfg.PollInterval != 3*time.Millisecond {
		t.Errorf("PollInterval = %v, want 3ms", cfg.PollInterval)
	}
	if cfg.Enabled {
		t.Error("Enabled should be false from file")
	}
}

func TestApplyFileConfig_BadDuration(t *testing.T) {
	cfg := DefaultConfig()
	fc := FileConfig{PollInterval: "fast"}

	if err := ApplyFileConfig(&cfg, fc, map[string]bool{}); err == nil {
		t.Fatal("expected duration parse error")
	}
}

func TestFileExists(t *testing.T) {
	path := writeTempConfig(t, "")

	if !FileExists(path) {
		t.Error("FileExists = false for existing file")
	}
	if FileExists(filepath.Join(t.TempDir(), "missing.toml")) {
		t.Error("FileExists = true for missing file")
	}
}
