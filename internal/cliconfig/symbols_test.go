package cliconfig

import (
	"os"
	"path/filepath"
	"testing"
)

func writeSymbolsFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "symbols.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write symbols: %v", err)
	}
	return path
}

func TestLoadSymbols_FromFile(t *testing.T) {
	path := writeSymbolsFile(t, `
symbols:
  - AAPL
  - MSFT
  - GOOG
`)

	cfg := DefaultConfig()
	cfg.SymbolsFile = path

	if err := LoadSymbols(&cfg); err != nil {
		t.Fatalf("LoadSymbols: %v", err)
	}
	if len(cfg.Symbols) != 3 || cfg.Symbols[0] != "AAPL" {
		t.Fatalf("Symbols = %v", cfg.Symbols)
	}
}

func TestLoadSymbols_ExplicitListWinsOverFile(t *testing.T) {
	path := writeSymbolsFile(t, "symbols: [AAPL]\n")

	cfg := DefaultConfig()
	cfg.Symbols = []string{"IBM"}
	cfg.SymbolsFile = path

	if err := LoadSymbols(&cfg); err != nil {
		t.Fatalf("LoadSymbols: %v", err)
	}
	if len(cfg.Symbols) != 1 || cfg.Symbols[0] != "IBM" {
		t.Fatalf("Symbols = %v, want explicit list untouched", cfg.Symbols)
	}
}

func TestLoadSymbols_RejectsOversizedSymbol(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Symbols = []string{"TOOLONGSYMBOL"}

	if err := LoadSymbols(&cfg); err == nil {
		t.Fatal("expected length error")
	}
}

func TestLoadSymbols_EmptyFile(t *testing.T) {
	path := writeSymbolsFile(t, "symbols: []\n")

	cfg := DefaultConfig()
	cfg.SymbolsFile = path

	if err := LoadSymbols(&cfg); err == nil {
		t.Fatal("expected error for empty symbol list")
	}
}
