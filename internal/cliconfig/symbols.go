package cliconfig

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/bft-labs/bbobridge/internal/domain"
)

// symbolsFile is the on-disk YAML shape of a symbol list.
type symbolsFile struct {
	Symbols []string `yaml:"symbols"`
}

// LoadSymbols fills cfg.Symbols from cfg.SymbolsFile when symbols were not
// given on the command line or in the config file. Symbols longer than the
// wire symbol width are rejected.
func LoadSymbols(cfg *Config) error {
	if len(cfg.Symbols) == 0 && cfg.SymbolsFile != "" {
		syms, err := readSymbolsFile(cfg.SymbolsFile)
		if err != nil {
			return fmt.Errorf("read symbols file: %w", err)
		}
		cfg.Symbols = syms
	}

	for _, s := range cfg.Symbols {
		if s == "" {
			return fmt.Errorf("empty symbol in symbol list")
		}
		if len(s) > domain.SymbolLen {
			return fmt.Errorf("symbol %q exceeds %d characters", s, domain.SymbolLen)
		}
	}
	return nil
}

func readSymbolsFile(path string) ([]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sf symbolsFile
	if err := yaml.Unmarshal(b, &sf); err != nil {
		return nil, err
	}
	if len(sf.Symbols) == 0 {
		return nil, fmt.Errorf("%s lists no symbols", path)
	}
	return sf.Symbols, nil
}
