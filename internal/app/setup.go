package app

import (
	"fmt"
	"log/slog"

	"ascendex-bars/internal/provider"
	"ascendex-bars/internal/provider/ascendex"
	"ascendex-bars/internal/store"
)

// CreateProvider creates the AscendEX provider from config.
func CreateProvider(cfg *Config) (*provider.AscendexProvider, error) {
	policy, err := ascendex.ParsePolicy(cfg.MalformedPolicy)
	if err != nil {
		return nil, err
	}
	p := provider.NewAscendexProvider(policy)
	if cfg.SymbolsFile != "" {
		symbols, err := ascendex.LoadSymbolsFromFile(cfg.SymbolsFile)
		if err != nil {
			return nil, fmt.Errorf("symbols file: %w", err)
		}
		p.SetSymbols(symbols)
	}
	slog.Info("wire", "provider", p.GetName(), "policy", policy, "input", cfg.InputDir, "format", cfg.SaveFormat,
		"dir", cfg.SaveBaseDir(), "pattern", "{BASE-QUOTE}/{base-quote}_{interval}_{from}_to_{to}.{ext}")
	return p, nil
}

// CreateStore opens SQLite when sqlite_path is set, otherwise a no-op store.
func CreateStore(cfg *Config) (store.Store, error) {
	if cfg.SQLitePath == "" {
		slog.Info("sqlite_path not set, bars are not stored")
		return store.NewNoopStore(), nil
	}
	return store.NewSQLiteStore(cfg.SQLitePath)
}
