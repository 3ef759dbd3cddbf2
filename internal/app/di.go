package app

import (
	"fmt"
	"time"

	"ascendex-bars/internal/ingest"
	"ascendex-bars/internal/provider"
	"ascendex-bars/internal/saver"
	"ascendex-bars/internal/store"
)

// ProvideConfig loads and validates config (for Wire).
func ProvideConfig(path ConfigPath) (*Config, error) {
	cfg, err := LoadConfig(string(path))
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// ProvidePacketSaver creates PacketSaver from config (for Wire).
// Returns nil saver for save_format "none" and an error if the format is not supported.
func ProvidePacketSaver(cfg *Config) (saver.PacketSaver, error) {
	if cfg.SaveFormat == "none" {
		return nil, nil
	}
	ps := saver.NewPacketSaver(cfg.SaveFormat)
	if ps == nil {
		return nil, fmt.Errorf("unsupported save_format %q (use: csv, parquet, json, none)", cfg.SaveFormat)
	}
	return ps, nil
}

// ProvideAscendexProvider creates AscendexProvider with policy and symbol filter (for Wire).
func ProvideAscendexProvider(cfg *Config) (*provider.AscendexProvider, error) {
	return CreateProvider(cfg)
}

// ProvideStore opens the bar store (for Wire). The cleanup closes it.
func ProvideStore(cfg *Config) (store.Store, func(), error) {
	st, err := CreateStore(cfg)
	if err != nil {
		return nil, nil, err
	}
	return st, func() { st.Close() }, nil
}

// ProvidePipeline assembles the ingest pipeline (for Wire).
func ProvidePipeline(cfg *Config, p *provider.AscendexProvider, ps saver.PacketSaver, st store.Store) *ingest.Pipeline {
	return &ingest.Pipeline{
		Provider:    p,
		Saver:       ps,
		Store:       st,
		SaveBaseDir: cfg.SaveBaseDir(),
		Workers:     cfg.Workers,
		Heartbeat:   30 * time.Second,
	}
}
