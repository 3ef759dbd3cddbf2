package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"ascendex-bars/internal/provider/ascendex"
	"ascendex-bars/internal/saver"
)

// ProviderName is the directory under DataDir holding packets, progress and reports.
const ProviderName = "AscendEX"

// ConfigPath is the YAML config location (a distinct type for Wire).
type ConfigPath string

// Config holds application configuration from the YAML file and env.
type Config struct {
	InputDir        string `yaml:"input_dir"`
	DataDir         string `yaml:"data_dir"`
	SaveFormat      string `yaml:"save_format"`      // csv | json | parquet | none
	MalformedPolicy string `yaml:"malformed_policy"` // skip | abort
	SymbolsFile     string `yaml:"symbols_file"`
	Workers         int    `yaml:"workers"`
	Schedule        string `yaml:"schedule"`   // cron expression; empty runs once
	LogLevel        string `yaml:"log_level"`  // debug | info | warn | error
	LogFormat       string `yaml:"log_format"` // text | json
	SQLitePath      string `yaml:"sqlite_path"`
	RetentionDays   int    `yaml:"retention_days"`
}

// LoadConfig reads config from a YAML file, then applies environment variable
// overrides and defaults. A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if len(data) > 0 {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	// Environment variable overrides
	cfg.InputDir = getEnv("BARHIST_INPUT_DIR", cfg.InputDir)
	cfg.DataDir = getEnv("BARHIST_DATA_DIR", cfg.DataDir)
	cfg.SaveFormat = getEnv("BARHIST_SAVE_FORMAT", cfg.SaveFormat)
	cfg.MalformedPolicy = getEnv("BARHIST_MALFORMED_POLICY", cfg.MalformedPolicy)
	cfg.SymbolsFile = getEnv("BARHIST_SYMBOLS_FILE", cfg.SymbolsFile)
	cfg.Schedule = getEnv("BARHIST_SCHEDULE", cfg.Schedule)
	cfg.LogLevel = getEnv("BARHIST_LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getEnv("BARHIST_LOG_FORMAT", cfg.LogFormat)
	cfg.SQLitePath = getEnv("BARHIST_SQLITE_PATH", cfg.SQLitePath)
	if err := getEnvInt("BARHIST_WORKERS", &cfg.Workers); err != nil {
		return nil, err
	}
	if err := getEnvInt("BARHIST_RETENTION_DAYS", &cfg.RetentionDays); err != nil {
		return nil, err
	}

	// Defaults
	if cfg.InputDir == "" {
		cfg.InputDir = "captures"
	}
	if cfg.DataDir == "" {
		cfg.DataDir = "data"
	}
	if cfg.SaveFormat == "" {
		cfg.SaveFormat = getSaveFormat()
	}
	if cfg.MalformedPolicy == "" {
		cfg.MalformedPolicy = string(ascendex.PolicySkip)
	}
	if cfg.Workers == 0 {
		cfg.Workers = 4
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail late, mid-run.
func (c *Config) Validate() error {
	if c.SaveFormat != "none" && saver.NewPacketSaver(c.SaveFormat) == nil {
		return fmt.Errorf("unsupported save_format %q (use: csv, parquet, json, none)", c.SaveFormat)
	}
	if _, err := ascendex.ParsePolicy(c.MalformedPolicy); err != nil {
		return err
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	if c.RetentionDays < 0 {
		return fmt.Errorf("retention_days must not be negative, got %d", c.RetentionDays)
	}
	if c.Schedule != "" {
		if _, err := cron.ParseStandard(c.Schedule); err != nil {
			return fmt.Errorf("invalid schedule %q: %w", c.Schedule, err)
		}
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("unsupported log_format %q (use: text, json)", c.LogFormat)
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, dst *int) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

func getSaveFormat() string {
	switch os.Getenv("PROFILE") {
	case "dev", "development":
		return "csv"
	case "prod", "production", "":
		return "parquet"
	default:
		return "parquet"
	}
}

// SaveBaseDir returns data/AscendEX
func (c *Config) SaveBaseDir() string {
	return filepath.Join(c.DataDir, ProviderName)
}

// ProgressPath returns path to .progress.json
func (c *Config) ProgressPath() string {
	return filepath.Join(c.SaveBaseDir(), ".progress.json")
}
