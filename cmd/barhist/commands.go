package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/subcommands"

	"ascendex-bars/internal/app"
	"ascendex-bars/internal/model"
	"ascendex-bars/internal/provider/ascendex"
	"ascendex-bars/internal/saver"
	"ascendex-bars/internal/slogx"
)

const defaultConfigPath = "config.yaml"

// setup builds the App and switches the default logger to the configured level/format.
func setup(configPath string) (*App, func(), error) {
	a, cleanup, err := InitializeApp(app.ConfigPath(configPath))
	if err != nil {
		return nil, nil, err
	}
	slog.SetDefault(slogx.NewDefault(a.Config.LogLevel, a.Config.LogFormat))
	return a, cleanup, nil
}

type ingestCmd struct {
	configPath string
}

func (*ingestCmd) Name() string     { return "ingest" }
func (*ingestCmd) Synopsis() string { return "ingest captured barhist responses (once or on schedule)" }
func (*ingestCmd) Usage() string {
	return `ingest [-config path]:
  Read captured responses from input_dir, write packets and store bars.
`
}

func (c *ingestCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.configPath, "config", defaultConfigPath, "YAML config file")
}

func (c *ingestCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, cleanup, err := setup(c.configPath)
	if err != nil {
		slog.Error("failed to initialize app", "error", err)
		return subcommands.ExitFailure
	}
	defer cleanup()
	defer a.Pipeline.Provider.Close()

	cfg := a.Config
	slog.Info("using data provider", "provider", a.Pipeline.Provider.GetName())
	slog.Info("save dir", "dir", cfg.SaveBaseDir(), "format", cfg.SaveFormat, "workers", cfg.Workers, "schedule", cfg.Schedule)

	if err := app.RunFlow(ctx, cfg, a.Pipeline, a.Store); err != nil {
		slog.Error("ingest failed", "error", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

type showCmd struct {
	candle bool
	out    io.Writer
}

func (*showCmd) Name() string     { return "show" }
func (*showCmd) Synopsis() string { return "print the records of captured files or packets" }
func (*showCmd) Usage() string {
	return `show [-candle] <file>...:
  Print every record of each file. Accepts captured responses
  (.json, .ndjson, .jsonl) and parquet packets.
`
}

func (c *showCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.candle, "candle", false, "print the parsed candle instead of the raw record")
}

func (c *showCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprint(os.Stderr, c.Usage())
		return subcommands.ExitUsageError
	}
	status := subcommands.ExitSuccess
	for _, path := range f.Args() {
		bars, skipped, err := readAny(path)
		if err != nil {
			slog.Error("read failed", "path", path, "error", err)
			status = subcommands.ExitFailure
			continue
		}
		if skipped > 0 {
			slog.Warn("malformed records skipped", "path", path, "count", skipped)
		}
		for _, b := range bars {
			if !c.candle {
				fmt.Fprintln(c.out, b)
				continue
			}
			cd, err := b.Candle()
			if err != nil {
				slog.Warn("cannot convert record", "path", path, "time", b.Time(), "error", err)
				continue
			}
			fmt.Fprintln(c.out, cd)
		}
	}
	return status
}

func readAny(path string) ([]model.BarHist, int, error) {
	if strings.EqualFold(filepath.Ext(path), ".parquet") {
		bars, err := saver.ReadParquet(path)
		return bars, 0, err
	}
	batch, err := ascendex.ReadFile(path, ascendex.PolicySkip)
	return batch.Bars, batch.Skipped, err
}

type pruneCmd struct {
	configPath string
	days       int
}

func (*pruneCmd) Name() string     { return "prune" }
func (*pruneCmd) Synopsis() string { return "delete stored bars older than N days" }
func (*pruneCmd) Usage() string {
	return `prune [-config path] [-days N]:
  Delete bars older than N days from the store (default: retention_days).
`
}

func (c *pruneCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.configPath, "config", defaultConfigPath, "YAML config file")
	f.IntVar(&c.days, "days", 0, "retention in days, overrides retention_days")
}

func (c *pruneCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, cleanup, err := setup(c.configPath)
	if err != nil {
		slog.Error("failed to initialize app", "error", err)
		return subcommands.ExitFailure
	}
	defer cleanup()

	days := c.days
	if days == 0 {
		days = a.Config.RetentionDays
	}
	if days <= 0 {
		slog.Error("no retention configured, pass -days or set retention_days")
		return subcommands.ExitUsageError
	}
	if a.Config.SQLitePath == "" {
		slog.Error("sqlite_path not set, nothing to prune")
		return subcommands.ExitFailure
	}
	if _, err := app.Prune(ctx, a.Store, days, time.Now()); err != nil {
		slog.Error("prune failed", "error", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
