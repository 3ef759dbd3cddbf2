package app

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"ascendex-bars/internal/ingest"
	"ascendex-bars/internal/store"
)

// RunFlow orchestrates the ingest loop: trigger → run → done → wait for cron → trigger.
// With an empty schedule it runs once. SIGINT/SIGTERM or ctx cancellation
// stop it after the in-flight run.
func RunFlow(ctx context.Context, cfg *Config, p *ingest.Pipeline, st store.Store) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := os.MkdirAll(cfg.SaveBaseDir(), 0755); err != nil {
		return err
	}

	progressUpdates := make(chan ingest.ProgressUpdate, 256)
	var progressWg sync.WaitGroup
	progressWg.Add(1)
	go func() {
		defer progressWg.Done()
		ingest.RunProgressWriter(cfg.ProgressPath(), progressUpdates)
	}()

	trigger := make(chan ingest.Cmd, 1)
	done := make(chan ingest.Done, 1)
	var runnerWg sync.WaitGroup
	runnerWg.Add(1)
	go func() {
		defer runnerWg.Done()
		for range trigger {
			if ctx.Err() != nil {
				continue
			}
			runCycle(ctx, cfg, p, st, progressUpdates)
			select {
			case done <- ingest.Done{}:
			default:
			}
		}
	}()
	defer func() {
		close(trigger)
		runnerWg.Wait()
		close(progressUpdates)
		progressWg.Wait()
	}()

	trigger <- ingest.Cmd{}

	if cfg.Schedule == "" {
		select {
		case <-done:
		case <-ctx.Done():
			slog.Info("received signal, graceful shutdown")
		}
		return nil
	}

	c := cron.New()
	if _, err := c.AddFunc(cfg.Schedule, func() {
		select {
		case trigger <- ingest.Cmd{}:
		default:
			slog.Info("previous run still in progress, skip tick")
		}
	}); err != nil {
		return err
	}
	c.Start()
	defer func() { <-c.Stop().Done() }()

	for {
		select {
		case <-done:
			slog.Info("done, wait until next run", "next_run", nextRun(c).Format("2006-01-02 15:04:05"))
		case <-ctx.Done():
			slog.Info("received signal, graceful shutdown")
			return nil
		}
	}
}

func nextRun(c *cron.Cron) time.Time {
	entries := c.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

func runCycle(ctx context.Context, cfg *Config, p *ingest.Pipeline, st store.Store, updates chan<- ingest.ProgressUpdate) {
	if _, err := p.RunOnce(ctx, cfg.InputDir, cfg.ProgressPath(), updates); err != nil {
		slog.Error("ingest run failed", "error", err)
	}
	if cfg.RetentionDays > 0 {
		if _, err := Prune(ctx, st, cfg.RetentionDays, time.Now()); err != nil {
			slog.Error("retention prune failed", "error", err)
		}
	}
}

// Prune deletes stored bars older than days before now.
func Prune(ctx context.Context, st store.Store, days int, now time.Time) (int64, error) {
	cutoff := now.AddDate(0, 0, -days)
	n, err := st.DeleteBefore(ctx, cutoff.UnixMilli())
	if err != nil {
		return 0, err
	}
	slog.Info("pruned old bars", "deleted", n, "before", cutoff.UTC().Format(time.RFC3339))
	return n, nil
}
