package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"ascendex-bars/internal/model"
	"ascendex-bars/internal/store"
)

const barJSON = `{"s":"BTC/USDT","i":"1d","t":%d,"o":"1","c":"2","h":"3","l":"0.5","v":"10"}`

func testConfig(t *testing.T) *Config {
	t.Helper()
	root := t.TempDir()
	cfg := &Config{
		InputDir:        filepath.Join(root, "in"),
		DataDir:         filepath.Join(root, "data"),
		SaveFormat:      "json",
		MalformedPolicy: "skip",
		Workers:         2,
		LogFormat:       "text",
		SQLitePath:      filepath.Join(root, "bars.db"),
	}
	if err := os.MkdirAll(cfg.InputDir, 0755); err != nil {
		t.Fatal(err)
	}
	return cfg
}

func writeInput(t *testing.T, cfg *Config, name string, times ...int64) {
	t.Helper()
	content := "["
	for i, ts := range times {
		if i > 0 {
			content += ","
		}
		content += fmt.Sprintf(barJSON, ts)
	}
	content += "]"
	if err := os.WriteFile(filepath.Join(cfg.InputDir, name), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func newTestApp(t *testing.T, cfg *Config) store.Store {
	t.Helper()
	st, cleanup, err := ProvideStore(cfg)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(cleanup)
	return st
}

func TestRunFlow_Once(t *testing.T) {
	cfg := testConfig(t)
	writeInput(t, cfg, "a.json", 0, 86_400_000)

	st := newTestApp(t, cfg)
	p, err := CreateProvider(cfg)
	if err != nil {
		t.Fatal(err)
	}
	ps, err := ProvidePacketSaver(cfg)
	if err != nil {
		t.Fatal(err)
	}
	pipeline := ProvidePipeline(cfg, p, ps, st)

	if err := RunFlow(context.Background(), cfg, pipeline, st); err != nil {
		t.Fatal(err)
	}
	if n, _ := st.Count(context.Background()); n != 2 {
		t.Errorf("stored = %d, want 2", n)
	}
	if _, err := os.Stat(cfg.ProgressPath()); err != nil {
		t.Errorf("progress not written: %v", err)
	}
}

func TestRunFlow_Scheduled(t *testing.T) {
	cfg := testConfig(t)
	cfg.Schedule = "@every 1s"
	writeInput(t, cfg, "a.json", 0)

	st := newTestApp(t, cfg)
	p, _ := CreateProvider(cfg)
	pipeline := ProvidePipeline(cfg, p, nil, st)

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- RunFlow(ctx, cfg, pipeline, st) }()

	waitForCount(t, st, 1)
	writeInput(t, cfg, "b.json", 86_400_000, 2*86_400_000)
	waitForCount(t, st, 3)

	cancel()
	select {
	case err := <-errc:
		if err != nil {
			t.Fatal(err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("RunFlow did not stop after cancel")
	}
}

func waitForCount(t *testing.T, st store.Store, want int64) {
	t.Helper()
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		if n, _ := st.Count(context.Background()); n >= want {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatalf("store never reached %d bars", want)
}

func TestPrune(t *testing.T) {
	cfg := testConfig(t)
	st := newTestApp(t, cfg)
	now := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	var bars []model.BarHist
	for d := 0; d < 30; d++ {
		b, err := model.NewBarHist(model.BarHistFields{
			Symbol: "BTC/USDT", Interval: model.Daily, Time: now.AddDate(0, 0, -d).UnixMilli(),
			Open: "1", Close: "1", High: "1", Low: "1", Volume: "1",
		})
		if err != nil {
			t.Fatal(err)
		}
		bars = append(bars, b)
	}
	if _, err := st.SaveBars(context.Background(), bars); err != nil {
		t.Fatal(err)
	}

	n, err := Prune(context.Background(), st, 10, now)
	if err != nil {
		t.Fatal(err)
	}
	if n != 19 {
		t.Errorf("deleted = %d, want 19", n)
	}
}
