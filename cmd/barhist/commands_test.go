package main

import (
	"bytes"
	"context"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/subcommands"
)

const capture = `{"code":0,"data":[
{"m":"bar","s":"BTC/USDT","ba":"BTC","qa":"USDT","i":"1d","t":1609459200000,"o":"29000.12","c":"29350.50","h":"29500.00","l":"28800.00","v":"1234.5678"},
{"s":"BTC/USDT","i":"1d"}
]}`

func runShow(t *testing.T, args ...string) (string, subcommands.ExitStatus) {
	t.Helper()
	var out bytes.Buffer
	cmd := &showCmd{out: &out}
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	cmd.SetFlags(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatal(err)
	}
	status := cmd.Execute(context.Background(), fs)
	return out.String(), status
}

func TestShowCmd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "capture.json")
	if err := os.WriteFile(path, []byte(capture), 0644); err != nil {
		t.Fatal(err)
	}

	out, status := runShow(t, path)
	if status != subcommands.ExitSuccess {
		t.Fatalf("status = %v", status)
	}
	if !strings.HasPrefix(out, "BarHist:\n\tmessage: bar\n\tsymbol: BTC/USDT\n") || strings.Count(out, "BarHist:") != 1 {
		t.Errorf("output = %q", out)
	}

	out, status = runShow(t, "-candle", path)
	if status != subcommands.ExitSuccess {
		t.Fatalf("status = %v", status)
	}
	if !strings.Contains(out, "close_time=1609545599999") {
		t.Errorf("candle output = %q", out)
	}
}

func TestShowCmd_Errors(t *testing.T) {
	if _, status := runShow(t); status != subcommands.ExitUsageError {
		t.Errorf("no args status = %v", status)
	}
	if _, status := runShow(t, filepath.Join(t.TempDir(), "missing.json")); status != subcommands.ExitFailure {
		t.Errorf("missing file status = %v", status)
	}
}

func TestIngestAndPruneCmd(t *testing.T) {
	root := t.TempDir()
	input := filepath.Join(root, "in")
	if err := os.MkdirAll(input, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(input, "capture.json"), []byte(capture), 0644); err != nil {
		t.Fatal(err)
	}
	configPath := filepath.Join(root, "config.yaml")
	config := "input_dir: " + input + "\n" +
		"data_dir: " + filepath.Join(root, "data") + "\n" +
		"save_format: csv\n" +
		"sqlite_path: " + filepath.Join(root, "bars.db") + "\n"
	if err := os.WriteFile(configPath, []byte(config), 0644); err != nil {
		t.Fatal(err)
	}

	ingest := &ingestCmd{}
	fs := flag.NewFlagSet("ingest", flag.ContinueOnError)
	ingest.SetFlags(fs)
	if err := fs.Parse([]string{"-config", configPath}); err != nil {
		t.Fatal(err)
	}
	if status := ingest.Execute(context.Background(), fs); status != subcommands.ExitSuccess {
		t.Fatalf("ingest status = %v", status)
	}
	packets, _ := filepath.Glob(filepath.Join(root, "data", "AscendEX", "BTC-USDT", "btc-usdt_1d_*.csv"))
	if len(packets) != 1 {
		t.Errorf("packets = %v", packets)
	}

	prune := &pruneCmd{}
	fs = flag.NewFlagSet("prune", flag.ContinueOnError)
	prune.SetFlags(fs)
	if err := fs.Parse([]string{"-config", configPath}); err != nil {
		t.Fatal(err)
	}
	if status := prune.Execute(context.Background(), fs); status != subcommands.ExitUsageError {
		t.Errorf("prune without days status = %v", status)
	}
	prune.days = 30
	if status := prune.Execute(context.Background(), fs); status != subcommands.ExitSuccess {
		t.Errorf("prune status = %v", status)
	}
}
