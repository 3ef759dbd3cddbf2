package ingest

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ascendex-bars/internal/provider"
	"ascendex-bars/internal/provider/ascendex"
	"ascendex-bars/internal/saver"
	"ascendex-bars/internal/store"
)

const benchBarsPerFile = 30 * 1440 // one month of 1-minute bars

// writeBenchFile writes an envelope with bars in reverse time order so the sort does real work.
func writeBenchFile(b *testing.B, dir, symbol string) string {
	b.Helper()
	var sb strings.Builder
	sb.WriteString(`{"code":0,"data":[`)
	for i := benchBarsPerFile - 1; i >= 0; i-- {
		sb.WriteString(rec(symbol, "1", int64(i)*60_000))
		if i > 0 {
			sb.WriteByte(',')
		}
	}
	sb.WriteString("]}")
	path := filepath.Join(dir, strings.ReplaceAll(symbol, "/", "-")+".json")
	if err := os.WriteFile(path, []byte(sb.String()), 0644); err != nil {
		b.Fatal(err)
	}
	return path
}

func benchProcessJob(b *testing.B, ps saver.PacketSaver) {
	dir := b.TempDir()
	path := writeBenchFile(b, dir, "BTC/USDT")
	p := &Pipeline{
		Provider:    provider.NewAscendexProvider(ascendex.PolicySkip),
		Saver:       ps,
		Store:       store.NewNoopStore(),
		SaveBaseDir: filepath.Join(dir, "out"),
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	job := Job{Path: path}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		res, err := p.processJob(context.Background(), job, logger)
		if err != nil || res.Bars != benchBarsPerFile {
			b.Fatalf("bars=%d err=%v", res.Bars, err)
		}
	}
}

// BenchmarkProcessJob_NoSave measures decode + group + sort only.
func BenchmarkProcessJob_NoSave(b *testing.B) { benchProcessJob(b, nil) }

func BenchmarkProcessJob_CSV(b *testing.B) { benchProcessJob(b, saver.CSVSaver{}) }

func BenchmarkProcessJob_Parquet(b *testing.B) { benchProcessJob(b, saver.ParquetSaver{}) }
