package saver

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"ascendex-bars/internal/model"
)

func testBars(t *testing.T) []model.BarHist {
	t.Helper()
	fields := []model.BarHistFields{
		{Message: "bar", Symbol: "BTC/USDT", BaseAsset: "BTC", QuoteAsset: "USDT", Interval: model.OneMinute,
			Time: 1700000000000, Open: "37000.10", Close: "37010.2", High: "37020.000", Low: "36990.5", Volume: "12.345"},
		{Symbol: "BTC/USDT", Interval: model.OneMinute,
			Time: 1700000060000, Open: "37010.2", Close: "37005", High: "37015", Low: "37000", Volume: "0.000001"},
	}
	bars := make([]model.BarHist, len(fields))
	for i, f := range fields {
		b, err := model.NewBarHist(f)
		if err != nil {
			t.Fatal(err)
		}
		bars[i] = b
	}
	return bars
}

func TestNewPacketSaver(t *testing.T) {
	tests := []struct {
		format string
		ext    string
	}{
		{"csv", "csv"},
		{" JSON ", "json"},
		{"parquet", "parquet"},
	}
	for _, tt := range tests {
		s := NewPacketSaver(tt.format)
		if s == nil || s.Extension() != tt.ext {
			t.Errorf("NewPacketSaver(%q) = %v", tt.format, s)
		}
	}
	if NewPacketSaver("xml") != nil {
		t.Error("unsupported format should return nil")
	}
}

func TestCSVSaver(t *testing.T) {
	bars := testBars(t)
	path := filepath.Join(t.TempDir(), "p.csv")
	if err := (CSVSaver{}).Save(bars, path); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 3 {
		t.Fatalf("rows = %d, want 3", len(records))
	}
	if !reflect.DeepEqual(records[0], CSVHeader) {
		t.Errorf("header = %v", records[0])
	}
	want := []string{"bar", "BTC/USDT", "BTC", "USDT", "1", "1700000000000", "37000.10", "37010.2", "37020.000", "36990.5", "12.345"}
	if !reflect.DeepEqual(records[1], want) {
		t.Errorf("row = %v, want %v", records[1], want)
	}
}

func TestJSONSaver_WireFormat(t *testing.T) {
	bars := testBars(t)
	path := filepath.Join(t.TempDir(), "p.json")
	if err := (JSONSaver{}).Save(bars, path); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var back []model.BarHist
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(back, bars) {
		t.Errorf("json packet round trip mismatch:\n%v\n%v", back, bars)
	}

	empty := filepath.Join(t.TempDir(), "empty.json")
	if err := (JSONSaver{}).Save(nil, empty); err != nil {
		t.Fatal(err)
	}
	if data, _ := os.ReadFile(empty); string(data) != "[]\n" {
		t.Errorf("empty packet = %q", data)
	}
}

func TestParquetSaver(t *testing.T) {
	bars := testBars(t)
	path := filepath.Join(t.TempDir(), "p.parquet")
	if err := (ParquetSaver{}).Save(bars, path); err != nil {
		t.Fatal(err)
	}
	back, err := ReadParquet(path)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(back, bars) {
		t.Errorf("parquet round trip mismatch:\n%v\n%v", back, bars)
	}
}

func TestPacketPath(t *testing.T) {
	got := PacketPath("data/AscendEX", "BTC/USDT", model.Hourly, 1700000000000, 1700003600000, "csv")
	want := filepath.Join("data/AscendEX", "BTC-USDT", "btc-usdt_60_20231114T221320Z_to_20231114T231320Z.csv")
	if got != want {
		t.Errorf("PacketPath = %s, want %s", got, want)
	}
}
