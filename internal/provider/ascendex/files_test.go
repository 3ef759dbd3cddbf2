package ascendex

import (
	"path/filepath"
	"reflect"
	"testing"
)

func TestDiscoverFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.json", "[]")
	writeFile(t, dir, "a.ndjson", "")
	writeFile(t, dir, "sub/c.jsonl", "")
	writeFile(t, dir, "sub/notes.txt", "")
	writeFile(t, dir, ".hidden.json", "[]")
	writeFile(t, dir, ".cache/d.json", "[]")

	got, err := DiscoverFiles(dir)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		filepath.Join(dir, "a.ndjson"),
		filepath.Join(dir, "b.json"),
		filepath.Join(dir, "sub", "c.jsonl"),
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DiscoverFiles = %v, want %v", got, want)
	}

	if _, err := DiscoverFiles(filepath.Join(dir, "nope")); err == nil {
		t.Error("expected error for missing dir")
	}
}

func TestLoadSymbolsFromFile(t *testing.T) {
	dir := t.TempDir()
	txt := writeFile(t, dir, "symbols.txt", "# majors\nbtc/usdt\nETH/USDT\n\nBTC/USDT\n")
	js := writeFile(t, dir, "symbols.json", `["asd/usdt", " ASD/USDT "]`)

	got, err := LoadSymbolsFromFile(txt)
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"BTC/USDT", "ETH/USDT"}; !reflect.DeepEqual(got, want) {
		t.Errorf("txt = %v, want %v", got, want)
	}

	got, err = LoadSymbolsFromFile(js)
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"ASD/USDT"}; !reflect.DeepEqual(got, want) {
		t.Errorf("json = %v, want %v", got, want)
	}

	if _, err := LoadSymbolsFromFile(writeFile(t, dir, "s.csv", "x")); err == nil {
		t.Error("expected error for .csv")
	}
}
