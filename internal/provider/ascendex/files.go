package ascendex

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DiscoverFiles lists captured response files (.json, .ndjson, .jsonl) under
// dir, recursively, in lexical order. Hidden files and directories are skipped.
func DiscoverFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if path != dir && strings.HasPrefix(name, ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(name)) {
		case ".json", ".ndjson", ".jsonl":
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("discover %s: %w", dir, err)
	}
	sort.Strings(files)
	return files, nil
}

// LoadSymbolsFromFile reads a symbol allow-list.
// Supported formats:
//   - .txt  : one symbol per line, '#' lines are treated as comments
//   - .json : JSON array of strings
//
// Symbols are upper-cased and de-duplicated, keeping first-seen order.
func LoadSymbolsFromFile(path string) ([]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open file %s: %w", path, err)
	}

	var symbols []string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(content, &symbols); err != nil {
			return nil, fmt.Errorf("parse JSON: %w", err)
		}
	case ".txt":
		symbols = parseSymbolsFromText(string(content))
	default:
		return nil, fmt.Errorf("unsupported symbol file extension %q (use .txt or .json)", filepath.Ext(path))
	}

	seen := make(map[string]bool)
	var unique []string
	for _, s := range symbols {
		s = strings.TrimSpace(strings.ToUpper(s))
		if s != "" && !seen[s] {
			seen[s] = true
			unique = append(unique, s)
		}
	}

	slog.Info("loaded symbols from file", "count", len(unique), "path", path)
	return unique, nil
}

func parseSymbolsFromText(s string) []string {
	var symbols []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "#") {
			symbols = append(symbols, line)
		}
	}
	return symbols
}
