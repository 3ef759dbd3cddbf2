package ingest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// FailedEntry is one line of .lastrun.failed.json
type FailedEntry struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

const (
	successReportName = ".lastrun.success.json"
	failedReportName  = ".lastrun.failed.json"
)

func writeRunReport(saveBaseDir string, successList []string, failedList []FailedEntry) error {
	if err := os.MkdirAll(saveBaseDir, 0755); err != nil {
		return err
	}
	if len(successList) > 0 {
		p := filepath.Join(saveBaseDir, successReportName)
		data, err := json.MarshalIndent(successList, "", "  ")
		if err != nil {
			return err
		}
		if err := os.WriteFile(p, data, 0644); err != nil {
			return err
		}
		slog.Info("report wrote success", "path", p, "files", len(successList))
	} else {
		removeStale(filepath.Join(saveBaseDir, successReportName))
	}
	if len(failedList) > 0 {
		p := filepath.Join(saveBaseDir, failedReportName)
		data, err := json.MarshalIndent(failedList, "", "  ")
		if err != nil {
			return err
		}
		if err := os.WriteFile(p, data, 0644); err != nil {
			return err
		}
		slog.Info("report wrote failed", "path", p, "count", len(failedList))
	} else {
		removeStale(filepath.Join(saveBaseDir, failedReportName))
	}
	return nil
}

// removeStale drops a report left by an earlier run.
func removeStale(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("could not remove stale report", "path", path, "error", err)
	}
}

func appendSuccess(list []string, path string) []string {
	for _, p := range list {
		if p == path {
			return list
		}
	}
	return append(list, path)
}

func joinFailedReasons(failedList []FailedEntry) string {
	if len(failedList) == 0 {
		return ""
	}
	var b strings.Builder
	for i, f := range failedList {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(filepath.Base(f.Path))
		b.WriteString(": ")
		b.WriteString(f.Reason)
		if i >= 4 && len(failedList) > 6 {
			b.WriteString(fmt.Sprintf(" (+%d more)", len(failedList)-5))
			break
		}
	}
	return b.String()
}
