package saver

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"ascendex-bars/internal/model"
)

// PacketSaver is the abstraction for persisting one packet of bars.
// The application injects an implementation; the ingest workers depend only on this interface.
type PacketSaver interface {
	Save(bars []model.BarHist, path string) error
	Extension() string
}

// NewPacketSaver creates implementation by format (csv, parquet, json).
// Returns nil if format not supported.
func NewPacketSaver(format string) PacketSaver {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "csv":
		return CSVSaver{}
	case "parquet":
		return ParquetSaver{}
	case "json":
		return JSONSaver{}
	default:
		return nil
	}
}

const packetTimeLayout = "20060102T150405Z"

// PacketPath returns <dir>/<BASE-QUOTE>/<base-quote>_<interval>_<from>_to_<to>.<ext>
// for a packet of bars of one symbol and interval. Times are epoch milliseconds.
func PacketPath(dir, symbol string, interval model.Interval, from, to int64, ext string) string {
	pair := strings.ReplaceAll(symbol, "/", "-")
	name := fmt.Sprintf("%s_%s_%s_to_%s.%s",
		strings.ToLower(pair), interval,
		time.UnixMilli(from).UTC().Format(packetTimeLayout),
		time.UnixMilli(to).UTC().Format(packetTimeLayout),
		ext)
	return filepath.Join(dir, pair, name)
}
