package saver

import (
	"encoding/csv"
	"os"
	"strconv"

	"ascendex-bars/internal/model"
)

// CSVHeader is the column order of CSV packets, the wire keys.
var CSVHeader = []string{"m", "s", "ba", "qa", "i", "t", "o", "c", "h", "l", "v"}

// CSVSaver saves a packet as CSV (header: m,s,ba,qa,i,t,o,c,h,l,v).
type CSVSaver struct{}

func (CSVSaver) Extension() string { return "csv" }

func (CSVSaver) Save(bars []model.BarHist, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)

	if err := w.Write(CSVHeader); err != nil {
		return err
	}
	for _, b := range bars {
		if err := w.Write([]string{
			b.Message(),
			b.Symbol(),
			b.BaseAsset(),
			b.QuoteAsset(),
			string(b.Interval()),
			strconv.FormatInt(b.Time(), 10),
			b.Open(),
			b.Close(),
			b.High(),
			b.Low(),
			b.Volume(),
		}); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}
