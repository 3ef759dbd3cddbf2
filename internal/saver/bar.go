package saver

import "ascendex-bars/internal/model"

// Bar is the flat row written by the CSV and Parquet savers. Decimal
// columns are strings so stored values match the wire text exactly.
type Bar struct {
	Message    string `parquet:"m,optional"`
	Symbol     string `parquet:"s"`
	BaseAsset  string `parquet:"ba,optional"`
	QuoteAsset string `parquet:"qa,optional"`
	Interval   string `parquet:"i"`
	Time       int64  `parquet:"t"`
	Open       string `parquet:"o"`
	Close      string `parquet:"c"`
	High       string `parquet:"h"`
	Low        string `parquet:"l"`
	Volume     string `parquet:"v"`
}

// NewBar flattens a record into a row.
func NewBar(b model.BarHist) Bar {
	return Bar{
		Message:    b.Message(),
		Symbol:     b.Symbol(),
		BaseAsset:  b.BaseAsset(),
		QuoteAsset: b.QuoteAsset(),
		Interval:   string(b.Interval()),
		Time:       b.Time(),
		Open:       b.Open(),
		Close:      b.Close(),
		High:       b.High(),
		Low:        b.Low(),
		Volume:     b.Volume(),
	}
}

// BarHist rebuilds the record, applying the required-field checks of model.NewBarHist.
func (r Bar) BarHist() (model.BarHist, error) {
	return model.NewBarHist(model.BarHistFields{
		Message:    r.Message,
		Symbol:     r.Symbol,
		BaseAsset:  r.BaseAsset,
		QuoteAsset: r.QuoteAsset,
		Interval:   model.Interval(r.Interval),
		Time:       r.Time,
		Open:       r.Open,
		Close:      r.Close,
		High:       r.High,
		Low:        r.Low,
		Volume:     r.Volume,
	})
}

func toRows(bars []model.BarHist) []Bar {
	rows := make([]Bar, len(bars))
	for i, b := range bars {
		rows[i] = NewBar(b)
	}
	return rows
}
