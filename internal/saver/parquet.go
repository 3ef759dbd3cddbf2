package saver

import (
	"github.com/parquet-go/parquet-go"

	"ascendex-bars/internal/model"
)

// ParquetSaver saves a packet as Parquet, one row per record.
type ParquetSaver struct{}

func (ParquetSaver) Extension() string { return "parquet" }

func (ParquetSaver) Save(bars []model.BarHist, path string) error {
	return parquet.WriteFile(path, toRows(bars))
}

// ReadParquet loads a packet written by ParquetSaver.
func ReadParquet(path string) ([]model.BarHist, error) {
	rows, err := parquet.ReadFile[Bar](path)
	if err != nil {
		return nil, err
	}
	bars := make([]model.BarHist, 0, len(rows))
	for _, r := range rows {
		b, err := r.BarHist()
		if err != nil {
			return nil, err
		}
		bars = append(bars, b)
	}
	return bars, nil
}
