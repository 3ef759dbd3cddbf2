package saver

import (
	"encoding/json"
	"os"

	"ascendex-bars/internal/model"
)

// JSONSaver saves a packet as an indented JSON array in the wire format,
// so packets can be fed back through the captured response reader.
type JSONSaver struct{}

func (JSONSaver) Extension() string { return "json" }

func (JSONSaver) Save(bars []model.BarHist, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if bars == nil {
		bars = []model.BarHist{}
	}
	if err := enc.Encode(bars); err != nil {
		return err
	}
	return f.Close()
}
