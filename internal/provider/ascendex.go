package provider

import (
	"ascendex-bars/internal/provider/ascendex"
)

// AscendexProvider is a DataProvider implementation backed by captured AscendEX
// barhist responses. It embeds *ascendex.Reader to expose decoding with minimal boilerplate.
type AscendexProvider struct {
	*ascendex.Reader
	symbols map[string]bool
}

// NewAscendexProvider creates a new AscendEX-backed DataProvider.
func NewAscendexProvider(policy ascendex.Policy) *AscendexProvider {
	return &AscendexProvider{
		Reader: ascendex.NewReader(policy),
	}
}

// GetName returns provider name. It is also the directory name under data_dir.
func (p *AscendexProvider) GetName() string {
	return "AscendEX"
}

// Close releases nothing; the reader holds no open handles between files.
func (p *AscendexProvider) Close() error {
	return nil
}

// SetLogFunc sets fan-in logger. When set, the reader sends logs here instead of slog.
func (p *AscendexProvider) SetLogFunc(fn ascendex.LogFunc) {
	if p.Reader != nil {
		p.Reader.LogFunc = fn
	}
}

// SetSymbols restricts Accept to the given symbols. An empty list accepts all.
func (p *AscendexProvider) SetSymbols(symbols []string) {
	if len(symbols) == 0 {
		p.symbols = nil
		return
	}
	p.symbols = make(map[string]bool, len(symbols))
	for _, s := range symbols {
		p.symbols[s] = true
	}
}

// Accept reports whether records for symbol should be ingested.
func (p *AscendexProvider) Accept(symbol string) bool {
	return p.symbols == nil || p.symbols[symbol]
}
