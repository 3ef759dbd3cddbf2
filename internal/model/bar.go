package model

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// BarHist is one bar-history record as returned by the AscendEX barhist API.
// Price and volume fields are kept as the decimal text received on the wire.
// A BarHist is immutable: it is built by DecodeBarHist or NewBarHist and has
// no mutators, so values can be shared between goroutines freely.
type BarHist struct {
	message    string
	symbol     string
	baseAsset  string
	quoteAsset string
	interval   Interval
	time       int64
	open       string
	close      string
	high       string
	low        string
	volume     string
}

// BarHistFields is the builder stage for NewBarHist and the copy returned by
// BarHist.Fields. Time is epoch milliseconds.
type BarHistFields struct {
	Message    string
	Symbol     string
	BaseAsset  string
	QuoteAsset string
	Interval   Interval
	Time       int64
	Open       string
	Close      string
	High       string
	Low        string
	Volume     string
}

// barHistWire holds the short wire keys. Pointers distinguish a missing key
// from a zero value.
type barHistWire struct {
	Message    *string
	Symbol     *string
	BaseAsset  *string
	QuoteAsset *string
	Interval   *string
	Time       *int64
	Open       *string
	Close      *string
	High       *string
	Low        *string
	Volume     *string
}

// DecodeBarHist parses one wire record. Keys match exactly ("S" is not "s")
// and unknown keys are ignored. A payload that is not an object, has a
// mistyped field, or lacks a required key yields an error matching
// ErrMalformedResponse. Null and empty-string required values count as missing.
func DecodeBarHist(data []byte) (BarHist, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return BarHist{}, &MalformedError{Cause: err}
	}
	var w barHistWire
	fields := []struct {
		key string
		dst any
	}{
		{"m", &w.Message},
		{"s", &w.Symbol},
		{"ba", &w.BaseAsset},
		{"qa", &w.QuoteAsset},
		{"i", &w.Interval},
		{"t", &w.Time},
		{"o", &w.Open},
		{"c", &w.Close},
		{"h", &w.High},
		{"l", &w.Low},
		{"v", &w.Volume},
	}
	for _, f := range fields {
		raw, ok := obj[f.key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, f.dst); err != nil {
			return BarHist{}, &MalformedError{Key: f.key, Cause: err}
		}
	}
	return w.build()
}

func (w *barHistWire) build() (BarHist, error) {
	if w.Time == nil {
		return BarHist{}, &MalformedError{Key: "t", Cause: errMissingKey}
	}
	required := []struct {
		key   string
		value *string
	}{
		{"s", w.Symbol},
		{"i", w.Interval},
		{"o", w.Open},
		{"c", w.Close},
		{"h", w.High},
		{"l", w.Low},
		{"v", w.Volume},
	}
	for _, r := range required {
		if r.value == nil {
			return BarHist{}, &MalformedError{Key: r.key, Cause: errMissingKey}
		}
		if *r.value == "" {
			return BarHist{}, &MalformedError{Key: r.key, Cause: errEmptyValue}
		}
	}
	return BarHist{
		message:    deref(w.Message),
		symbol:     *w.Symbol,
		baseAsset:  deref(w.BaseAsset),
		quoteAsset: deref(w.QuoteAsset),
		interval:   Interval(*w.Interval),
		time:       *w.Time,
		open:       *w.Open,
		close:      *w.Close,
		high:       *w.High,
		low:        *w.Low,
		volume:     *w.Volume,
	}, nil
}

// NewBarHist builds a record from already-parsed fields, e.g. rows read back
// from storage. It enforces the same required fields as DecodeBarHist.
func NewBarHist(f BarHistFields) (BarHist, error) {
	required := []struct {
		key   string
		value string
	}{
		{"s", f.Symbol},
		{"i", string(f.Interval)},
		{"o", f.Open},
		{"c", f.Close},
		{"h", f.High},
		{"l", f.Low},
		{"v", f.Volume},
	}
	for _, r := range required {
		if r.value == "" {
			return BarHist{}, &MalformedError{Key: r.key, Cause: errMissingKey}
		}
	}
	return BarHist{
		message:    f.Message,
		symbol:     f.Symbol,
		baseAsset:  f.BaseAsset,
		quoteAsset: f.QuoteAsset,
		interval:   f.Interval,
		time:       f.Time,
		open:       f.Open,
		close:      f.Close,
		high:       f.High,
		low:        f.Low,
		volume:     f.Volume,
	}, nil
}

func (b BarHist) Message() string    { return b.message }
func (b BarHist) Symbol() string     { return b.symbol }
func (b BarHist) BaseAsset() string  { return b.baseAsset }
func (b BarHist) QuoteAsset() string { return b.quoteAsset }
func (b BarHist) Interval() Interval { return b.interval }

// Time returns the bar timestamp in epoch milliseconds.
func (b BarHist) Time() int64 { return b.time }

// Timestamp returns Time as a UTC time.Time.
func (b BarHist) Timestamp() time.Time { return time.UnixMilli(b.time).UTC() }

func (b BarHist) Open() string   { return b.open }
func (b BarHist) Close() string  { return b.close }
func (b BarHist) High() string   { return b.high }
func (b BarHist) Low() string    { return b.low }
func (b BarHist) Volume() string { return b.volume }

// Fields returns a copy of the record's values.
func (b BarHist) Fields() BarHistFields {
	return BarHistFields{
		Message:    b.message,
		Symbol:     b.symbol,
		BaseAsset:  b.baseAsset,
		QuoteAsset: b.quoteAsset,
		Interval:   b.interval,
		Time:       b.time,
		Open:       b.open,
		Close:      b.close,
		High:       b.high,
		Low:        b.low,
		Volume:     b.volume,
	}
}

// UnmarshalJSON lets BarHist be decoded as an element of a larger payload.
func (b *BarHist) UnmarshalJSON(data []byte) error {
	v, err := DecodeBarHist(data)
	if err != nil {
		return err
	}
	*b = v
	return nil
}

// MarshalJSON encodes the record back to the short-key wire format.
func (b BarHist) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Message    string `json:"m,omitempty"`
		Symbol     string `json:"s"`
		BaseAsset  string `json:"ba,omitempty"`
		QuoteAsset string `json:"qa,omitempty"`
		Interval   string `json:"i"`
		Time       int64  `json:"t"`
		Open       string `json:"o"`
		Close      string `json:"c"`
		High       string `json:"h"`
		Low        string `json:"l"`
		Volume     string `json:"v"`
	}{
		Message:    b.message,
		Symbol:     b.symbol,
		BaseAsset:  b.baseAsset,
		QuoteAsset: b.quoteAsset,
		Interval:   string(b.interval),
		Time:       b.time,
		Open:       b.open,
		Close:      b.close,
		High:       b.high,
		Low:        b.low,
		Volume:     b.volume,
	})
}

// String renders every field on its own labeled line, for logs and the
// show command. It is not a wire format.
func (b BarHist) String() string {
	lines := [][2]string{
		{"message", b.message},
		{"symbol", b.symbol},
		{"baseAsset", b.baseAsset},
		{"quoteAsset", b.quoteAsset},
		{"interval", string(b.interval)},
		{"time", strconv.FormatInt(b.time, 10)},
		{"open", b.open},
		{"close", b.close},
		{"high", b.high},
		{"low", b.low},
		{"volume", b.volume},
	}
	var sb strings.Builder
	sb.WriteString("BarHist:")
	for _, l := range lines {
		sb.WriteString("\n\t")
		sb.WriteString(l[0])
		sb.WriteString(": ")
		sb.WriteString(l[1])
	}
	return sb.String()
}

// PairDir returns the symbol as a path-safe directory name ("BTC/USDT" -> "BTC-USDT").
func (b BarHist) PairDir() string {
	return strings.ReplaceAll(b.symbol, "/", "-")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
