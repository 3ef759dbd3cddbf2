package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Candle is a BarHist with parsed, exact decimal prices and an explicit
// close time. The open/close times are epoch milliseconds.
type Candle struct {
	Symbol    string
	Interval  Interval
	OpenTime  int64
	CloseTime int64
	Open      decimal.Decimal
	High      decimal.Decimal
	Low       decimal.Decimal
	Close     decimal.Decimal
	Volume    decimal.Decimal
}

// Candle converts the record. CloseTime is the last millisecond of the bar,
// so the interval must be in the catalogue.
func (b BarHist) Candle() (Candle, error) {
	if !b.interval.Known() {
		return Candle{}, fmt.Errorf("candle %s: %w: %q", b.symbol, ErrUnsupportedInterval, b.interval)
	}
	c := Candle{
		Symbol:    b.symbol,
		Interval:  b.interval,
		OpenTime:  b.time,
		CloseTime: b.time + b.interval.Duration().Milliseconds() - 1,
	}
	fields := []struct {
		key string
		raw string
		dst *decimal.Decimal
	}{
		{"o", b.open, &c.Open},
		{"h", b.high, &c.High},
		{"l", b.low, &c.Low},
		{"c", b.close, &c.Close},
		{"v", b.volume, &c.Volume},
	}
	for _, f := range fields {
		d, err := decimal.NewFromString(f.raw)
		if err != nil {
			return Candle{}, &MalformedError{Key: f.key, Cause: err}
		}
		*f.dst = d
	}
	return c, nil
}

func (c Candle) String() string {
	return fmt.Sprintf("%s %s open_time=%d close_time=%d o=%s h=%s l=%s c=%s v=%s",
		c.Symbol, c.Interval, c.OpenTime, c.CloseTime,
		c.Open.String(), c.High.String(), c.Low.String(), c.Close.String(), c.Volume.String())
}
