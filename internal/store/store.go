package store

import (
	"context"

	"ascendex-bars/internal/model"
)

// Store persists bar history keyed by (symbol, interval, time).
type Store interface {
	// SaveBars upserts bars in one transaction and returns how many were written.
	SaveBars(ctx context.Context, bars []model.BarHist) (int, error)
	// LatestTime returns the newest bar time for symbol/interval; ok is false when none is stored.
	LatestTime(ctx context.Context, symbol string, interval model.Interval) (t int64, ok bool, err error)
	// Bars returns bars with from <= time <= to, ascending.
	Bars(ctx context.Context, symbol string, interval model.Interval, from, to int64) ([]model.BarHist, error)
	Count(ctx context.Context) (int64, error)
	// DeleteBefore removes bars with time < cutoff and returns the number removed.
	DeleteBefore(ctx context.Context, cutoff int64) (int64, error)
	Close() error
}
