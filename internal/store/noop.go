package store

import (
	"context"

	"ascendex-bars/internal/model"
)

// NoopStore is a no-op implementation used when SQLite is not configured.
type NoopStore struct{}

func NewNoopStore() *NoopStore { return &NoopStore{} }

func (n *NoopStore) SaveBars(_ context.Context, bars []model.BarHist) (int, error) { return 0, nil }
func (n *NoopStore) LatestTime(_ context.Context, _ string, _ model.Interval) (int64, bool, error) {
	return 0, false, nil
}
func (n *NoopStore) Bars(_ context.Context, _ string, _ model.Interval, _, _ int64) ([]model.BarHist, error) {
	return nil, nil
}
func (n *NoopStore) Count(_ context.Context) (int64, error)                 { return 0, nil }
func (n *NoopStore) DeleteBefore(_ context.Context, _ int64) (int64, error) { return 0, nil }
func (n *NoopStore) Close() error                                           { return nil }
