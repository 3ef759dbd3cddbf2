//go:build wireinject
// +build wireinject

package main

import (
	"ascendex-bars/internal/app"

	"github.com/google/wire"
)

// InitializeApp builds App (Config + Pipeline + Store) via Wire.
// Caller must call the returned cleanup when done.
func InitializeApp(path app.ConfigPath) (*App, func(), error) {
	wire.Build(
		app.ProvideConfig,
		app.ProvidePacketSaver,
		app.ProvideAscendexProvider,
		app.ProvideStore,
		app.ProvidePipeline,
		wire.Struct(new(App), "Config", "Pipeline", "Store"),
	)
	return nil, nil, nil
}
