package main

import (
	"ascendex-bars/internal/app"
	"ascendex-bars/internal/ingest"
	"ascendex-bars/internal/store"
)

// App holds application dependencies built by Wire.
type App struct {
	Config   *app.Config
	Pipeline *ingest.Pipeline
	Store    store.Store
}
