package main

import (
	"github.com/eamonnk/refdex/internal/config"
	"github.com/eamonnk/refdex/internal/launch"
	"github.com/eamonnk/refdex/internal/query"
	"github.com/eamonnk/refdex/internal/store"
)

// mustLoadConfig loads the effective configuration or exits.
func mustLoadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	return cfg
}

func newStore(cfg *config.Config) *store.Store {
	return store.New(cfg.StructuredPath, cfg.QueryablePath)
}

func newEngine(cfg *config.Config) *query.Engine {
	return query.New(newStore(cfg))
}

func newLauncher(cfg *config.Config) *launch.Launcher {
	return launch.New(cfg.PDFDir, cfg.Viewer, cfg.Editor)
}
