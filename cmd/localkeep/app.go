package main

import (
	"fmt"

	"localkeep/internal/config"
	"localkeep/internal/journal"
	"localkeep/internal/license"
	"localkeep/internal/media"
	"localkeep/internal/paths"
)

// app bundles the stores for one command invocation.
type app struct {
	paths    *paths.Resolver
	licenses *license.Store
	media    *media.Store
}

func withApp(cfg *config.Config, fn func(*app) error) error {
	if cfg == nil {
		return fmt.Errorf("config not initialized")
	}
	resolver, err := paths.New(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("initialize data dir %s: %w", cfg.DataDir, err)
	}

	var recorder journal.Recorder
	if cfg.Journal.Enabled {
		j, err := journal.Open(cfg.Journal.Path)
		if err != nil {
			componentLogger(componentJournal).Warn("journal unavailable", "path", cfg.Journal.Path, "error", err)
		} else {
			defer j.Close()
			recorder = j
		}
	}

	licenses, err := license.NewStore(resolver, license.Options{
		Logger:   componentLogger(componentLicense),
		Recorder: recorder,
	})
	if err != nil {
		return err
	}
	mediaStore, err := media.NewStore(resolver, media.Options{
		Logger:   componentLogger(componentMedia),
		Recorder: recorder,
	})
	if err != nil {
		return err
	}

	return fn(&app{paths: resolver, licenses: licenses, media: mediaStore})
}

func withJournal(cfg *config.Config, fn func(*journal.Journal) error) error {
	if cfg == nil {
		return fmt.Errorf("config not initialized")
	}
	if !cfg.Journal.Enabled {
		return fmt.Errorf("journal is disabled (set journal.enabled = true)")
	}
	j, err := journal.Open(cfg.Journal.Path)
	if err != nil {
		return fmt.Errorf("open journal %s: %w", cfg.Journal.Path, err)
	}
	defer j.Close()
	return fn(j)
}
