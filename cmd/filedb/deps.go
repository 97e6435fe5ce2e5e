package main

import (
	"log/slog"

	"filedb"
	"filedb/internal/config"
)

// withDB opens the configured database, runs fn, and always closes the
// handle so the retention sweep runs.
func withDB(cfg *config.Config, fn func(*filedb.FileDB) error) error {
	db, err := filedb.Connect(cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Warn("closing database", "path", cfg.DBPath, "error", closeErr)
		}
	}()

	return fn(db)
}
