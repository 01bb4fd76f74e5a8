package main

import (
	"errors"
	"io/fs"

	"github.com/ericogr/gridsiege/internal/config"
	"github.com/ericogr/gridsiege/internal/logging"
	"github.com/ericogr/gridsiege/internal/storage"
)

// loadConfigOrExit falls back to the built-in ruleset when the file does not
// exist; any other failure is fatal.
func loadConfigOrExit(path string) *config.LoadedConfig {
	cfg, err := config.LoadConfig(path)
	if err == nil {
		return cfg
	}
	if errors.Is(err, fs.ErrNotExist) {
		logging.Warn("Config file not found, using the default ruleset", logging.Fields{"config_path": path})
		return config.Default()
	}
	logging.Fatal("Missing or invalid gridsiege configuration", err, logging.Fields{"config_path": path})
	return nil
}

func createRepositoryOrExit(dbPath string) storage.Repository {
	db, err := storage.OpenAndMigrate(dbPath)
	if err != nil {
		logging.Fatal("Failed to initialize database", err, logging.Fields{"db": dbPath})
	}
	return storage.NewSQLiteRepository(db)
}
