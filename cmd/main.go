package main

import (
	"context"
	"errors"
	"os"

	"github.com/mawshu/movie-tracker/internal/shared"
	"github.com/urfave/cli/v3"
)

// EnvConfigPath overrides the default config.toml location.
const EnvConfigPath = "MOVIETRACKER_CONFIG"

func main() {
	logger := shared.NewLogger(nil)
	ctx := context.Background()

	configPath := "config.toml"
	if v := os.Getenv(EnvConfigPath); v != "" {
		configPath = v
	}

	config := shared.DefaultConfig()
	if _, err := os.Stat(configPath); err == nil {
		if loadedConfig, err := shared.LoadConfig(configPath); err == nil {
			config = loadedConfig
		} else {
			logger.Warn("failed to load config, using defaults", "path", configPath, "error", err)
		}
	}

	if err := config.ApplyEnv(); err != nil {
		logger.Fatalf("invalid environment: %v", err)
	}
	if err := shared.ApplyLogLevel(logger, config.Log.Level); err != nil {
		logger.Warn("ignoring log level", "error", err)
	}

	db, err := shared.OpenDatabase(ctx, config.Database)
	if err != nil {
		logger.Warn("session database unavailable", "path", config.Database.Path, "error", err)
	}

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		DB:         db,
		Logger:     logger,
	})

	app := &cli.Command{
		Name:     "movietracker",
		Usage:    "Search movies, track what you watched, and keep ordered watchlists",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	err = app.Run(ctx, os.Args)
	if db != nil {
		db.Close()
	}
	if err != nil {
		if errors.Is(err, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		}
		logger.Fatalf("application error: %v", err)
	}
}
