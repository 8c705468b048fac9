package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mawshu/movie-tracker/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupConfig writes config.toml from the embedded template.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if err := shared.CreateConfigFile(configPath); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidConfig, err)
	}

	r.logger.Info("config file created", "path", configPath)
	r.writePlain("✓ Wrote %s\n", configPath)
	r.writePlainln("Next steps:")
	r.writePlain("1. Set service.base_url to your catalog service\n")
	r.writePlain("2. Run 'movietracker setup database'\n")
	return nil
}

// openDB returns the runner's database, or opens one from config when startup could not.
// The returned func closes only a database opened here.
func (r *Runner) openDB(ctx context.Context) (*sql.DB, func(), error) {
	if r.db != nil {
		return r.db, func() {}, nil
	}

	db, err := shared.OpenDatabase(ctx, r.config.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, func() { db.Close() }, nil
}

// SetupDatabase initializes the session database and runs migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	r.logger.Info("initializing database", "path", r.config.Database.Path)

	db, closeDB, err := r.openDB(ctx)
	if err != nil {
		return err
	}
	defer closeDB()

	if err := shared.RunMigrations(ctx, db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	versions, err := shared.AppliedMigrations(ctx, db)
	if err != nil {
		return err
	}

	r.logger.Infof("setup complete for database: %v", r.config.Database.Path)
	r.writePlain("✓ Database ready (%d migrations applied)\n", len(versions))
	return nil
}

// SetupRollback reverts the most recent migration.
func (r *Runner) SetupRollback(ctx context.Context, cmd *cli.Command) error {
	db, closeDB, err := r.openDB(ctx)
	if err != nil {
		return err
	}
	defer closeDB()

	if err := shared.RollbackMigration(ctx, db); err != nil {
		return fmt.Errorf("rollback failed: %w", err)
	}

	versions, err := shared.AppliedMigrations(ctx, db)
	if err != nil {
		return err
	}
	r.writePlain("✓ Rolled back; %d migrations remain\n", len(versions))
	return nil
}

type pinger interface {
	Ping(ctx context.Context) error
}

// SetupPing checks that the catalog service answers.
func (r *Runner) SetupPing(ctx context.Context, cmd *cli.Command) error {
	p, ok := r.catalog.(pinger)
	if !ok {
		return fmt.Errorf("%w: catalog client cannot be pinged", shared.ErrNotImplemented)
	}

	start := time.Now()
	if err := p.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}

	r.writePlain("✓ %s reachable (%s)\n", r.config.Service.BaseURL, time.Since(start).Round(time.Millisecond))
	return nil
}
