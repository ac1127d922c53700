package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/desertthunder/tunes/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupConfig writes the default configuration file.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("config")
	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}

	r.logger.Info("config file created", "path", path)
	r.writePlain("✓ Wrote default configuration to %s\n", path)
	return nil
}

// SetupDatabase initializes the database and runs migrations, or rolls back the latest one.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	cfg, err := r.databaseConfig(cmd)
	if err != nil {
		return err
	}

	r.logger.Info("initializing database", "path", cfg.Path)

	if cmd.Bool("rollback") {
		db, err := shared.NewDatabase(cfg.Path)
		if err != nil {
			return fmt.Errorf("failed to create database: %w", err)
		}
		defer db.Close()

		if err := shared.RollbackMigration(db); err != nil {
			return fmt.Errorf("failed to roll back migration: %w", err)
		}
		return r.reportVersion(db, cfg.Path)
	}

	r.logger.Info("running database migrations")
	db, err := shared.OpenDatabase(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	r.logger.Infof("setup complete for database: %v", cfg.Path)
	return r.reportVersion(db, cfg.Path)
}

func (r *Runner) reportVersion(db *sql.DB, path string) error {
	version, ok, err := shared.CurrentVersion(db)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if !ok {
		return r.writePlain("%s has no migrations applied\n", path)
	}
	return r.writePlain("%s is at schema version %04d\n", path, version)
}
