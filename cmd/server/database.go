package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/Moktur/N-LanguagesAI/internal/config"
	"github.com/Moktur/N-LanguagesAI/internal/platform/migrate"
	"github.com/Moktur/N-LanguagesAI/internal/platform/postgres"
	"github.com/Moktur/N-LanguagesAI/internal/platform/sqlite"
	"github.com/Moktur/N-LanguagesAI/internal/platform/sqlstore"
	"github.com/Moktur/N-LanguagesAI/internal/redact"
)

// backend bundles the dialect-specific parts of the configured database.
type backend struct {
	dialect    sqlstore.Dialect
	migrations migrate.Source
}

func backendFor(driver string) (backend, error) {
	switch driver {
	case config.DriverPostgres:
		return backend{
			dialect:    postgres.Dialect(),
			migrations: postgres.Migrations(),
		}, nil
	case config.DriverSQLite:
		return backend{
			dialect:    sqlite.Dialect(),
			migrations: sqlite.Migrations(),
		}, nil
	default:
		return backend{}, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// openDatabase connects to the database selected by cfg.Driver.
func openDatabase(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error) {
	var (
		db  *sql.DB
		err error
	)
	switch cfg.Driver {
	case config.DriverPostgres:
		db, err = postgres.Open(ctx, cfg)
	case config.DriverSQLite:
		db, err = sqlite.Open(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %s", redact.Error(err))
	}
	return db, nil
}

func closeDatabase(db *sql.DB, logger *slog.Logger) {
	if err := db.Close(); err != nil {
		logger.Error("failed to close database connection", slog.String("error", redact.Error(err)))
	}
}

// runMigrations runs a goose command with the migrations of driver.
func runMigrations(ctx context.Context, db *sql.DB, driver, command string, logger *slog.Logger) error {
	b, err := backendFor(driver)
	if err != nil {
		return err
	}
	if err := migrate.Run(ctx, db, b.migrations, command, logger); err != nil {
		return fmt.Errorf("migration %s failed: %w", command, err)
	}
	return nil
}
