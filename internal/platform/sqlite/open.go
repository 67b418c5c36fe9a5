package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/Moktur/N-LanguagesAI/internal/config"

	// Registers the "sqlite3" database/sql driver.
	_ "github.com/mattn/go-sqlite3"
)

// DriverName is the database/sql driver registered by go-sqlite3.
const DriverName = "sqlite3"

// BusyTimeout is how long a connection waits for the write lock before
// reporting SQLITE_BUSY.
const BusyTimeout = 5 * time.Second

// DSN adds the connection parameters the stores rely on to dsn: immediate
// write transactions, a busy timeout and foreign key enforcement. Parameters
// already present in dsn are kept.
func DSN(dsn string) string {
	base, rawQuery, _ := strings.Cut(dsn, "?")
	params, err := url.ParseQuery(rawQuery)
	if err != nil {
		params = url.Values{}
	}

	defaults := map[string]string{
		"_txlock":       "immediate",
		"_busy_timeout": fmt.Sprint(BusyTimeout.Milliseconds()),
		"_foreign_keys": "on",
		"_journal_mode": "WAL",
	}
	for k, v := range defaults {
		if params.Get(k) == "" {
			params.Set(k, v)
		}
	}

	if !strings.HasPrefix(base, "file:") {
		base = "file:" + base
	}
	return base + "?" + params.Encode()
}

// Open opens the SQLite database described by cfg.URL.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open(DriverName, DSN(cfg.URL))
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}
	return db, nil
}
