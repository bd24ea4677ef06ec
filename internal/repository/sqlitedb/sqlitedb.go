// Package sqlitedb opens the SQLite database shared by the contact and
// schedule stores and keeps its schema current.
package sqlitedb

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go driver registered as "sqlite".
)

// SchemaVersion is stored in PRAGMA user_version after migration.
const SchemaVersion = 2

// migrations are applied in order; migrations[i] moves the schema to version i+1.
//
//nolint:gochecknoglobals // Read-only migration list.
var migrations = []string{
	`
CREATE TABLE IF NOT EXISTS contacts (
	number       TEXT PRIMARY KEY,
	display_name TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS schedules (
	id           TEXT PRIMARY KEY,
	name         TEXT NOT NULL DEFAULT '',
	days_of_week TEXT NOT NULL,
	start_hour   INTEGER NOT NULL,
	start_minute INTEGER NOT NULL,
	end_hour     INTEGER NOT NULL,
	end_minute   INTEGER NOT NULL,
	recurrence   TEXT NOT NULL DEFAULT 'weekly',
	position     INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_schedules_position ON schedules(position);
`,
	// A TEXT primary key accepts NULL in SQLite; rows without a number are dropped.
	`
CREATE TABLE contacts_v2 (
	number       TEXT NOT NULL PRIMARY KEY,
	display_name TEXT NOT NULL DEFAULT ''
);
INSERT INTO contacts_v2 (number, display_name)
	SELECT number, COALESCE(display_name, '') FROM contacts WHERE number IS NOT NULL;
DROP TABLE contacts;
ALTER TABLE contacts_v2 RENAME TO contacts;
`,
}

// Config holds connection parameters.
type Config struct {
	BusyTimeout  time.Duration
	MaxOpenConns int
}

// DefaultConfig returns the parameters used by the engine.
func DefaultConfig() Config {
	return Config{
		BusyTimeout:  5 * time.Second,
		MaxOpenConns: 4,
	}
}

// Open creates the parent directory, opens the database with WAL enabled on
// every pooled connection and migrates the schema.
func Open(ctx context.Context, path string, cfg Config) (*sql.DB, error) {
	path = filepath.Clean(path)

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	dsn := fmt.Sprintf(
		"file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(%d)&_pragma=synchronous(NORMAL)",
		path, cfg.BusyTimeout.Milliseconds(),
	)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
		db.SetMaxIdleConns(cfg.MaxOpenConns)
	}

	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err = migrate(ctx, db); err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("migrate database: %w", err)
	}

	return db, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	var current int
	if err := db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&current); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	if current >= SchemaVersion {
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration: %w", err)
	}

	//nolint:errcheck // Rollback after Commit is a no-op.
	defer tx.Rollback()

	for version := current; version < SchemaVersion; version++ {
		if _, err = tx.ExecContext(ctx, migrations[version]); err != nil {
			return fmt.Errorf("apply schema version %d: %w", version+1, err)
		}
	}

	if _, err = tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", SchemaVersion)); err != nil {
		return fmt.Errorf("store schema version: %w", err)
	}

	return tx.Commit()
}
