// Package kv provides the key-value backends the events collection is persisted to.
package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/wb-go/wbf/retry"

	_ "modernc.org/sqlite"
)

// SQLite stores values in a single kv table of a local SQLite database.
type SQLite struct {
	db       *sql.DB
	strategy retry.Strategy
}

// NewSQLite opens (or creates) the database at path and initializes the schema.
func NewSQLite(path string, strategy retry.Strategy) (*SQLite, error) {
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db.SetMaxOpenConns(1)

	s := &SQLite{db: db, strategy: strategy}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *SQLite) Close() error { return s.db.Close() }

func (s *SQLite) migrate() error {
	_, err := s.db.Exec(`
	CREATE TABLE IF NOT EXISTS kv (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);`)
	return err
}

// Load returns the value stored under key. ok is false when the key does not exist.
func (s *SQLite) Load(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}

		return "", false, fmt.Errorf("failed to load %s: %w", key, err)
	}

	return value, true, nil
}

// Save replaces the value stored under key. Writes are retried with the configured
// strategy, which covers SQLITE_BUSY under concurrent access.
func (s *SQLite) Save(ctx context.Context, key, value string) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)

	err := retry.Do(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}

		_, err := s.db.ExecContext(ctx,
			`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
			 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
			key, value, now,
		)
		return err
	}, s.strategy)
	if err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}

	return nil
}
