package kvstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

const createEntriesTable = `CREATE TABLE IF NOT EXISTS kv_entries (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL
)`

// SQLBackend persists values in a single kv_entries table. The queries are
// written for both PostgreSQL and SQLite; placeholders are rebound per driver.
type SQLBackend struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewSQL wraps an open database handle.
func NewSQL(db *sqlx.DB) *SQLBackend {
	return &SQLBackend{db: db, now: time.Now}
}

// EnsureSchema creates the kv_entries table when missing.
func (s *SQLBackend) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createEntriesTable); err != nil {
		return fmt.Errorf("create kv_entries: %w", err)
	}
	return nil
}

// Get reads the value stored under key.
func (s *SQLBackend) Get(ctx context.Context, key string) ([]byte, error) {
	var value string
	query := s.db.Rebind(`SELECT value FROM kv_entries WHERE key = ?`)
	if err := s.db.GetContext(ctx, &value, query, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrKeyNotFound
		}
		return nil, fmt.Errorf("select kv entry %s: %w", key, err)
	}
	return []byte(value), nil
}

// Set upserts the value for key.
func (s *SQLBackend) Set(ctx context.Context, key string, value []byte) error {
	query := s.db.Rebind(`INSERT INTO kv_entries (key, value, updated_at) VALUES (?, ?, ?)
        ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`)
	if _, err := s.db.ExecContext(ctx, query, key, string(value), s.now().UTC()); err != nil {
		return fmt.Errorf("upsert kv entry %s: %w", key, err)
	}
	return nil
}

// Ping checks the database connection.
func (s *SQLBackend) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
