package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/noah-isme/coursebook-api/pkg/config"
)

const defaultSQLitePath = "./data/coursebook.db"

// SQLiteDSN returns the go-sqlite3 connection string for path.
func SQLiteDSN(path string) string {
	if path == "" {
		path = defaultSQLitePath
	}
	return "file:" + path + "?_journal_mode=WAL&_busy_timeout=5000"
}

// NewSQLite opens (and creates when missing) the SQLite database file.
func NewSQLite(ctx context.Context, cfg config.SQLiteConfig) (*sqlx.DB, error) {
	path := cfg.Path
	if path == "" {
		path = defaultSQLitePath
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite directory: %w", err)
		}
	}

	db, err := sqlx.Open("sqlite3", SQLiteDSN(path))
	if err != nil {
		return nil, err
	}
	// SQLite allows a single writer at a time.
	db.SetMaxOpenConns(1)

	if err := ping(ctx, db); err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	return db, nil
}
