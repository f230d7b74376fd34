package database

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

// MemorySQLitePath opens a private in-memory database.
const MemorySQLitePath = ":memory:"

// NewSQLiteDB opens a SQLite database at path with foreign keys enforced.
// SQLite serialises writers, so the pool is pinned to a single connection; this
// also keeps ":memory:" databases from splitting across connections.
func NewSQLiteDB(path string) (*sql.DB, error) {
	if path == "" {
		path = "rainpath.db"
	}
	if path != MemorySQLitePath {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA foreign_keys = ON`); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	return db, nil
}
