package repository

import (
	"context"
	"database/sql"
	"fmt"

	"rainpath-cases/common/config"
)

// Postgres DDL. Timestamps default to NOW(), which is constant inside a transaction,
// so reads order by (created_at, id).
var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS cases (
    id BIGSERIAL PRIMARY KEY,
    identifier TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    CONSTRAINT cases_identifier_key UNIQUE (identifier)
)`,
	`CREATE TABLE IF NOT EXISTS specimens (
    id BIGSERIAL PRIMARY KEY,
    case_id BIGINT NOT NULL REFERENCES cases(id) ON DELETE CASCADE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`,
	`CREATE INDEX IF NOT EXISTS specimens_case_id_idx ON specimens (case_id)`,
	`CREATE TABLE IF NOT EXISTS blocks (
    id BIGSERIAL PRIMARY KEY,
    specimen_id BIGINT NOT NULL REFERENCES specimens(id) ON DELETE CASCADE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`,
	`CREATE INDEX IF NOT EXISTS blocks_specimen_id_idx ON blocks (specimen_id)`,
	`CREATE TABLE IF NOT EXISTS slides (
    id BIGSERIAL PRIMARY KEY,
    block_id BIGINT NOT NULL REFERENCES blocks(id) ON DELETE CASCADE,
    staining TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`,
	`CREATE INDEX IF NOT EXISTS slides_block_id_idx ON slides (block_id)`,
}

// SQLite DDL. Timestamps are fixed-width UTC text (sqliteTimeLayout) so they sort lexically.
var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS cases (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    identifier TEXT NOT NULL UNIQUE,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS specimens (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    case_id INTEGER NOT NULL REFERENCES cases(id) ON DELETE CASCADE,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS specimens_case_id_idx ON specimens (case_id)`,
	`CREATE TABLE IF NOT EXISTS blocks (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    specimen_id INTEGER NOT NULL REFERENCES specimens(id) ON DELETE CASCADE,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS blocks_specimen_id_idx ON blocks (specimen_id)`,
	`CREATE TABLE IF NOT EXISTS slides (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    block_id INTEGER NOT NULL REFERENCES blocks(id) ON DELETE CASCADE,
    staining TEXT NOT NULL,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS slides_block_id_idx ON slides (block_id)`,
}

// SchemaStatements DDL for a driver, in execution order.
func SchemaStatements(driver string) ([]string, error) {
	switch driver {
	case config.DriverPostgres:
		return postgresSchema, nil
	case config.DriverSQLite:
		return sqliteSchema, nil
	default:
		return nil, fmt.Errorf("no schema for driver %q", driver)
	}
}

// EnsureSchema creates the case tables if they do not exist. Idempotent.
func EnsureSchema(ctx context.Context, db *sql.DB, driver string) error {
	statements, err := SchemaStatements(driver)
	if err != nil {
		return err
	}
	for i, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement %d/%d: %w", i+1, len(statements), err)
		}
	}
	return nil
}
