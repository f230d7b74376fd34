package database

import (
	"context"
	"path/filepath"
	"testing"

	"rainpath-cases/common/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPostgresDB_Unreachable(t *testing.T) {
	cfg := &config.DatabaseConfig{
		Host:     "127.0.0.1",
		Port:     1,
		User:     "postgres",
		Password: "postgres",
		Database: "rainpath",
		SSLMode:  "disable",
	}

	db, err := NewPostgresDB(context.Background(), cfg)
	require.Error(t, err)
	assert.Nil(t, db)
	assert.Contains(t, err.Error(), "127.0.0.1:1/rainpath")
}

func TestNewSQLiteDB_ForeignKeysOn(t *testing.T) {
	db, err := NewSQLiteDB(filepath.Join(t.TempDir(), "nested", "cases.db"))
	require.NoError(t, err)
	defer Close(db)

	var on int
	require.NoError(t, db.QueryRow(`PRAGMA foreign_keys`).Scan(&on))
	assert.Equal(t, 1, on)
}

func TestClose_Nil(t *testing.T) {
	assert.NoError(t, Close(nil))
}
