package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDatabaseConfig_GetDSN(t *testing.T) {
	cfg := &DatabaseConfig{
		Host:     "db.lab",
		Port:     5433,
		User:     "rainpath",
		Password: `it's a p\w`,
		Database: "rainpath",
		SSLMode:  "require",
		AppName:  "rainpath-cases",
	}

	assert.Equal(t,
		`host='db.lab' port=5433 user='rainpath' password='it\'s a p\\w' dbname='rainpath' sslmode='require' application_name='rainpath-cases'`,
		cfg.GetDSN())

	cfg.AppName = ""
	assert.NotContains(t, cfg.GetDSN(), "application_name")
}

func TestDatabaseConfig_LoadFromEnv(t *testing.T) {
	t.Setenv("TESTDB_DRIVER", DriverSQLite)
	t.Setenv("TESTDB_PORT", "6543")
	t.Setenv("TESTDB_NAME", "cases")

	cfg := &DatabaseConfig{Driver: DriverPostgres, Port: 5432}
	cfg.LoadFromEnv("TESTDB")

	assert.Equal(t, DriverSQLite, cfg.Driver)
	assert.Equal(t, 6543, cfg.Port)
	assert.Equal(t, "cases", cfg.Database)
}
