package config

import (
	"os"
	"strconv"
	"time"

	commoncfg "rainpath-cases/common/config"
)

// Config rainpath-cases (HTTP API) settings
type Config struct {
	HTTP struct {
		Addr string
	}
	Database    commoncfg.DatabaseConfig
	AutoMigrate bool
	Redis       RedisConfig
	Drafts      struct {
		TTL time.Duration
	}
	Log struct {
		Level  string
		Format string
	}
	MQTT    MQTTConfig
	Metrics struct {
		Enabled bool
	}
}

// RedisConfig draft store backend
type RedisConfig struct {
	Enabled bool
	commoncfg.RedisConfig
}

// MQTTConfig case lifecycle events (disabled by default)
type MQTTConfig struct {
	Enabled     bool
	TopicPrefix string
	commoncfg.MQTTConfig
}

func Load() *Config {
	cfg := &Config{}
	cfg.HTTP.Addr = getEnv("HTTP_ADDR", ":3000")

	// DB_DRIVER=postgres falls back to memory at startup when the database is unreachable.
	cfg.Database.Driver = getEnv("DB_DRIVER", commoncfg.DriverPostgres)
	cfg.Database.Host = getEnv("DB_HOST", "localhost")
	cfg.Database.Port = parseInt(getEnv("DB_PORT", "5432"), 5432)
	cfg.Database.User = getEnv("DB_USER", "postgres")
	cfg.Database.Password = getEnv("DB_PASSWORD", "postgres")
	cfg.Database.Database = getEnv("DB_NAME", "rainpath")
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", "disable")
	cfg.Database.MaxConns = parseInt(getEnv("DB_MAX_CONNS", "10"), 10)
	cfg.Database.MaxIdle = parseInt(getEnv("DB_MAX_IDLE", "5"), 5)
	cfg.Database.SQLitePath = getEnv("SQLITE_PATH", "rainpath.db")
	cfg.Database.AppName = getEnv("DB_APP_NAME", "rainpath-cases")
	cfg.AutoMigrate = getEnv("DB_AUTO_MIGRATE", "true") == "true"

	cfg.Redis.Enabled = getEnv("REDIS_ENABLED", "true") == "true"
	cfg.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = parseInt(getEnv("REDIS_DB", "0"), 0)
	cfg.Drafts.TTL = parseDuration(getEnv("DRAFT_TTL", "0"), 0)

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	cfg.MQTT.Enabled = getEnv("MQTT_ENABLED", "false") == "true"
	cfg.MQTT.Broker = getEnv("MQTT_BROKER", "tcp://localhost:1883")
	cfg.MQTT.ClientID = getEnv("MQTT_CLIENT_ID", "rainpath-cases")
	cfg.MQTT.Username = getEnv("MQTT_USERNAME", "")
	cfg.MQTT.Password = getEnv("MQTT_PASSWORD", "")
	cfg.MQTT.QoS = byte(parseInt(getEnv("MQTT_QOS", "1"), 1))
	cfg.MQTT.TopicPrefix = getEnv("MQTT_TOPIC_PREFIX", "rainpath/cases")

	cfg.Metrics.Enabled = getEnv("METRICS_ENABLED", "true") == "true"

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

// parseDuration accepts Go durations ("72h") or plain seconds ("3600").
func parseDuration(s string, def time.Duration) time.Duration {
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(s); err == nil {
		return time.Duration(secs) * time.Second
	}
	return def
}
