package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, ParseLevel(" WARN "))
	assert.Equal(t, zapcore.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel(""))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("verbose"))
}

func TestNew_ServiceAndHostnameOnEveryEntry(t *testing.T) {
	out := filepath.Join(t.TempDir(), "log.json")

	log, err := New(Options{
		Level:       "warn",
		Service:     "rainpath-cases",
		Hostname:    "bench-1",
		OutputPaths: []string{out},
	})
	require.NoError(t, err)

	log.Info("dropped below level")
	log.Warn("case store: memory")
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(out)
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(data, &entry), string(data))
	assert.Equal(t, "case store: memory", entry["msg"])
	assert.Equal(t, "rainpath-cases", entry["service"])
	assert.Equal(t, "bench-1", entry["hostname"])
	assert.Contains(t, entry, "timestamp")
}
