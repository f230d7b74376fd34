package logger

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options for New. Zero values fall back to info level, JSON output on stdout and the
// machine hostname.
type Options struct {
	Level    string // debug, info, warn, error
	Format   string // json or console
	Service  string
	Hostname string
	// OutputPaths overrides stdout; tests point it at a file.
	OutputPaths []string
}

// ParseLevel unknown or empty levels read as info.
func ParseLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// New builds the process logger. Every entry carries "service" and "hostname".
func New(opts Options) (*zap.Logger, error) {
	var config zap.Config
	if opts.Format == "console" {
		config = zap.NewDevelopmentConfig()
	} else {
		config = zap.NewProductionConfig()
		config.EncoderConfig.TimeKey = "timestamp"
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		config.OutputPaths = []string{"stdout"}
		config.ErrorOutputPaths = []string{"stderr"}
	}
	config.Level = zap.NewAtomicLevelAt(ParseLevel(opts.Level))
	if len(opts.OutputPaths) > 0 {
		config.OutputPaths = opts.OutputPaths
	}

	hostname := opts.Hostname
	if hostname == "" {
		hostname, _ = os.Hostname()
	}
	fields := map[string]any{}
	if opts.Service != "" {
		fields["service"] = opts.Service
	}
	if hostname != "" {
		fields["hostname"] = hostname
	}
	config.InitialFields = fields

	return config.Build()
}
