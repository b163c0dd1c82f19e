// Package log provides JSON-lines structured logging for skillforge.
// The hook binary logs to stderr at debug level only, so a failing
// store write never produces noise in the user's shell unless
// SKILLFORGE_DEBUG=1 is set.
package log

import (
	"io"
	"log/slog"
	"os"
)

// Config configures the structured logger.
type Config struct {
	// Output is the writer for log output (default: os.Stderr)
	Output io.Writer

	// Level is the minimum log level (default: LevelInfo)
	Level slog.Level

	// Debug enables debug level logging (overrides Level)
	Debug bool
}

// DefaultConfig returns the default logging configuration.
func DefaultConfig() *Config {
	return &Config{
		Output: os.Stderr,
		Level:  slog.LevelInfo,
	}
}

// New creates a new JSON-lines structured logger.
//
// Log format is one JSON object per line:
//
//	{"ts":"2024-01-15T10:30:00Z","level":"info","msg":"pattern promoted","skill_path":"..."}
func New(cfg *Config) *slog.Logger {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}

	level := cfg.Level
	if cfg.Debug {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Rename "time" to "ts" to keep log lines compact
			if a.Key == slog.TimeKey {
				a.Key = "ts"
			}
			return a
		},
	}

	return slog.New(slog.NewJSONHandler(output, opts))
}

// NewFromEnv creates a logger configured from environment variables.
// SKILLFORGE_DEBUG=1 enables debug logging.
func NewFromEnv() *slog.Logger {
	cfg := DefaultConfig()
	if os.Getenv("SKILLFORGE_DEBUG") == "1" {
		cfg.Debug = true
	}
	return New(cfg)
}

// LogObservationDropped logs when an observation could not be recorded.
// Recording is best-effort: the triggering shell command must never be
// blocked by a store write problem, so this is the only trace left behind.
func LogObservationDropped(logger *slog.Logger, reason string, err error) {
	logger.Debug("observation dropped", "reason", reason, "error", err)
}

// LogStoreWarning logs a degraded (non-fatal) store problem, such as a
// pattern update failing after its skill artifact was already created.
func LogStoreWarning(logger *slog.Logger, operation string, err error) {
	logger.Warn("store operation failed", "operation", operation, "error", err)
}
