// Package log provides JSON-lines structured logging for journeys.
package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
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

// New creates a new JSON-lines structured logger:
//
//	{"ts":"2026-01-15T10:30:00Z","level":"INFO","msg":"journeys started","version":"1.2.0"}
//
// Log levels:
//   - debug: stale completions, cache hits (enabled via JOURNEYS_DEBUG=1)
//   - info: startup, committed searches
//   - warn: storage and cache failures that were recovered from
//   - error: failures surfaced to the user
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
			if a.Key == slog.TimeKey && len(groups) == 0 {
				a.Key = "ts"
			}
			return a
		},
	}

	return slog.New(slog.NewJSONHandler(output, opts))
}

// ParseLevel maps a config level name onto a slog level. Unknown names map to info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// OpenFile opens (creating parents) an append-only log file.
func OpenFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}

// NewFile returns a logger writing to path, and a close func. When the file
// cannot be opened the logger discards output.
func NewFile(path string, level slog.Level) (*slog.Logger, func() error) {
	f, err := OpenFile(path)
	if err != nil {
		return New(&Config{Output: io.Discard, Level: level}), func() error { return nil }
	}
	return New(&Config{Output: f, Level: level}), f.Close
}

// StartupInfo holds information to log when the UI starts.
type StartupInfo struct {
	Version       string
	ConfigPath    string
	DatabasePath  string
	SchemaVersion int
	APIBaseURL    string
	PID           int
}

// LogStartup logs startup information.
func LogStartup(logger *slog.Logger, info StartupInfo) {
	logger.Info("journeys started",
		"version", info.Version,
		"config_path", info.ConfigPath,
		"database_path", info.DatabasePath,
		"schema_version", info.SchemaVersion,
		"api_base_url", info.APIBaseURL,
		"pid", info.PID,
	)
}

// LogStorageError logs a recovered persistence failure.
func LogStorageError(logger *slog.Logger, operation string, err error) {
	logger.Warn("storage error", "operation", operation, "error", err)
}

// LogStaleResult logs a completion that arrived after being superseded.
func LogStaleResult(logger *slog.Logger, seq, current uint64) {
	logger.Debug("stale result", "seq", seq, "current_seq", current)
}
