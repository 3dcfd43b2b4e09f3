// Package logging sets up rarian's file-backed structured logger: a
// size-rotated JSON log under ~/.rarian/logs/, optionally mirrored to
// stderr, readable back out by Viewer (viewer.go) or the "rarian logs"
// command.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Config controls where and how rarian writes its log file.
type Config struct {
	// Level is the minimum level written (debug, info, warn, error).
	Level string
	// FilePath is the log file's path. Required; there is no no-op mode.
	FilePath string
	// MaxSizeMB is the size a file reaches before rotation.
	MaxSizeMB int
	// MaxFiles caps how many rotated files are kept alongside the active one.
	MaxFiles int
	// WriteToStderr additionally mirrors every line to stderr. Must be
	// false for "rarian serve", which owns stderr/stdout for MCP framing.
	WriteToStderr bool
}

// DefaultConfig is what non-serving commands use: info level, mirrored
// to stderr, at the default path.
func DefaultConfig() Config {
	return Config{
		Level:         "info",
		FilePath:      DefaultLogPath(),
		MaxSizeMB:     10,
		MaxFiles:      5,
		WriteToStderr: true,
	}
}

// DebugConfig is DefaultConfig with the level raised to debug, for --debug.
func DebugConfig() Config {
	cfg := DefaultConfig()
	cfg.Level = "debug"
	return cfg
}

// Setup opens cfg.FilePath (rotating as configured) and builds a JSON
// slog.Logger writing to it, plus stderr when requested. The returned
// cleanup func syncs and closes the file; callers must defer it.
func Setup(cfg Config) (*slog.Logger, func(), error) {
	if err := EnsureLogDir(); err != nil {
		return nil, nil, err
	}

	writer, err := NewRotatingWriter(cfg.FilePath, cfg.MaxSizeMB, cfg.MaxFiles)
	if err != nil {
		return nil, nil, err
	}

	var dest io.Writer = writer
	if cfg.WriteToStderr {
		dest = io.MultiWriter(writer, os.Stderr)
	}

	handler := slog.NewJSONHandler(dest, &slog.HandlerOptions{Level: LevelFromString(cfg.Level)})
	logger := slog.New(handler)

	cleanup := func() {
		_ = writer.Sync()
		_ = writer.Close()
	}
	return logger, cleanup, nil
}

// SetupDefault wires Setup(DebugConfig()) as the process-wide default logger.
func SetupDefault() (func(), error) {
	logger, cleanup, err := Setup(DebugConfig())
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)
	return cleanup, nil
}

// LevelFromString maps a config/flag level name to slog.Level, defaulting
// to info for anything unrecognized. Shared by Setup and Viewer's level
// filter so both sides of a log file agree on level ordering.
func LevelFromString(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
