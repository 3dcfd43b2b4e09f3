package logging

import (
	"log/slog"
)

// SetupServeMode initializes logging for "rarian serve". The MCP stdio
// transport uses stdout exclusively for JSON-RPC framing; any stray write to
// stdout or stderr while serving corrupts the protocol stream. This routes
// every log line to the rotating file only, at the given level.
func SetupServeMode(level string) (func(), error) {
	cfg := Config{
		Level:         level,
		FilePath:      DefaultLogPath(),
		MaxSizeMB:     10,
		MaxFiles:      5,
		WriteToStderr: false,
	}

	logger, cleanup, err := Setup(cfg)
	if err != nil {
		return nil, err
	}

	slog.SetDefault(logger)
	return cleanup, nil
}
