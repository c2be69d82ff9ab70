// Package observability owns logger construction. Every surface (CLI, HTTP
// server, services) logs through zap loggers built here.
package observability

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// CLILogger is the process-wide logger. It starts as a no-op so library code
// can log unconditionally; InitCLILogger replaces it during startup.
var CLILogger = zap.NewNop()

// InitCLILogger builds the process logger.
//
// level is a zap level name ("debug", "info", "warn", "error").
// format is "json" for structured output or "console" for development.
func InitCLILogger(level, format string) error {
	logger, err := NewLogger(level, format)
	if err != nil {
		return err
	}
	CLILogger = logger
	return nil
}

// NewLogger builds a logger without touching the global.
func NewLogger(level, format string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	var cfg zap.Config
	switch format {
	case "console":
		cfg = zap.NewDevelopmentConfig()
	case "", "json":
		cfg = zap.NewProductionConfig()
	default:
		return nil, fmt.Errorf("invalid log format %q (want json or console)", format)
	}

	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}

// Sync flushes buffered log entries. Call before process exit.
func Sync() {
	_ = CLILogger.Sync()
}
