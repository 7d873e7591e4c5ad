// Package logger provides structured logging functionality for the application.
package logger

import (
	"log/slog"
	"os"
	"strings"

	"github.com/tasknest/tasknest-api/internal/config"
)

// Setup initializes the application's logging system from the server
// configuration: a structured JSON logger at the configured level, installed
// as the process default so package-level slog calls go through it.
func Setup(cfg config.ServerConfig) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
		slog.New(slog.NewTextHandler(os.Stderr, nil)).
			Warn("invalid log level configured, using default level",
				"configured_level", cfg.LogLevel,
				"default_level", "info")
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	log := slog.New(handler)
	slog.SetDefault(log)

	return log
}
