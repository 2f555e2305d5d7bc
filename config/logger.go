package config

import (
	"log/slog"
	"os"
	"strings"
)

// NewLogger builds the process logger from GO_ENV and LOG_LEVEL.
// Production emits JSON lines, everything else human-readable text.
func NewLogger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: logLevel(os.Getenv("LOG_LEVEL"))}

	var handler slog.Handler
	if os.Getenv("GO_ENV") == "production" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	return slog.New(handler)
}

// logLevel maps LOG_LEVEL to a slog.Level, defaulting to info on
// empty or unrecognized values.
func logLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo
	}
	return level
}
