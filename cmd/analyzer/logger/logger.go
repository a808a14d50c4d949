// Package logger builds the analyzer's slog.Logger from its Config.
//
// Every component of the analyzer (the tick loop, the HTTP handlers, the
// collectors) logs through a single logger created here, so log format and
// level are decided once at startup. Output goes to stdout; the format is
// text by default or JSON when LogFormat is "json", and the level is one of
// debug, info, warn, or error with info as the fallback.
package logger

import (
	"log/slog"
	"os"

	"github.com/team-Plog/plog-sub001/cmd/analyzer/config"
)

// New returns a logger configured from cfg.LogFormat and cfg.LogLevel.
func New(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
