package app

import (
	"io"
	"log/slog"
)

// newLogger creates a configured slog.Logger together with the level var it
// is gated on, so the engine's debug toggle can flip it at runtime. It does
// not set the global logger.
func newLogger(levelStr, formatStr string, outW io.Writer) (*slog.Logger, *slog.LevelVar) {
	level := new(slog.LevelVar)
	switch levelStr {
	case "debug":
		level.Set(slog.LevelDebug)
	case "info":
		level.Set(slog.LevelInfo)
	case "warn":
		level.Set(slog.LevelWarn)
	case "error":
		level.Set(slog.LevelError)
	default:
		level.Set(slog.LevelInfo)
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler

	if formatStr == "json" {
		handler = slog.NewJSONHandler(outW, handlerOpts)
	} else {
		handler = slog.NewTextHandler(outW, handlerOpts)
	}

	return slog.New(handler), level
}
