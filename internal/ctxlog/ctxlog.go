// Package ctxlog carries a slog.Logger through context.Context so that
// host-driven callbacks can log without reaching for ambient globals.
package ctxlog

import (
	"context"
	"log/slog"
)

// key is an unexported type to prevent collisions with context keys from
// other packages.
type key struct{}

var loggerKey = key{}

// WithLogger returns a new context with the provided logger embedded.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext extracts the slog.Logger from a context. When no logger was
// attached it falls back to slog.Default; menu and lifecycle callbacks run on
// host-controlled paths where a context is not always ours to prepare, so a
// missing logger is not a programmer error here.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}
