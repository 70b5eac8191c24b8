// Package hostlog forwards engine log records to the host's script-editor
// log channels, formatted the way pipeline users expect to see them there.
package hostlog

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/junopark00/tk-clarisse/internal/host"
)

// Handler is a slog.Handler that writes to the host's log channels. Debug
// records are dropped unless the debug toggle is on; the host script editor
// is too noisy a place for them otherwise.
type Handler struct {
	app   host.Application
	level slog.Leveler
	debug bool
	attrs []slog.Attr
}

// NewHandler creates a handler over the host's log channels. level gates
// records as usual; debug additionally enables the debug channel.
func NewHandler(app host.Application, level slog.Leveler, debug bool) *Handler {
	return &Handler{app: app, level: level, debug: debug}
}

// Enabled implements slog.Handler.
func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	if level < slog.LevelInfo && !h.debug {
		return false
	}
	return level >= h.level.Level()
}

// Handle implements slog.Handler, selecting the host channel by level.
func (h *Handler) Handle(_ context.Context, record slog.Record) error {
	msg := h.format(record)
	switch {
	case record.Level >= slog.LevelError:
		h.app.LogError(msg)
	case record.Level >= slog.LevelWarn:
		h.app.LogWarning(msg)
	default:
		h.app.LogInfo(msg)
	}
	return nil
}

// WithAttrs implements slog.Handler.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := *h
	out.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &out
}

// WithGroup implements slog.Handler. Groups are flattened; the script
// editor shows plain lines.
func (h *Handler) WithGroup(string) slog.Handler { return h }

// format renders one record as the host line:
//
//	<time> - Shotgun <Level> | Clarisse engine | <message> key=value ...
func (h *Handler) format(record slog.Record) string {
	label := "Info"
	switch {
	case record.Level >= slog.LevelError:
		label = "Error"
	case record.Level >= slog.LevelWarn:
		label = "Warning"
	case record.Level < slog.LevelInfo:
		label = "Debug"
	}

	ts := record.Time
	if ts.IsZero() {
		ts = time.Now()
	}

	msg := fmt.Sprintf("%s - Shotgun %s | Clarisse engine | %s",
		ts.Format(time.ANSIC), label, record.Message)
	for _, attr := range h.attrs {
		msg += fmt.Sprintf(" %s=%v", attr.Key, attr.Value)
	}
	record.Attrs(func(attr slog.Attr) bool {
		msg += fmt.Sprintf(" %s=%v", attr.Key, attr.Value)
		return true
	})
	return msg
}
