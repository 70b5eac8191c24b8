package watcher

import (
	"context"
	"log/slog"

	"github.com/junopark00/tk-clarisse/internal/ctxlog"
	"github.com/junopark00/tk-clarisse/internal/host"
)

// SceneEventWatcher routes every tracked scene lifecycle event into a single
// callback. Construction starts watching immediately. The quit event always
// tears the watcher down before the host's own quit logic runs, so no
// wrapped hook survives process exit.
type SceneEventWatcher struct {
	source  *Source
	cb      func()
	runOnce bool
	logger  *slog.Logger

	handles []Handle
}

// NewSceneEventWatcher creates a watcher delivering every scene event to cb
// and starts it. With runOnce set, the watcher stops itself before the first
// delivery, so the callback cannot recurse into a second firing.
func NewSceneEventWatcher(ctx context.Context, source *Source, cb func(), runOnce bool) *SceneEventWatcher {
	w := &SceneEventWatcher{
		source:  source,
		cb:      cb,
		runOnce: runOnce,
		logger:  ctxlog.FromContext(ctx),
	}
	w.StartWatching()
	return w
}

// StartWatching wraps the tracked lifecycle hooks. If the watcher is already
// watching it is torn down first, so re-installs never stack wrappers. An
// event the host does not expose is logged and skipped; watching continues
// for the rest.
func (w *SceneEventWatcher) StartWatching() {
	w.StopWatching()

	for _, event := range host.SceneEvents {
		h, err := w.source.Subscribe(event, w.onSceneEvent)
		if err != nil {
			w.logger.Warn("Could not watch scene event.", "event", event, "error", err)
			continue
		}
		w.logger.Debug("Registered callback on scene event.", "event", event)
		w.handles = append(w.handles, h)
	}

	// Clean up before the host exits, not after.
	h, err := w.source.SubscribePre(host.EventQuit, w.StopWatching)
	if err != nil {
		w.logger.Warn("Could not watch quit event.", "error", err)
		return
	}
	w.handles = append(w.handles, h)
}

// StopWatching restores every wrapped hook to its saved original and clears
// the registration table. Safe to call when already stopped.
func (w *SceneEventWatcher) StopWatching() {
	for _, h := range w.handles {
		if err := w.source.Unsubscribe(h); err != nil {
			w.logger.Warn("Could not restore scene event hook.", "event", h.event, "error", err)
		}
	}
	w.handles = nil
}

// Watching reports whether any lifecycle hook is currently wrapped.
func (w *SceneEventWatcher) Watching() bool {
	return len(w.handles) > 0
}

func (w *SceneEventWatcher) onSceneEvent() {
	if w.runOnce {
		w.StopWatching()
	}
	w.cb()
}
