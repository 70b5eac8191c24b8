package menu

import (
	"context"
	"runtime/debug"

	"github.com/junopark00/tk-clarisse/internal/ctxlog"
)

// trampoline binds a command callback to its menu entry. The callback never
// runs synchronously inside the host's menu dispatch: a command may rebuild
// the very menu that invoked it (a context switch does exactly that), so the
// real work is parked on the host's deferred queue.
func (g *Generator) trampoline(ctx context.Context, name string, fn func()) func() {
	return func() {
		g.app.ExecuteDeferred(func() {
			g.invoke(ctx, name, fn)
		})
	}
}

// invoke runs the callback with host event processing suspended and UI
// interaction disabled. Failures are logged with the full stack and never
// re-raised; the cleanup step re-enables the UI no matter what happened.
func (g *Generator) invoke(ctx context.Context, name string, fn func()) {
	logger := ctxlog.FromContext(ctx)

	g.app.CheckForEvents()
	g.app.Disable()
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Engine command raised an error.",
				"command", name, "error", r, "stack", string(debug.Stack()))
		}
		g.app.Enable()
		g.app.CheckForEvents()
	}()

	fn()
}
