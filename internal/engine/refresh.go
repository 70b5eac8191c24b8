package engine

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime/debug"

	"github.com/junopark00/tk-clarisse/internal/ctxlog"
	"github.com/junopark00/tk-clarisse/internal/pipeline"
)

// onSceneEvent is the watcher fan-in and the outermost failure boundary:
// whatever goes wrong while handling the event is shown to the user instead
// of crashing the host.
func (e *Engine) onSceneEvent(ctx context.Context, prev *pipeline.Context) {
	defer func() {
		if r := recover(); r != nil {
			msg := fmt.Sprintf(
				"Shotgun encountered a problem changing the engine's context.\n"+
					"Please contact your technical support team for more information.\n\n"+
					"Error: %v\n%s", r, debug.Stack())
			ctxlog.FromContext(ctx).Error("Scene event handling failed.", "error", r)
			e.app.MessageBox("Shotgun Error", msg)
		}
	}()
	e.refresh(ctx, prev)
}

// refresh re-derives the context from the currently open file. Resolution
// failures degrade to the disabled menu; they never crash the host.
func (e *Engine) refresh(ctx context.Context, prev *pipeline.Context) {
	if e == nil || e.resolver == nil {
		// Nothing to refresh without a live engine and resolver.
		return
	}
	logger := ctxlog.FromContext(ctx)

	scene := e.app.CurrentProjectFilename()
	if scene == "" {
		// File->New: the blank file belongs to whatever was active
		// before, so restore the previous context if the engine has
		// drifted away from it.
		if !prev.Equal(e.pctx) {
			e.ChangeContext(ctx, prev)
		}
		return
	}

	newPath, err := filepath.Abs(scene)
	if err != nil {
		newPath = scene
	}

	// The file could belong to another project altogether, so resolve it
	// from scratch; fall back to the current project when the path is not
	// recognized.
	resolved, resolveErr := e.resolver.FromPath(newPath, prev)
	if resolveErr != nil {
		var project *pipeline.Entity
		if e.pctx != nil {
			project = e.pctx.Project
		}
		var fallbackErr error
		resolved, fallbackErr = e.resolver.FromEntity(project)
		if fallbackErr != nil {
			e.disableIntegration(ctx, newPath, resolveErr, fallbackErr)
			return
		}
		logger.Debug("Path resolution failed, fell back to the current project.",
			"path", newPath, "error", resolveErr)
	}

	// Back in business: drop any degraded state and make sure the menu
	// exists (it may have been replaced by the disabled notice).
	if e.ui && e.menuGen != nil {
		e.menuGen.RemoveDisabled(ctx)
	}
	e.CreateMenu(ctx)

	if !resolved.Equal(e.pctx) {
		e.ChangeContext(ctx, resolved)
	}
}

// disableIntegration installs the degraded one-entry menu and reports why
// the refresh was aborted. The engine stays alive.
func (e *Engine) disableIntegration(ctx context.Context, path string, pathErr, entityErr error) {
	logger := ctxlog.FromContext(ctx)

	if e.ui && e.menuGen != nil {
		e.menuGen.BuildDisabled(ctx)
	}

	msg := fmt.Sprintf(
		"Shotgun integration cannot be started for %q.\n"+
			"Please contact your technical support team for more information.\n\n"+
			"Error: %v\nFallback error: %v", path, pathErr, entityErr)
	logger.Error("Engine cannot start for the opened file.",
		"path", path,
		"error", pathErr,
		"fallback_error", entityErr,
		"path_outside_project", errors.Is(pathErr, pipeline.ErrPathOutsideAnyProject),
		"project_unknown", errors.Is(entityErr, pipeline.ErrProjectEntityUnknown))
	e.app.LogError(msg)
}
