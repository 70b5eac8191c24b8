package engine

import (
	"context"
	"log/slog"

	"github.com/junopark00/tk-clarisse/internal/commands"
	"github.com/junopark00/tk-clarisse/internal/ctxlog"
	"github.com/junopark00/tk-clarisse/internal/menu"
)

// registerOpenLogFolderCommand adds the open-log-folder entry to the
// engine's context menu.
func (e *Engine) registerOpenLogFolderCommand(ctx context.Context) {
	e.registry.Register(commands.Command{
		Name:        "Open Log Folder",
		Kind:        commands.KindContextMenu,
		Description: "Opens the folder where log files are being stored.",
		Callback: func() {
			e.openLogFolder(ctx)
		},
	})
}

// registerReloadCommand adds the reload-and-restart entry to the engine's
// context menu.
func (e *Engine) registerReloadCommand(ctx context.Context) {
	e.registry.Register(commands.Command{
		Name: "Reload and Restart",
		Kind: commands.KindContextMenu,
		Callback: func() {
			logger := ctxlog.FromContext(ctx)
			if e.restart == nil {
				logger.Warn("No restart hook is wired in; reload request ignored.")
				return
			}
			logger.Info("Restarting the engine.")
			e.restart()
		},
	})
}

// registerToggleDebugLoggingCommand adds the debug logging toggle to the
// engine's context menu.
func (e *Engine) registerToggleDebugLoggingCommand(ctx context.Context) {
	e.registry.Register(commands.Command{
		Name:        "Toggle Debug Logging",
		Kind:        commands.KindContextMenu,
		Description: "Toggles debug logging on and off. This affects all engine logging.",
		Callback: func() {
			e.toggleDebugLogging(ctx)
		},
	})
}

// openLogFolder shows the log folder in the user's file browser.
func (e *Engine) openLogFolder(ctx context.Context) {
	logger := ctxlog.FromContext(ctx)
	logger.Info("Log folder location.", "path", e.logDir)
	if !e.ui || e.logDir == "" {
		return
	}
	if err := menu.OpenLocation(e.logDir); err != nil {
		logger.Error("Failed to open the log folder.", "path", e.logDir, "error", err)
	}
}

// toggleDebugLogging flips the engine's log level between info and debug.
func (e *Engine) toggleDebugLogging(ctx context.Context) {
	logger := ctxlog.FromContext(ctx)
	if e.logLevel == nil {
		logger.Warn("No adjustable log level is wired in; toggle ignored.")
		return
	}
	if e.logLevel.Level() == slog.LevelDebug {
		e.logLevel.Set(slog.LevelInfo)
		logger.Info("Debug logging disabled.")
		return
	}
	e.logLevel.Set(slog.LevelDebug)
	logger.Info("Debug logging enabled.")
}

// runStartupCommands dispatches the app commands listed in the
// run-at-startup setting. An empty command name runs every command of the
// instance. The commands go through the deferred queue so they run once the
// host has finished its own UI setup and gone idle.
func (e *Engine) runStartupCommands(ctx context.Context) {
	logger := ctxlog.FromContext(ctx)

	for _, ref := range e.settings.RunAtStartup {
		instanceCommands := e.registry.ByInstance(ref.AppInstance)
		if len(instanceCommands) == 0 {
			logger.Warn("run_at_startup requests an app that is not installed.",
				"app_instance", ref.AppInstance)
			continue
		}

		if ref.Name == "" {
			for name, cmd := range instanceCommands {
				logger.Debug("Startup running app command.",
					"app_instance", ref.AppInstance, "command", name)
				e.app.ExecuteDeferred(cmd.Callback)
			}
			continue
		}

		cmd, ok := instanceCommands[ref.Name]
		if !ok {
			known := make([]string, 0, len(instanceCommands))
			for name := range instanceCommands {
				known = append(known, name)
			}
			logger.Warn("run_at_startup requests an unknown command.",
				"app_instance", ref.AppInstance, "command", ref.Name, "known", known)
			continue
		}
		logger.Debug("Startup running app command.",
			"app_instance", ref.AppInstance, "command", ref.Name)
		e.app.ExecuteDeferred(cmd.Callback)
	}
}
