// Package engine ties the integration together: startup gating, menu
// creation, scene event watching, context changes and teardown. One Engine
// instance exists per host session.
package engine

import (
	"context"
	"log/slog"
	"runtime/debug"

	"github.com/junopark00/tk-clarisse/internal/commands"
	"github.com/junopark00/tk-clarisse/internal/config"
	"github.com/junopark00/tk-clarisse/internal/ctxlog"
	"github.com/junopark00/tk-clarisse/internal/host"
	"github.com/junopark00/tk-clarisse/internal/menu"
	"github.com/junopark00/tk-clarisse/internal/pipeline"
	"github.com/junopark00/tk-clarisse/internal/watcher"
)

// defaultMenuName labels the engine menu unless the settings ask for the
// short form.
const defaultMenuName = "Flow Production Tracking"

// EngineName is the engine's instance name in pipeline configurations.
const EngineName = "tk-clarisse"

// Options configures a new Engine.
type Options struct {
	App      host.Application
	Settings *config.Settings
	Env      *config.Env
	Resolver pipeline.Resolver

	// Context is the startup context handed over by the launcher.
	Context *pipeline.Context

	// LogDir is where engine log files live; the open-log-folder command
	// points here.
	LogDir string

	// LogLevel, when set, is flipped between Info and Debug by the
	// toggle-debug-logging command.
	LogLevel *slog.LevelVar

	// Restart is invoked by the reload-and-restart command. Optional.
	Restart func()
}

// Engine is the top-level integration object.
type Engine struct {
	app      host.Application
	settings *config.Settings
	env      *config.Env
	resolver pipeline.Resolver
	registry *commands.Registry

	name     string
	menuName string
	ui       bool
	logDir   string
	logLevel *slog.LevelVar
	restart  func()

	pctx    *pipeline.Context
	menuGen *menu.Generator
	source  *watcher.Source
	watcher *watcher.SceneEventWatcher
}

// New creates an Engine. Call Start to run the startup sequence.
func New(opts Options) *Engine {
	settings := opts.Settings
	if settings == nil {
		settings = config.DefaultSettings()
	}
	envCfg := opts.Env
	if envCfg == nil {
		envCfg = &config.Env{}
	}
	return &Engine{
		app:      opts.App,
		settings: settings,
		env:      envCfg,
		resolver: opts.Resolver,
		registry: commands.NewRegistry(),
		name:     EngineName,
		ui:       opts.App.IsGUI(),
		logDir:   opts.LogDir,
		logLevel: opts.LogLevel,
		restart:  opts.Restart,
		pctx:     opts.Context,
	}
}

// Registry returns the engine's command registry, for apps that register
// commands outside Options.Apps.
func (e *Engine) Registry() *commands.Registry { return e.registry }

// Context returns the currently active context.
func (e *Engine) Context() *pipeline.Context { return e.pctx }

// MenuName returns the label of the engine's top-level menu. Empty until
// InitEngine has run.
func (e *Engine) MenuName() string { return e.menuName }

// HasUI reports whether the host runs interactively.
func (e *Engine) HasUI() bool { return e.ui }

// HostInfo describes the application hosting the engine.
func (e *Engine) HostInfo() (name, version string) {
	version = e.app.VersionName()
	if version == "" {
		version = "unknown"
	}
	return "Clarisse", version
}

// Start runs the engine's linear startup sequence: pre-app init, engine
// init (fatal on unsupported platform or host version), app registration,
// post-app init. The returned error is a fatal startup error.
func (e *Engine) Start(ctx context.Context, apps ...commands.App) error {
	e.PreAppInit(ctx)
	if err := e.InitEngine(ctx); err != nil {
		return err
	}
	for _, a := range apps {
		a.Register(e.registry)
	}
	e.PostAppInit(ctx)
	return nil
}

// PreAppInit runs after the engine object is set up but before any apps
// have been initialized.
func (e *Engine) PreAppInit(ctx context.Context) {
	ctxlog.FromContext(ctx).Debug("Pre-app init complete.", "engine", e.name)
}

// InitEngine gates the platform and host version, prepares the UI bridge
// and installs the scene event watcher when automatic context switching is
// enabled. Version and platform failures are fatal startup errors.
func (e *Engine) InitEngine(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Initializing engine.", "engine", e.name)

	if err := e.checkHostCompatibility(ctx); err != nil {
		return err
	}

	e.initUIBridge(ctx)

	e.menuName = defaultMenuName
	if e.settings.UseSgtkAsMenuName {
		e.menuName = "Sgtk"
	}
	e.menuGen = menu.NewGenerator(e.app, e.menuName, e.registry, e.settings)

	if e.settings.AutomaticContextSwitch {
		e.source = watcher.NewSource(e.app)
		e.installWatcher(ctx)
		logger.Debug("Registered open and save callbacks.")
	}

	logger.Debug("Engine initialized.", "engine", e.name)
	return nil
}

// PostAppInit runs when all apps have initialized: the reload command is
// re-added (registration during init gets lost), the menu is built and the
// configured startup commands are dispatched.
func (e *Engine) PostAppInit(ctx context.Context) {
	e.registerReloadCommand(ctx)
	e.registerOpenLogFolderCommand(ctx)
	e.registerToggleDebugLoggingCommand(ctx)
	e.CreateMenu(ctx)
	e.runStartupCommands(ctx)
}

// CreateMenu builds the engine menu. It only creates menu state in UI mode
// and reports whether it did.
func (e *Engine) CreateMenu(ctx context.Context) bool {
	if !e.ui || e.menuGen == nil {
		return false
	}
	e.menuGen.CreateMenu(ctx, e.pctx)
	return true
}

// ChangeContext replaces the active context wholesale and runs the
// post-change work.
func (e *Engine) ChangeContext(ctx context.Context, newCtx *pipeline.Context) {
	old := e.pctx
	e.pctx = newCtx
	ctxlog.FromContext(ctx).Debug("Context changed.", "from", old.String(), "to", newCtx.String())
	e.PostContextChange(ctx, old, newCtx)
}

// PostContextChange runs after a context change. The context-menu commands
// are re-registered (the host's context-menu rebuild drops them), the scene
// watcher is reinstalled so the next lifecycle event sees an up-to-date
// previous context, and the menu is rebuilt when the context actually
// differs.
func (e *Engine) PostContextChange(ctx context.Context, oldCtx, newCtx *pipeline.Context) {
	e.registerOpenLogFolderCommand(ctx)
	e.registerReloadCommand(ctx)

	if e.settings.AutomaticContextSwitch && e.source != nil {
		if e.watcher != nil {
			e.watcher.StopWatching()
		}
		e.installWatcher(ctx)
		ctxlog.FromContext(ctx).Debug("Registered new open and save callbacks before changing context.")
	}

	if !oldCtx.Equal(newCtx) {
		e.CreateMenu(ctx)
	}
}

// DestroyEngine stops watching scene events and tears the menu down.
func (e *Engine) DestroyEngine(ctx context.Context) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Destroying engine.", "engine", e.name)

	if e.watcher != nil {
		e.watcher.StopWatching()
	}

	if e.ui && e.menuGen != nil {
		func() {
			defer func() {
				if r := recover(); r != nil {
					logger.Error("Failed to destroy the engine menu.", "error", r, "stack", string(debug.Stack()))
				}
			}()
			e.menuGen.DestroyMenu()
		}()
	}
}

// installWatcher binds a fresh watcher whose callback carries the context
// that was active at install time as the "previous" context.
func (e *Engine) installWatcher(ctx context.Context) {
	prev := e.pctx
	e.watcher = watcher.NewSceneEventWatcher(ctx, e.source, func() {
		e.onSceneEvent(ctx, prev)
	}, false)
}

// initUIBridge prepares the bundled UI toolkit. The toolkit ships with the
// desktop application; when the host's own environment already carries one
// nothing needs doing.
func (e *Engine) initUIBridge(ctx context.Context) {
	logger := ctxlog.FromContext(ctx)

	path, err := locateUIBridge(e.env)
	if err != nil {
		logger.Error("UI toolkit could not be located; apps with dialogs will not operate correctly.",
			"error", err)
		return
	}
	if path == "" {
		logger.Debug("UI toolkit already available in the host environment.")
		return
	}
	logger.Debug("Using desktop-bundled UI toolkit.", "path", path)
}
