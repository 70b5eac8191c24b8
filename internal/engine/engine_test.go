package engine

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junopark00/tk-clarisse/internal/commands"
	"github.com/junopark00/tk-clarisse/internal/config"
	"github.com/junopark00/tk-clarisse/internal/host"
	"github.com/junopark00/tk-clarisse/internal/host/hosttest"
	"github.com/junopark00/tk-clarisse/internal/pipeline"
)

func demoProject() pipeline.ProjectRoot {
	return pipeline.ProjectRoot{
		Name: "Demo",
		ID:   7,
		Root: filepath.FromSlash("/projects/demo"),
		URL:  "https://studio.example.com/demo",
	}
}

func otherProject() pipeline.ProjectRoot {
	return pipeline.ProjectRoot{Name: "Other", ID: 8, Root: filepath.FromSlash("/projects/other")}
}

func demoContext() *pipeline.Context {
	return &pipeline.Context{
		Project:             &pipeline.Entity{Type: "Project", ID: 7, Name: "Demo"},
		FilesystemLocations: []string{filepath.FromSlash("/projects/demo")},
		SiteURL:             "https://studio.example.com/demo",
	}
}

func newTestEngine(app *hosttest.App, mutate func(*Options)) *Engine {
	settings := config.DefaultSettings()
	settings.Projects = []pipeline.ProjectRoot{demoProject(), otherProject()}
	opts := Options{
		App:      app,
		Settings: settings,
		Env:      &config.Env{},
		Resolver: pipeline.NewStaticResolver(settings.Projects),
		Context:  demoContext(),
	}
	if mutate != nil {
		mutate(&opts)
	}
	return New(opts)
}

func TestEngine_StartBuildsMenu(t *testing.T) {
	app := hosttest.New()
	e := newTestEngine(app, nil)

	require.NoError(t, e.Start(context.Background()))

	require.Equal(t, "Flow Production Tracking", e.MenuName())
	labels := app.Labels(e.MenuName())
	require.NotEmpty(t, labels)
	assert.Equal(t, "Project Demo", labels[0])

	// The engine's own maintenance commands live in the context submenu,
	// after the jumps and the divider.
	contextLabels := app.Labels(e.MenuName(), "Project Demo")
	assert.Equal(t, []string{
		"Jump to Flow Production Tracking",
		"Jump to File System",
		"---",
		"Open Log Folder",
		"Reload and Restart",
		"Toggle Debug Logging",
	}, contextLabels)
}

func TestEngine_SgtkMenuName(t *testing.T) {
	app := hosttest.New()
	e := newTestEngine(app, func(o *Options) {
		o.Settings.UseSgtkAsMenuName = true
	})

	require.NoError(t, e.Start(context.Background()))
	assert.Equal(t, "Sgtk", e.MenuName())
	assert.NotEmpty(t, app.Labels("Sgtk"))
}

func TestEngine_BatchModeSkipsMenu(t *testing.T) {
	app := hosttest.New()
	app.GUI = false
	e := newTestEngine(app, nil)

	require.NoError(t, e.Start(context.Background()))
	assert.False(t, e.HasUI())
	assert.False(t, e.CreateMenu(context.Background()))
	assert.Empty(t, app.TopLevelMenus())
}

func TestEngine_VersionFloor(t *testing.T) {
	testCases := []struct {
		version string
		wantErr bool
	}{
		{"3.5.2", true},
		{"2.0", true},
		{"not-a-version", true},
		{"", true},
		{"3.6", false},
		{"4.0", false},
		{"5.0.11", false},
	}

	for _, tc := range testCases {
		t.Run(tc.version, func(t *testing.T) {
			app := hosttest.New()
			app.BuildVersion = tc.version
			e := newTestEngine(app, nil)

			err := e.Start(context.Background())
			if tc.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestEngine_UntestedVersionDialog(t *testing.T) {
	// Keep the once-per-session marker out of the real environment.
	t.Setenv("SGTK_COMPATIBILITY_DIALOG_SHOWN", "")

	t.Run("shown once in gui mode", func(t *testing.T) {
		app := hosttest.New()
		app.BuildVersion = "5.5"
		env := &config.Env{}
		e := newTestEngine(app, func(o *Options) { o.Env = env })

		require.NoError(t, e.Start(context.Background()))
		require.Len(t, app.Dialogs, 1)
		assert.Contains(t, app.Dialogs[0], "Shotgun Warning")
		assert.Contains(t, app.Dialogs[0], "5.5")
		assert.True(t, env.CompatibilityDialogShown)
	})

	t.Run("suppressed when already shown this session", func(t *testing.T) {
		app := hosttest.New()
		app.BuildVersion = "5.5"
		e := newTestEngine(app, func(o *Options) {
			o.Env = &config.Env{CompatibilityDialogShown: true}
		})

		require.NoError(t, e.Start(context.Background()))
		assert.Empty(t, app.Dialogs)
	})

	t.Run("suppressed below configured minimum", func(t *testing.T) {
		app := hosttest.New()
		app.BuildVersion = "5.5"
		e := newTestEngine(app, func(o *Options) {
			o.Settings.CompatibilityDialogMinVersion = 6
		})

		require.NoError(t, e.Start(context.Background()))
		assert.Empty(t, app.Dialogs)
	})

	t.Run("no dialog in batch mode", func(t *testing.T) {
		app := hosttest.New()
		app.GUI = false
		app.BuildVersion = "5.5"
		e := newTestEngine(app, nil)

		require.NoError(t, e.Start(context.Background()))
		assert.Empty(t, app.Dialogs)
	})
}

func TestEngine_SceneEventSwitchesContext(t *testing.T) {
	app := hosttest.New()
	e := newTestEngine(app, nil)
	require.NoError(t, e.Start(context.Background()))

	// The user loads a file belonging to the other project.
	app.ProjectFile = filepath.FromSlash("/projects/other/shots/sh020/scene.project")
	app.FireEvent(host.EventLoadProject)

	require.NotNil(t, e.Context().Project)
	assert.Equal(t, 8, e.Context().Project.ID)

	// The menu now carries the new context label.
	assert.Equal(t, "Project Other", app.Labels(e.MenuName())[0])
}

func TestEngine_SceneEventFallsBackToCurrentProject(t *testing.T) {
	app := hosttest.New()
	e := newTestEngine(app, nil)
	require.NoError(t, e.Start(context.Background()))

	// A file outside every root still resolves through the current
	// project entity.
	app.ProjectFile = filepath.FromSlash("/tmp/scratch.project")
	app.FireEvent(host.EventLoadProject)

	require.NotNil(t, e.Context().Project)
	assert.Equal(t, 7, e.Context().Project.ID)
	assert.Empty(t, app.ErrorLog)
	assert.Equal(t, "Project Demo", app.Labels(e.MenuName())[0])
}

func TestEngine_SceneEventDoubleFailureDisables(t *testing.T) {
	app := hosttest.New()
	e := newTestEngine(app, func(o *Options) {
		// No project in the active context, so the fallback has nothing
		// to resolve either.
		o.Context = &pipeline.Context{}
	})
	require.NoError(t, e.Start(context.Background()))

	app.ProjectFile = filepath.FromSlash("/tmp/scratch.project")
	app.FireEvent(host.EventLoadProject)

	assert.Equal(t, []string{"Sgtk is disabled."}, app.Labels(e.MenuName()))
	require.NotEmpty(t, app.ErrorLog)
	assert.Contains(t, app.ErrorLog[0], "scratch.project")
}

func TestEngine_EmptySceneRestoresPreviousContext(t *testing.T) {
	app := hosttest.New()
	e := newTestEngine(app, nil)
	require.NoError(t, e.Start(context.Background()))

	// The engine drifted away from what the watcher saw at install time;
	// a blank file brings it back.
	prev := demoContext()
	e.pctx = &pipeline.Context{Project: &pipeline.Entity{Type: "Project", ID: 8, Name: "Other"}}
	app.ProjectFile = ""
	e.refresh(context.Background(), prev)

	assert.True(t, prev.Equal(e.Context()))
}

func TestEngine_EmptySceneKeepsMatchingContext(t *testing.T) {
	app := hosttest.New()
	e := newTestEngine(app, nil)
	require.NoError(t, e.Start(context.Background()))

	before := e.Context()
	app.ProjectFile = ""
	app.FireEvent(host.EventNewProject)

	assert.Same(t, before, e.Context())
}

func TestEngine_AutomaticContextSwitchDisabled(t *testing.T) {
	app := hosttest.New()
	e := newTestEngine(app, func(o *Options) {
		o.Settings.AutomaticContextSwitch = false
	})
	require.NoError(t, e.Start(context.Background()))
	require.Nil(t, e.watcher)

	app.ProjectFile = filepath.FromSlash("/projects/other/scene.project")
	app.FireEvent(host.EventLoadProject)

	assert.Equal(t, 7, e.Context().Project.ID)
}

func TestEngine_RunAtStartup(t *testing.T) {
	app := hosttest.New()
	e := newTestEngine(app, func(o *Options) {
		o.Settings.RunAtStartup = []config.CommandRef{
			{AppInstance: "tk-multi-workfiles2", Name: "File Open..."},
			{AppInstance: "tk-not-installed", Name: "Whatever"},
		}
	})

	opened := 0
	workfiles := registerFunc(func(r *commands.Registry) {
		r.Register(commands.Command{
			Name:     "File Open...",
			Callback: func() { opened++ },
			App:      &commands.OwningApp{InstanceName: "tk-multi-workfiles2", DisplayName: "File Management"},
		})
	})

	require.NoError(t, e.Start(context.Background(), workfiles))

	// Startup commands are parked on the deferred queue.
	assert.Equal(t, 0, opened)
	app.DrainDeferred()
	assert.Equal(t, 1, opened)
}

func TestEngine_RunAtStartup_WholeInstance(t *testing.T) {
	app := hosttest.New()
	e := newTestEngine(app, func(o *Options) {
		o.Settings.RunAtStartup = []config.CommandRef{
			{AppInstance: "tk-multi-workfiles2", Name: ""},
		}
	})

	ran := 0
	workfiles := registerFunc(func(r *commands.Registry) {
		owner := &commands.OwningApp{InstanceName: "tk-multi-workfiles2", DisplayName: "File Management"}
		r.Register(commands.Command{Name: "File Open...", Callback: func() { ran++ }, App: owner})
		r.Register(commands.Command{Name: "File Save...", Callback: func() { ran++ }, App: owner})
	})

	require.NoError(t, e.Start(context.Background(), workfiles))
	app.DrainDeferred()
	assert.Equal(t, 2, ran)
}

func TestEngine_ToggleDebugLogging(t *testing.T) {
	app := hosttest.New()
	level := new(slog.LevelVar)
	level.Set(slog.LevelInfo)
	e := newTestEngine(app, func(o *Options) { o.LogLevel = level })
	require.NoError(t, e.Start(context.Background()))

	cmd, ok := e.Registry().Get("Toggle Debug Logging")
	require.True(t, ok)
	require.Equal(t, commands.KindContextMenu, cmd.Kind)

	cmd.Callback()
	assert.Equal(t, slog.LevelDebug, level.Level())
	cmd.Callback()
	assert.Equal(t, slog.LevelInfo, level.Level())
}

func TestEngine_ReloadCommand(t *testing.T) {
	app := hosttest.New()
	restarts := 0
	e := newTestEngine(app, func(o *Options) {
		o.Restart = func() { restarts++ }
	})
	require.NoError(t, e.Start(context.Background()))

	cmd, ok := e.Registry().Get("Reload and Restart")
	require.True(t, ok)
	cmd.Callback()
	assert.Equal(t, 1, restarts)
}

func TestEngine_DestroyEngine(t *testing.T) {
	app := hosttest.New()
	e := newTestEngine(app, nil)
	require.NoError(t, e.Start(context.Background()))
	require.NotNil(t, e.watcher)
	require.True(t, e.watcher.Watching())

	e.DestroyEngine(context.Background())

	assert.False(t, e.watcher.Watching())
	assert.Empty(t, app.Labels(e.MenuName()))
}

func TestEngine_HostInfo(t *testing.T) {
	app := hosttest.New()
	e := newTestEngine(app, nil)

	name, version := e.HostInfo()
	assert.Equal(t, "Clarisse", name)
	assert.Equal(t, "Clarisse 5.0 SP11", version)
}

// registerFunc adapts a function to the commands.App interface.
type registerFunc func(r *commands.Registry)

func (f registerFunc) Register(r *commands.Registry) { f(r) }
