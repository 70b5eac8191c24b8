package menu

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junopark00/tk-clarisse/internal/commands"
	"github.com/junopark00/tk-clarisse/internal/config"
	"github.com/junopark00/tk-clarisse/internal/host/hosttest"
	"github.com/junopark00/tk-clarisse/internal/pipeline"
)

const testMenuName = "Flow Production Tracking"

func testContext() *pipeline.Context {
	return &pipeline.Context{
		Project:             &pipeline.Entity{Type: "Project", ID: 7, Name: "Demo"},
		FilesystemLocations: []string{"/projects/demo"},
		SiteURL:             "https://studio.example.com/demo",
	}
}

func newTestGenerator(app *hosttest.App, settings *config.Settings) (*Generator, *commands.Registry) {
	if settings == nil {
		settings = config.DefaultSettings()
	}
	registry := commands.NewRegistry()
	return NewGenerator(app, testMenuName, registry, settings), registry
}

func TestCreateMenu_Structure(t *testing.T) {
	t.Parallel()

	app := hosttest.New()
	g, registry := newTestGenerator(app, nil)
	registry.Register(commands.Command{Name: "Publish...", Callback: func() {}})

	g.CreateMenu(context.Background(), testContext())

	labels := app.Labels(testMenuName)
	require.Equal(t, []string{"Project Demo", "---", "---", "Publish..."}, labels)

	// The context submenu offers both jumps when the context has locations.
	contextLabels := app.Labels(testMenuName, "Project Demo")
	assert.Equal(t, []string{"Jump to Flow Production Tracking", "Jump to File System", "---"}, contextLabels)
}

func TestCreateMenu_NoFileSystemJumpWithoutLocations(t *testing.T) {
	t.Parallel()

	app := hosttest.New()
	g, _ := newTestGenerator(app, nil)
	pctx := testContext()
	pctx.FilesystemLocations = nil

	g.CreateMenu(context.Background(), pctx)

	contextLabels := app.Labels(testMenuName, "Project Demo")
	assert.Equal(t, []string{"Jump to Flow Production Tracking", "---"}, contextLabels)
}

func TestCreateMenu_Idempotent(t *testing.T) {
	t.Parallel()

	app := hosttest.New()
	g, registry := newTestGenerator(app, nil)
	workfiles := &commands.OwningApp{InstanceName: "tk-multi-workfiles2", DisplayName: "File Management"}
	registry.Register(commands.Command{Name: "File Open...", Callback: func() {}, App: workfiles})
	registry.Register(commands.Command{Name: "File Save...", Callback: func() {}, App: workfiles})

	g.CreateMenu(context.Background(), testContext())
	first := app.Snapshot(testMenuName)

	g.CreateMenu(context.Background(), testContext())
	second := app.Snapshot(testMenuName)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("menu changed across identical rebuilds (-first +second):\n%s", diff)
	}
}

func TestCreateMenu_AppGrouping(t *testing.T) {
	t.Parallel()

	app := hosttest.New()
	g, registry := newTestGenerator(app, nil)
	workfiles := &commands.OwningApp{InstanceName: "tk-multi-workfiles2", DisplayName: "File Management"}
	publish := &commands.OwningApp{InstanceName: "tk-multi-publish2", DisplayName: "Publish"}
	registry.Register(commands.Command{Name: "File Save...", Callback: func() {}, App: workfiles})
	registry.Register(commands.Command{Name: "File Open...", Callback: func() {}, App: workfiles})
	registry.Register(commands.Command{Name: "Publish...", Callback: func() {}, App: publish})
	registry.Register(commands.Command{Name: "Loose End", Callback: func() {}})

	g.CreateMenu(context.Background(), testContext())

	// Two commands share an app, so they nest under a submenu; the single
	// publish command and the un-parented command land on the root.
	labels := app.Labels(testMenuName)
	assert.Equal(t, []string{"Project Demo", "---", "---", "File Management", "Loose End", "Publish..."}, labels)

	grouped := app.Labels(testMenuName, "File Management")
	assert.Equal(t, []string{"File Open...", "File Save..."}, grouped)
}

func TestCreateMenu_Favourites(t *testing.T) {
	t.Parallel()

	app := hosttest.New()
	settings := config.DefaultSettings()
	settings.MenuFavourites = []config.CommandRef{
		{AppInstance: "tk-multi-workfiles2", Name: "File Open..."},
	}
	g, registry := newTestGenerator(app, settings)
	workfiles := &commands.OwningApp{InstanceName: "tk-multi-workfiles2", DisplayName: "File Management"}
	registry.Register(commands.Command{Name: "File Open...", Callback: func() {}, App: workfiles})
	registry.Register(commands.Command{Name: "File Save...", Callback: func() {}, App: workfiles})

	g.CreateMenu(context.Background(), testContext())

	// The favourite appears between the context divider and the app
	// grouping divider, and again inside its app submenu.
	labels := app.Labels(testMenuName)
	assert.Equal(t, []string{"Project Demo", "---", "File Open...", "---", "File Management"}, labels)
	assert.Equal(t, []string{"File Open...", "File Save..."}, app.Labels(testMenuName, "File Management"))
}

func TestCreateMenu_SingleFavouriteNotDuplicatedOnRoot(t *testing.T) {
	t.Parallel()

	app := hosttest.New()
	settings := config.DefaultSettings()
	settings.MenuFavourites = []config.CommandRef{
		{AppInstance: "tk-multi-publish2", Name: "Publish..."},
	}
	g, registry := newTestGenerator(app, settings)
	publish := &commands.OwningApp{InstanceName: "tk-multi-publish2", DisplayName: "Publish"}
	registry.Register(commands.Command{Name: "Publish...", Callback: func() {}, App: publish})

	g.CreateMenu(context.Background(), testContext())

	// Already on the root as a favourite; the single-command rule must not
	// add it a second time.
	labels := app.Labels(testMenuName)
	assert.Equal(t, []string{"Project Demo", "---", "Publish...", "---"}, labels)
}

func TestCreateMenu_ContextMenuCommands(t *testing.T) {
	t.Parallel()

	app := hosttest.New()
	g, registry := newTestGenerator(app, nil)
	registry.Register(commands.Command{Name: "Work Area Info...", Callback: func() {}, Kind: commands.KindContextMenu})

	g.CreateMenu(context.Background(), testContext())

	contextLabels := app.Labels(testMenuName, "Project Demo")
	assert.Equal(t, []string{"Jump to Flow Production Tracking", "Jump to File System", "---", "Work Area Info..."}, contextLabels)
}

func TestCreateMenu_SlashPathsExpandAndReuseSubmenus(t *testing.T) {
	t.Parallel()

	app := hosttest.New()
	g, registry := newTestGenerator(app, nil)
	reviews := &commands.OwningApp{InstanceName: "tk-multi-reviews", DisplayName: "Reviews"}
	registry.Register(commands.Command{Name: "Reviews/Pending/Mine", Callback: func() {}, App: reviews})
	registry.Register(commands.Command{Name: "Reviews/Pending/All", Callback: func() {}, App: reviews})
	registry.Register(commands.Command{Name: "Reviews/Archive", Callback: func() {}, App: reviews})

	g.CreateMenu(context.Background(), testContext())

	// All three share the owning app, so they nest under the app submenu,
	// then expand their slash paths below it reusing common segments.
	assert.Equal(t, []string{"Reviews"}, app.Labels(testMenuName, "Reviews"))
	assert.Equal(t, []string{"Archive", "Pending"}, app.Labels(testMenuName, "Reviews", "Reviews"))
	assert.Equal(t, []string{"All", "Mine"}, app.Labels(testMenuName, "Reviews", "Reviews", "Pending"))
}

func TestMenuCommand_RunsDeferred(t *testing.T) {
	t.Parallel()

	app := hosttest.New()
	g, registry := newTestGenerator(app, nil)
	ran := false
	registry.Register(commands.Command{Name: "Publish...", Callback: func() { ran = true }})

	g.CreateMenu(context.Background(), testContext())
	require.NoError(t, app.Click(testMenuName, "Publish..."))

	// The click only queues the work.
	assert.False(t, ran)
	require.Equal(t, 1, app.PendingDeferred())

	app.DrainDeferred()
	assert.True(t, ran)
	assert.Equal(t, 0, app.DisableDepth)
	assert.Equal(t, 2, app.EventPumps)
}

func TestMenuCommand_PanicLeavesUIEnabled(t *testing.T) {
	t.Parallel()

	app := hosttest.New()
	g, registry := newTestGenerator(app, nil)
	registry.Register(commands.Command{Name: "Broken", Callback: func() { panic("boom") }})

	g.CreateMenu(context.Background(), testContext())
	require.NoError(t, app.Click(testMenuName, "Broken"))

	require.NotPanics(t, app.DrainDeferred)
	assert.Equal(t, 0, app.DisableDepth)
	assert.Equal(t, 2, app.EventPumps)
}

func TestJumpCommands(t *testing.T) {
	t.Parallel()

	app := hosttest.New()
	g, _ := newTestGenerator(app, nil)
	var opened []string
	g.open = func(location string) error {
		opened = append(opened, location)
		return nil
	}

	g.CreateMenu(context.Background(), testContext())

	require.NoError(t, app.Click(testMenuName, "Project Demo", "Jump to Flow Production Tracking"))
	require.NoError(t, app.Click(testMenuName, "Project Demo", "Jump to File System"))

	assert.Equal(t, []string{"https://studio.example.com/demo", "/projects/demo"}, opened)
}

func TestDestroyMenu(t *testing.T) {
	t.Parallel()

	app := hosttest.New()
	g, registry := newTestGenerator(app, nil)
	registry.Register(commands.Command{Name: "Publish...", Callback: func() {}})

	g.CreateMenu(context.Background(), testContext())
	require.NotEmpty(t, app.Labels(testMenuName))

	g.DestroyMenu()
	assert.Empty(t, app.Labels(testMenuName))
}

func TestDisabledMenu(t *testing.T) {
	t.Parallel()

	app := hosttest.New()
	g, registry := newTestGenerator(app, nil)
	registry.Register(commands.Command{Name: "Publish...", Callback: func() {}})
	g.CreateMenu(context.Background(), testContext())

	g.BuildDisabled(context.Background())
	require.Equal(t, []string{"Sgtk is disabled."}, app.Labels(testMenuName))

	require.NoError(t, app.Click(testMenuName, "Sgtk is disabled."))
	require.Len(t, app.Dialogs, 1)
	assert.Contains(t, app.Dialogs[0], "Shotgun Warning")

	g.RemoveDisabled(context.Background())
	assert.Empty(t, app.Labels(testMenuName))
}

func TestDisabledMenu_NoUINoOp(t *testing.T) {
	t.Parallel()

	app := hosttest.New()
	app.GUI = false
	g, _ := newTestGenerator(app, nil)

	g.BuildDisabled(context.Background())
	assert.Empty(t, app.TopLevelMenus())
}
