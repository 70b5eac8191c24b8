// Package menu renders the engine's menu inside the host from the current
// command registry: context submenu, favourites, per-app grouping and the
// degraded single-entry menu for unresolvable files.
package menu

import (
	"context"

	"github.com/junopark00/tk-clarisse/internal/commands"
	"github.com/junopark00/tk-clarisse/internal/config"
	"github.com/junopark00/tk-clarisse/internal/ctxlog"
	"github.com/junopark00/tk-clarisse/internal/host"
	"github.com/junopark00/tk-clarisse/internal/pipeline"
)

// otherItemsLabel groups commands that have no owning app.
const otherItemsLabel = "Other Items"

// Generator owns the menu rebuild algorithm. One instance lives for the
// engine's lifetime; every rebuild tears the menu down and re-renders it
// from the registry so entries always reflect current state.
type Generator struct {
	app      host.Application
	menuName string
	registry *commands.Registry
	settings *config.Settings

	// open launches a filesystem location or URL in the user's desktop
	// environment. Swapped out in tests.
	open func(location string) error
}

// NewGenerator creates a menu generator rendering into the named top-level
// host menu.
func NewGenerator(app host.Application, menuName string, registry *commands.Registry, settings *config.Settings) *Generator {
	return &Generator{
		app:      app,
		menuName: menuName,
		registry: registry,
		settings: settings,
		open:     OpenLocation,
	}
}

// MenuName returns the label of the top-level menu this generator owns.
func (g *Generator) MenuName() string { return g.menuName }

// CreateMenu renders the entire menu from the current registry contents.
// It is idempotent: the previous tree is torn down first, so repeated calls
// converge on the same result. A failure to render one command is logged and
// skipped rather than aborting the rebuild.
func (g *Generator) CreateMenu(ctx context.Context, pctx *pipeline.Context) {
	logger := ctxlog.FromContext(ctx)

	root := host.RootMenu(g.app, g.menuName)
	root.RemoveAll()

	// Context submenu first, then a divider separating it from commands.
	contextMenu := g.addContextMenu(ctx, root, pctx)
	root.AddSeparator()

	items := make([]*appCommand, 0, g.registry.Len())
	for _, cmd := range g.registry.All() {
		logger.Debug("Engine command.", "name", cmd.Name, "kind", cmd.Kind.String())
		items = append(items, &appCommand{cmd: cmd})
	}

	// Favourites go directly under the root, in configured order. A
	// favourite that matches nothing is silently ignored.
	for _, fav := range g.settings.MenuFavourites {
		for _, item := range items {
			if item.appInstanceName() == fav.AppInstance && item.cmd.Name == fav.Name {
				g.addCommandToMenu(ctx, item, root)
				item.favourite = true
				break
			}
		}
	}
	root.AddSeparator()

	// Partition the rest: context-menu commands under the context submenu,
	// everything else grouped by owning app.
	byApp := make(map[string][]*appCommand)
	var appOrder []string
	for _, item := range items {
		if item.cmd.Kind == commands.KindContextMenu {
			g.addCommandToMenu(ctx, item, contextMenu)
			continue
		}
		appName := item.appDisplayName()
		if appName == "" {
			appName = otherItemsLabel
		}
		if _, ok := byApp[appName]; !ok {
			appOrder = append(appOrder, appName)
		}
		byApp[appName] = append(byApp[appName], item)
	}

	g.addAppMenus(ctx, root, byApp)
}

// DestroyMenu removes every entry of the engine menu.
func (g *Generator) DestroyMenu() {
	host.RootMenu(g.app, g.menuName).RemoveAll()
}

// addContextMenu builds the submenu labelled with the current context. Apps
// append context-scoped entries below the trailing divider.
func (g *Generator) addContextMenu(ctx context.Context, root host.Menu, pctx *pipeline.Context) host.Menu {
	m := root.AddSubMenu(pctx.String())

	m.AddCommand("Jump to Flow Production Tracking", func() {
		g.jumpToSite(ctx, pctx)
	})

	// Only offer the file system jump when the context has locations.
	if len(pctx.FilesystemLocations) > 0 {
		m.AddCommand("Jump to File System", func() {
			g.jumpToFileSystem(ctx, pctx)
		})
	}

	m.AddSeparator()
	return m
}

// addAppMenus adds the grouped commands under the root menu, app by app in
// name order.
func (g *Generator) addAppMenus(ctx context.Context, root host.Menu, byApp map[string][]*appCommand) {
	for _, appName := range sortedKeys(byApp) {
		cmds := byApp[appName]
		if len(cmds) > 1 {
			appMenu := root.AddSubMenu(appName)
			sortByName(cmds)
			for _, item := range cmds {
				g.addCommandToMenu(ctx, item, appMenu)
			}
			continue
		}

		// A single entry goes straight on the root menu, unless it is
		// already there as a favourite.
		if item := cmds[0]; !item.favourite {
			g.addCommandToMenu(ctx, item, root)
		}
	}
}

// addCommandToMenu renders one command under parent, guarding the rebuild
// against a broken entry.
func (g *Generator) addCommandToMenu(ctx context.Context, item *appCommand, parent host.Menu) {
	defer func() {
		if r := recover(); r != nil {
			ctxlog.FromContext(ctx).Error("Skipping menu entry that failed to render.",
				"command", item.cmd.Name, "panic", r)
		}
	}()
	item.addToMenu(ctx, g, parent)
}
