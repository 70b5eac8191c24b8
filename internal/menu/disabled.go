package menu

import (
	"context"

	"github.com/junopark00/tk-clarisse/internal/ctxlog"
	"github.com/junopark00/tk-clarisse/internal/host"
)

// disabledLabel is the single entry shown while the integration is degraded.
const disabledLabel = "Sgtk is disabled."

// disabledMessage explains the degraded state when the entry is clicked.
const disabledMessage = "Shotgun integration is disabled because it cannot recognize " +
	"the currently opened file. Try opening another file or restarting the application."

// BuildDisabled replaces the engine menu with a single inert entry
// explaining why the integration is off. The host stays usable.
func (g *Generator) BuildDisabled(ctx context.Context) {
	if !g.app.IsGUI() {
		return
	}
	ctxlog.FromContext(ctx).Debug("Building disabled menu.", "menu", g.menuName)

	root := host.RootMenu(g.app, g.menuName)
	root.RemoveAll()
	root.AddCommand(disabledLabel, func() {
		g.app.MessageBox("Shotgun Warning", disabledMessage)
	})
}

// RemoveDisabled clears the degraded menu so the standard one can be
// rebuilt. Safe to call when the menu is not degraded; the next CreateMenu
// re-renders everything anyway.
func (g *Generator) RemoveDisabled(ctx context.Context) {
	if !g.app.IsGUI() {
		return
	}
	ctxlog.FromContext(ctx).Debug("Removing disabled menu.", "menu", g.menuName)
	host.RootMenu(g.app, g.menuName).RemoveAll()
}
