package menu

import (
	"context"
	"sort"
	"strings"

	"github.com/junopark00/tk-clarisse/internal/commands"
	"github.com/junopark00/tk-clarisse/internal/host"
)

// appCommand wraps one registered command for the duration of a single menu
// rebuild. It carries the favourites flag and knows how to materialize
// itself as one or more nested menu entries.
type appCommand struct {
	cmd       commands.Command
	favourite bool
}

// appDisplayName returns the owning app's display name, or "" for an
// un-parented command.
func (c *appCommand) appDisplayName() string {
	if c.cmd.App == nil {
		return ""
	}
	return c.cmd.App.DisplayName
}

// appInstanceName returns the owning app's instance name, or "".
func (c *appCommand) appInstanceName() string {
	if c.cmd.App == nil {
		return ""
	}
	return c.cmd.App.InstanceName
}

// addToMenu renders the command under parent. A name containing '/' expands
// into nested submenus: every segment but the last is a submenu, reused when
// a child with that label already exists.
func (c *appCommand) addToMenu(ctx context.Context, g *Generator, parent host.Menu) {
	parts := strings.Split(c.cmd.Name, "/")
	for _, label := range parts[:len(parts)-1] {
		if sub := parent.Item(label); sub != nil {
			parent = sub
			continue
		}
		parent = parent.AddSubMenu(label)
	}
	parent.AddCommand(parts[len(parts)-1], g.trampoline(ctx, c.cmd.Name, c.cmd.Callback))
}

// sortByName orders commands by full name, ascending ordinal.
func sortByName(cmds []*appCommand) {
	sort.Slice(cmds, func(i, j int) bool { return cmds[i].cmd.Name < cmds[j].cmd.Name })
}

// sortedKeys returns the map keys in ascending order.
func sortedKeys(m map[string][]*appCommand) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
