// Package commands holds the registry of pipeline commands the engine
// renders into the host menu. Apps register commands at init time; the
// registry is rebuilt wholesale on every context change.
package commands

import (
	"log/slog"
	"sort"
)

// Kind tags how a command is surfaced in the menu.
type Kind int

const (
	// KindDefault commands are grouped under their owning app.
	KindDefault Kind = iota

	// KindContextMenu commands live under the context submenu.
	KindContextMenu

	// KindNode commands are bound to host scene nodes. The menu builder
	// treats them like defaults; node binding is host-side.
	KindNode

	// KindCustomPane commands open a dedicated host pane.
	KindCustomPane
)

// String returns the configuration-facing name of the kind.
func (k Kind) String() string {
	switch k {
	case KindContextMenu:
		return "context_menu"
	case KindNode:
		return "node"
	case KindCustomPane:
		return "custom_pane"
	default:
		return "default"
	}
}

// OwningApp identifies the pipeline app a command belongs to.
type OwningApp struct {
	// InstanceName is the environment-configured instance, e.g.
	// "tk-multi-workfiles2".
	InstanceName string

	// DisplayName is the human-facing app name used for menu grouping.
	DisplayName string
}

// Command is one registered pipeline command.
type Command struct {
	// Name is the menu-facing name. A name containing '/' denotes a nested
	// menu path; everything before the last segment becomes submenus.
	Name string

	// Callback runs when the menu entry is invoked. Never nil for a
	// registered command.
	Callback func()

	// Kind controls menu placement.
	Kind Kind

	// App is the owning app, or nil for an un-parented command.
	App *OwningApp

	// Description is optional hover/help text.
	Description string
}

// App is implemented by pipeline apps that contribute commands. Mirrors the
// self-registration pattern used for engine modules elsewhere in the
// pipeline stack.
type App interface {
	Register(r *Registry)
}

// Registry is a name-keyed collection of commands. It is owned by the
// engine and accessed only from the host's scripting thread; no locking.
type Registry struct {
	byName map[string]Command
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Command)}
}

// Register adds a command. Re-registering an existing name overwrites the
// previous entry with a warning; apps legitimately re-register after a
// context change drops their commands.
func (r *Registry) Register(cmd Command) {
	if cmd.Name == "" || cmd.Callback == nil {
		panic("commands: Register requires a name and a callback")
	}
	if _, exists := r.byName[cmd.Name]; exists {
		slog.Warn("Command re-registered, overwriting.", "name", cmd.Name)
	}
	slog.Debug("Registering command.", "name", cmd.Name, "kind", cmd.Kind.String())
	r.byName[cmd.Name] = cmd
}

// Get returns the command with the given name.
func (r *Registry) Get(name string) (Command, bool) {
	cmd, ok := r.byName[name]
	return cmd, ok
}

// All returns every registered command sorted by name, ascending ordinal.
func (r *Registry) All() []Command {
	out := make([]Command, 0, len(r.byName))
	for _, cmd := range r.byName {
		out = append(out, cmd)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ByInstance returns the commands owned by the given app instance, keyed by
// command name. Used for run-at-startup dispatch.
func (r *Registry) ByInstance(instanceName string) map[string]Command {
	out := make(map[string]Command)
	for name, cmd := range r.byName {
		if cmd.App != nil && cmd.App.InstanceName == instanceName {
			out[name] = cmd
		}
	}
	return out
}

// Len reports the number of registered commands.
func (r *Registry) Len() int { return len(r.byName) }
