// Package hosttest provides a scripted in-memory host.Application for tests.
// It models the pieces the engine touches: the menu tree, the lifecycle hook
// slots, UI enable/disable nesting and the deferred execution queue.
package hosttest

import (
	"fmt"
	"sort"

	"github.com/junopark00/tk-clarisse/internal/host"
)

// App is an in-memory host.Application.
type App struct {
	GUI            bool
	BuildVersion   string
	DisplayVersion string
	ProjectFile    string

	menu  *menuNode
	hooks map[string]host.Hook

	deferred []func()

	// DisableDepth tracks Disable/Enable nesting; 0 means the UI is live.
	DisableDepth int

	// EventPumps counts CheckForEvents calls.
	EventPumps int

	// Dialogs records MessageBox calls as "title: message".
	Dialogs []string

	// InfoLog, WarningLog and ErrorLog record script-editor output.
	InfoLog    []string
	WarningLog []string
	ErrorLog   []string
}

// New returns a GUI-mode host with empty hook slots and a bare menu bar.
func New() *App {
	a := &App{
		GUI:            true,
		BuildVersion:   "5.0.11",
		DisplayVersion: "Clarisse 5.0 SP11",
		menu:           &menuNode{label: ""},
		hooks:          make(map[string]host.Hook),
	}
	for _, ev := range host.SceneEvents {
		a.hooks[ev] = func() {}
	}
	a.hooks[host.EventQuit] = func() {}
	return a
}

func (a *App) IsGUI() bool { return a.GUI }

func (a *App) Version() string { return a.BuildVersion }

func (a *App) VersionName() string { return a.DisplayVersion }

func (a *App) CurrentProjectFilename() string { return a.ProjectFile }

func (a *App) MainMenu() host.Menu { return a.menu }

func (a *App) Disable() { a.DisableDepth++ }

func (a *App) Enable() { a.DisableDepth-- }

func (a *App) CheckForEvents() { a.EventPumps++ }

func (a *App) ExecuteDeferred(fn func()) { a.deferred = append(a.deferred, fn) }

func (a *App) MessageBox(title, message string) {
	a.Dialogs = append(a.Dialogs, title+": "+message)
}

func (a *App) LogInfo(msg string) { a.InfoLog = append(a.InfoLog, msg) }

func (a *App) LogWarning(msg string) { a.WarningLog = append(a.WarningLog, msg) }

func (a *App) LogError(msg string) { a.ErrorLog = append(a.ErrorLog, msg) }

// Hook returns the procedure bound to the named slot.
func (a *App) Hook(event string) (host.Hook, error) {
	fn, ok := a.hooks[event]
	if !ok {
		return nil, fmt.Errorf("host has no %q hook slot", event)
	}
	return fn, nil
}

// SetHook rebinds the named slot.
func (a *App) SetHook(event string, fn host.Hook) error {
	if _, ok := a.hooks[event]; !ok {
		return fmt.Errorf("host has no %q hook slot", event)
	}
	a.hooks[event] = fn
	return nil
}

// FireEvent invokes whatever is currently bound to the named slot, the way
// the host would during idle processing.
func (a *App) FireEvent(event string) {
	if fn, ok := a.hooks[event]; ok {
		fn()
	}
}

// DrainDeferred runs and clears the deferred execution queue. Functions
// scheduled while draining run in the same pass.
func (a *App) DrainDeferred() {
	for len(a.deferred) > 0 {
		fn := a.deferred[0]
		a.deferred = a.deferred[1:]
		fn()
	}
}

// PendingDeferred reports how many deferred functions are queued.
func (a *App) PendingDeferred() int { return len(a.deferred) }

// menuNode implements host.Menu.
type menuNode struct {
	label    string
	children []*menuNode
	command  func()
	sep      bool
}

func (n *menuNode) Label() string { return n.label }

func (n *menuNode) AddSubMenu(label string) host.Menu {
	child := &menuNode{label: label}
	n.children = append(n.children, child)
	return child
}

func (n *menuNode) AddCommand(label string, fn func()) {
	n.children = append(n.children, &menuNode{label: label, command: fn})
}

func (n *menuNode) AddSeparator() {
	n.children = append(n.children, &menuNode{sep: true})
}

func (n *menuNode) Item(label string) host.Menu {
	for _, c := range n.children {
		if c.label == label && c.command == nil && !c.sep {
			return c
		}
	}
	return nil
}

func (n *menuNode) RemoveAll() { n.children = nil }

// Entry is a structural snapshot of one menu node, for go-cmp assertions.
type Entry struct {
	Label     string
	Separator bool
	Command   bool
	Children  []Entry
}

// Snapshot returns the menu tree rooted at the named top-level menu as plain
// data. It returns a zero Entry when the menu does not exist.
func (a *App) Snapshot(menuName string) Entry {
	for _, c := range a.menu.children {
		if c.label == menuName {
			return snapshot(c)
		}
	}
	return Entry{}
}

func snapshot(n *menuNode) Entry {
	e := Entry{Label: n.label, Separator: n.sep, Command: n.command != nil}
	for _, c := range n.children {
		e.Children = append(e.Children, snapshot(c))
	}
	return e
}

// Click walks the named top-level menu along the given labels and invokes the
// leaf command synchronously. It fails with an error when the path does not
// resolve to a command.
func (a *App) Click(menuName string, path ...string) error {
	node := (*menuNode)(nil)
	for _, c := range a.menu.children {
		if c.label == menuName {
			node = c
			break
		}
	}
	if node == nil {
		return fmt.Errorf("no %q menu", menuName)
	}
	for i, label := range path {
		var next *menuNode
		for _, c := range node.children {
			if c.label == label {
				next = c
				break
			}
		}
		if next == nil {
			return fmt.Errorf("no %q under %q", label, node.label)
		}
		if i == len(path)-1 {
			if next.command == nil {
				return fmt.Errorf("%q is not a command", label)
			}
			next.command()
			return nil
		}
		node = next
	}
	return fmt.Errorf("empty click path")
}

// Labels returns the direct child labels of the named top-level menu, with
// separators rendered as "---". Useful for quick ordering assertions.
func (a *App) Labels(menuName string, path ...string) []string {
	node := (*menuNode)(nil)
	for _, c := range a.menu.children {
		if c.label == menuName {
			node = c
			break
		}
	}
	for _, label := range path {
		if node == nil {
			return nil
		}
		var next *menuNode
		for _, c := range node.children {
			if c.label == label && c.command == nil && !c.sep {
				next = c
				break
			}
		}
		node = next
	}
	if node == nil {
		return nil
	}
	out := make([]string, 0, len(node.children))
	for _, c := range node.children {
		if c.sep {
			out = append(out, "---")
			continue
		}
		out = append(out, c.label)
	}
	return out
}

// TopLevelMenus returns the sorted labels of the host menu bar.
func (a *App) TopLevelMenus() []string {
	var out []string
	for _, c := range a.menu.children {
		out = append(out, c.label)
	}
	sort.Strings(out)
	return out
}
