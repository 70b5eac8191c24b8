// Package host defines the surface of the Clarisse scripting API that the
// engine consumes. Production code talks to a live host through the remote
// adapter; tests use the in-memory implementation in hosttest.
package host

// Scene lifecycle event names, matching the host's swappable application
// hook slots.
const (
	EventNewProject       = "new_project"
	EventClearProject     = "clear_project"
	EventImportProject    = "import_project"
	EventLoadProject      = "load_project"
	EventSaveProject      = "save_project"
	EventLoadStartupScene = "load_startup_scene"
	EventQuit             = "quit"
)

// SceneEvents lists every tracked non-quit lifecycle event.
var SceneEvents = []string{
	EventNewProject,
	EventClearProject,
	EventImportProject,
	EventLoadProject,
	EventSaveProject,
	EventLoadStartupScene,
}

// Hook is a host lifecycle procedure bound to one of the named event slots.
type Hook func()

// HookSlots exposes the host's gettable/settable lifecycle procedures. The
// original slot must keep running after a swap; callers compose, they never
// replace outright.
type HookSlots interface {
	// Hook returns the procedure currently bound to the named event slot.
	Hook(event string) (Hook, error)

	// SetHook rebinds the named event slot.
	SetHook(event string, fn Hook) error
}

// Application is the engine's view of the running host process.
type Application interface {
	HookSlots

	// IsGUI reports whether the host runs interactively. In batch mode no
	// menu work happens at all.
	IsGUI() bool

	// Version returns the dotted build version, e.g. "5.0.11".
	Version() string

	// VersionName returns the human-readable version, e.g. "5.0 SP11".
	VersionName() string

	// CurrentProjectFilename returns the path of the open project file, or
	// an empty string for an unsaved/blank session.
	CurrentProjectFilename() string

	// MainMenu returns the host's root menu bar.
	MainMenu() Menu

	// Disable suspends host UI interaction; Enable resumes it. Calls nest.
	Disable()
	Enable()

	// CheckForEvents pumps the host event queue once.
	CheckForEvents()

	// ExecuteDeferred schedules fn to run when the host next goes idle,
	// outside the dispatch of whatever triggered the call.
	ExecuteDeferred(fn func())

	// MessageBox shows a blocking modal dialog.
	MessageBox(title, message string)

	// Script-editor log channels.
	LogInfo(msg string)
	LogWarning(msg string)
	LogError(msg string)
}

// Menu is one node of the host-owned menu tree. The engine only ever appends
// or clears children; reordering happens by teardown and rebuild.
type Menu interface {
	// Label returns the display label of this node.
	Label() string

	// AddSubMenu appends a nested submenu and returns it.
	AddSubMenu(label string) Menu

	// AddCommand appends a leaf entry bound to fn.
	AddCommand(label string, fn func())

	// AddSeparator appends a divider.
	AddSeparator()

	// Item returns the direct child submenu with the given label, or nil.
	Item(label string) Menu

	// RemoveAll clears every child of this node.
	RemoveAll()
}

// RootMenu returns the top-level menu with the given name, creating it if it
// does not exist yet.
func RootMenu(app Application, name string) Menu {
	main := app.MainMenu()
	if m := main.Item(name); m != nil {
		return m
	}
	return main.AddSubMenu(name)
}
