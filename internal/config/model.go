package config

import (
	"github.com/junopark00/tk-clarisse/internal/pipeline"
)

// CommandRef names a command registered by a specific app instance. Used by
// both the menu favourites and the run-at-startup settings.
type CommandRef struct {
	// AppInstance is the environment-configured app instance name.
	AppInstance string

	// Name is the command's menu name. For run-at-startup an empty name
	// means "every command of the instance".
	Name string
}

// Settings is the engine configuration, resolved from the settings file.
type Settings struct {
	// UseSgtkAsMenuName switches the root menu label from "Shotgun" to
	// "Sgtk", for sites where the default clashes.
	UseSgtkAsMenuName bool

	// AutomaticContextSwitch installs the scene event watcher so the engine
	// follows the user across files.
	AutomaticContextSwitch bool

	// CompatibilityDialogMinVersion suppresses the untested-version dialog
	// for host major versions below this value. The warning is still
	// logged.
	CompatibilityDialogMinVersion int

	// MenuFavourites are promoted to the root menu, in configured order.
	MenuFavourites []CommandRef

	// RunAtStartup is dispatched after all apps have initialized.
	RunAtStartup []CommandRef

	// Projects configures the static context resolver.
	Projects []pipeline.ProjectRoot
}

// DefaultSettings returns the settings used when no file is supplied.
func DefaultSettings() *Settings {
	return &Settings{
		AutomaticContextSwitch:        true,
		CompatibilityDialogMinVersion: 1,
	}
}
