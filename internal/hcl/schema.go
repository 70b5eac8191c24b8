// Package hcl implements the HCL settings loader for the engine. Project
// paths and URLs are full HCL expressions evaluated against an `env`
// variable, so settings files can interpolate the environment.
package hcl

import (
	"github.com/hashicorp/hcl/v2"
)

// EngineBlock is the `engine "<name>"` block of a settings file.
type EngineBlock struct {
	Name                          string          `hcl:"name,label"`
	UseSgtkAsMenuName             *bool           `hcl:"use_sgtk_as_menu_name,optional"`
	AutomaticContextSwitch        *bool           `hcl:"automatic_context_switch,optional"`
	CompatibilityDialogMinVersion *int            `hcl:"compatibility_dialog_min_version,optional"`
	Favourites                    []*CommandBlock `hcl:"favourite,block"`
	RunAtStartup                  []*CommandBlock `hcl:"run_at_startup,block"`
}

// CommandBlock names one command of one app instance.
type CommandBlock struct {
	AppInstance string `hcl:"app_instance"`
	Name        string `hcl:"name"`
}

// ProjectBlock is a `project "<name>"` block describing one project root
// for the static context resolver.
type ProjectBlock struct {
	Name string         `hcl:"name,label"`
	ID   int            `hcl:"id,optional"`
	Root hcl.Expression `hcl:"root"`
	URL  hcl.Expression `hcl:"url,optional"`
}

// SettingsFile is the top-level structure of a settings file.
type SettingsFile struct {
	Engine   *EngineBlock    `hcl:"engine,block"`
	Projects []*ProjectBlock `hcl:"project,block"`
}
