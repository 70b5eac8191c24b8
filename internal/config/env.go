package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
)

// Env holds the one-shot environment settings the engine consumes. These
// come from the launcher or the surrounding shell, not from the settings
// file.
type Env struct {
	// Debug enables debug output on the host's script-editor log channel.
	Debug bool `env:"TK_DEBUG"`

	// DesktopInstallPath overrides the desktop application install location
	// used to locate the bundled UI toolkit.
	DesktopInstallPath string `env:"SHOTGUN_DESKTOP_INSTALL_PATH"`

	// CompatibilityDialogShown marks that the untested-version dialog was
	// already shown in this session; it is only shown once.
	CompatibilityDialogShown bool `env:"SGTK_COMPATIBILITY_DIALOG_SHOWN"`

	// SkipWebWidgetImport prevents the UI bridge from importing the web
	// widget submodule, which deadlocks some hosts on Windows.
	SkipWebWidgetImport bool `env:"SHOTGUN_SKIP_QTWEBENGINEWIDGETS_IMPORT"`

	// EngineName is set by the launcher so the startup hook knows which
	// engine to bring up.
	EngineName string `env:"SGTK_ENGINE"`

	// SerializedContext carries the launch context, serialized by the
	// launcher with pipeline.Context.Serialize.
	SerializedContext string `env:"SGTK_CONTEXT"`

	// FileToOpen is a scene the host should open once the engine is up.
	FileToOpen string `env:"SGTK_FILE_TO_OPEN"`
}

// ParseEnv reads the engine's environment settings from the process
// environment.
func ParseEnv() (*Env, error) {
	var e Env
	if err := env.Parse(&e); err != nil {
		return nil, fmt.Errorf("parse engine environment: %w", err)
	}
	return &e, nil
}

// MarkCompatibilityDialogShown records the once-per-session marker in the
// process environment so child tooling sees it too.
func (e *Env) MarkCompatibilityDialogShown() {
	e.CompatibilityDialogShown = true
	os.Setenv("SGTK_COMPATIBILITY_DIALOG_SHOWN", "1")
}

// MarkSkipWebWidgetImport sets the flag that stops the UI bridge from
// importing the web widget submodule.
func (e *Env) MarkSkipWebWidgetImport() {
	e.SkipWebWidgetImport = true
	os.Setenv("SHOTGUN_SKIP_QTWEBENGINEWIDGETS_IMPORT", "1")
}
