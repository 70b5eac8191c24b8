package engine

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/junopark00/tk-clarisse/internal/config"
)

// desktopDefaults are the per-platform install locations of the desktop
// application that bundles the UI toolkit.
var desktopDefaults = map[string]string{
	"darwin":  "/Applications/Shotgun.app",
	"windows": "C:/Program Files/Shotgun",
	"linux":   "/opt/Shotgun/Shotgun",
}

// locateUIBridge finds the desktop-bundled UI toolkit. It returns "" when
// the host environment is expected to provide its own toolkit, or the
// bundle path when the desktop install carries one.
func locateUIBridge(envCfg *config.Env) (string, error) {
	base := envCfg.DesktopInstallPath
	if base == "" {
		base = desktopDefaults[runtime.GOOS]
	}
	if base == "" {
		return "", nil
	}

	var bundle string
	switch runtime.GOOS {
	case "darwin":
		bundle = filepath.Join(base, "Contents", "Resources", "Python", "lib", "site-packages")
	default:
		bundle = filepath.Join(base, "Python", "Lib", "site-packages")
	}

	if _, err := os.Stat(bundle); err != nil {
		if os.IsNotExist(err) {
			// No desktop install; not an error, the host may carry its
			// own toolkit.
			return "", nil
		}
		return "", err
	}
	return bundle, nil
}
