package engine

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"strings"

	"github.com/junopark00/tk-clarisse/internal/ctxlog"
)

// Version gates: hosts older than 3.6 are rejected outright; hosts newer
// than 5.0 work but have not been fully tested, so the user gets a one-time
// warning.
const (
	minSupportedMajor = 3
	minSupportedMinor = 6

	testedCeilingMajor = 5
	testedCeilingMinor = 0
)

// untestedVersionMessage is shown and logged for hosts above the tested
// ceiling.
const untestedVersionMessage = "The Shotgun Pipeline Toolkit has not yet been fully tested with " +
	"this version of the application (%s). You can continue to use Toolkit but you may " +
	"experience bugs or instability.\n\nUse at your own risk."

// checkHostCompatibility enforces the platform and version gates. The
// returned error is a fatal startup error; the soft ceiling only warns.
func (e *Engine) checkHostCompatibility(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	switch runtime.GOOS {
	case "darwin", "linux", "windows":
	default:
		return fmt.Errorf("the current platform %q is not supported; supported platforms are Mac, Linux 64 and Windows 64", runtime.GOOS)
	}

	build := e.app.Version()
	major, minor, err := parseVersion(build)
	if err != nil {
		return fmt.Errorf("could not determine the host version: %w", err)
	}

	if major < minSupportedMajor || (major == minSupportedMajor && minor < minSupportedMinor) {
		return fmt.Errorf("integration is not compatible with host versions older than %d.%d (detected %s)",
			minSupportedMajor, minSupportedMinor, build)
	}

	if major > testedCeilingMajor || (major == testedCeilingMajor && minor > testedCeilingMinor) {
		msg := fmt.Sprintf(untestedVersionMessage, build)

		show := e.ui && !e.env.CompatibilityDialogShown
		if show && major < e.settings.CompatibilityDialogMinVersion {
			// Sites can silence the dialog for versions they have
			// already vetted themselves.
			show = false
		}
		if show {
			e.env.MarkCompatibilityDialogShown()
			e.app.MessageBox("Shotgun Warning", msg)
		}

		// The log warning is not once-per-session; it always lands.
		logger.Warn("Host version is above the tested ceiling.", "version", build)

		if runtime.GOOS == "windows" {
			// The web widget import can deadlock the host on Windows.
			logger.Debug("Disabling web widget import on Windows.")
			e.env.MarkSkipWebWidgetImport()
		}
	}

	return nil
}

// parseVersion extracts the major and minor numbers from a dotted build
// version such as "5.0.11".
func parseVersion(build string) (major, minor int, err error) {
	parts := strings.Split(strings.TrimSpace(build), ".")
	if len(parts) == 0 || parts[0] == "" {
		return 0, 0, fmt.Errorf("empty version string")
	}
	major, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("bad major version in %q", build)
	}
	if len(parts) > 1 {
		minor, err = strconv.Atoi(parts[1])
		if err != nil {
			return 0, 0, fmt.Errorf("bad minor version in %q", build)
		}
	}
	return major, minor, nil
}
