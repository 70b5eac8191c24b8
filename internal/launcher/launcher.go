// Package launcher discovers host executables on disk and prepares the
// environment a freshly launched host needs to auto-load the engine. It
// runs in its own phase, before the host process exists; nothing here talks
// to a live host.
package launcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"github.com/junopark00/tk-clarisse/internal/ctxlog"
	"github.com/junopark00/tk-clarisse/internal/pipeline"
)

// minimumSupportedVersion is the oldest host the engine runs against.
const minimumSupportedVersion = "3.6"

// productName is the display name of the host product.
const productName = "Clarisse"

// versionPattern matches the variable component of an executable template.
var versionPattern = regexp.MustCompile(`[\d.]+`)

// executableTemplates lists the known install locations per platform, with
// a {version} placeholder standing in for the variable path component. The
// templates serve both globbing and token extraction.
func executableTemplates(goos string) []string {
	switch goos {
	case "darwin":
		return []string{
			"/Applications/Clarisse{version}/clarisse.app",
		}
	case "windows":
		return []string{
			`C:\Program Files\Clarisse{version}\clarisse.exe`,
		}
	case "linux":
		home, _ := os.UserHomeDir()
		return []string{
			"/opt/Clarisse{version}/clarisse/clarisse",
			filepath.Join(home, "Clarisse{version}", "clarisse", "clarisse"),
		}
	default:
		return nil
	}
}

// SoftwareVersion describes one installed host executable.
type SoftwareVersion struct {
	Version string
	Product string
	Path    string
	Icon    string
	Args    []string
}

// LaunchInformation is everything needed to start the host with the engine
// auto-loading.
type LaunchInformation struct {
	Path        string
	Args        []string
	Environment map[string]string
}

// Launcher scans for host installs and prepares launch environments.
type Launcher struct {
	engineName string

	// startupScript is injected into the new process so the host runs the
	// engine bootstrap on startup.
	startupScript string
}

// New creates a Launcher for the named engine.
func New(engineName, startupScript string) *Launcher {
	return &Launcher{engineName: engineName, startupScript: startupScript}
}

// ScanSoftware finds every supported host install on this machine. Installs
// below the minimum supported version are skipped with a debug log.
func (l *Launcher) ScanSoftware(ctx context.Context) ([]SoftwareVersion, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Scanning for host software.", "platform", runtime.GOOS)

	var found []SoftwareVersion
	for _, template := range executableTemplates(runtime.GOOS) {
		logger.Debug("Processing executable template.", "template", template)
		for _, sw := range matchTemplate(template) {
			if !versionAtLeast(sw.Version, minimumSupportedVersion) {
				logger.Debug("Skipping unsupported version.", "version", sw.Version, "path", sw.Path)
				continue
			}
			logger.Debug("Found host executable.", "version", sw.Version, "path", sw.Path)
			found = append(found, sw)
		}
	}
	return found, nil
}

// PrepareLaunch builds the environment for a new host process: the startup
// script, the serialized context, the engine name and optionally a file to
// open.
func (l *Launcher) PrepareLaunch(ctx context.Context, pctx *pipeline.Context, execPath string, args []string, fileToOpen string) (*LaunchInformation, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Preparing host launch.", "path", execPath)

	serialized, err := pctx.Serialize()
	if err != nil {
		return nil, fmt.Errorf("prepare launch: %w", err)
	}

	env := map[string]string{
		"CLARISSE_STARTUP_SCRIPT": l.startupScript,
		"SGTK_ENGINE":             l.engineName,
		"SGTK_CONTEXT":            serialized,
	}
	if fileToOpen != "" {
		env["SGTK_FILE_TO_OPEN"] = fileToOpen
	}

	return &LaunchInformation{Path: execPath, Args: args, Environment: env}, nil
}

// matchTemplate globs the filesystem for a template and extracts the
// version token from each hit.
func matchTemplate(template string) []SoftwareVersion {
	pattern := strings.ReplaceAll(template, "{version}", "*")
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil
	}

	re, err := templateRegexp(template)
	if err != nil {
		return nil
	}

	var found []SoftwareVersion
	for _, path := range matches {
		m := re.FindStringSubmatch(path)
		if m == nil {
			continue
		}
		version := m[re.SubexpIndex("version")]
		found = append(found, SoftwareVersion{
			Version: version,
			Product: productName,
			Path:    path,
		})
	}
	return found
}

// templateRegexp compiles a template into a regexp with a named version
// group.
func templateRegexp(template string) (*regexp.Regexp, error) {
	parts := strings.Split(template, "{version}")
	for i, p := range parts {
		parts[i] = regexp.QuoteMeta(p)
	}
	return regexp.Compile("^" + strings.Join(parts, `(?P<version>`+versionPattern.String()+`)`) + "$")
}

// versionAtLeast compares dotted version strings component-wise.
func versionAtLeast(version, minimum string) bool {
	va := versionComponents(version)
	vb := versionComponents(minimum)
	for i := 0; i < len(va) || i < len(vb); i++ {
		a, b := 0, 0
		if i < len(va) {
			a = va[i]
		}
		if i < len(vb) {
			b = vb[i]
		}
		if a != b {
			return a > b
		}
	}
	return true
}

func versionComponents(v string) []int {
	var out []int
	for _, part := range strings.Split(strings.Trim(v, "."), ".") {
		n := 0
		for _, r := range part {
			if r < '0' || r > '9' {
				break
			}
			n = n*10 + int(r-'0')
		}
		out = append(out, n)
	}
	return out
}
