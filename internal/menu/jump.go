package menu

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"

	"github.com/junopark00/tk-clarisse/internal/ctxlog"
	"github.com/junopark00/tk-clarisse/internal/pipeline"
)

// jumpToSite opens the context's pipeline site page in the default browser.
func (g *Generator) jumpToSite(ctx context.Context, pctx *pipeline.Context) {
	logger := ctxlog.FromContext(ctx)
	if pctx == nil || pctx.SiteURL == "" {
		logger.Warn("Context has no site URL to open.")
		return
	}
	if err := g.open(pctx.SiteURL); err != nil {
		logger.Error("Failed to open site URL.", "url", pctx.SiteURL, "error", err)
	}
}

// jumpToFileSystem opens one file browser window per disk location of the
// context.
func (g *Generator) jumpToFileSystem(ctx context.Context, pctx *pipeline.Context) {
	logger := ctxlog.FromContext(ctx)
	for _, location := range pctx.FilesystemLocations {
		if err := g.open(location); err != nil {
			logger.Error("Failed to open location.", "path", location, "error", err)
		}
	}
}

// OpenLocation hands a path or URL to the platform's desktop opener.
func OpenLocation(location string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "linux":
		cmd = exec.Command("xdg-open", location)
	case "darwin":
		cmd = exec.Command("open", location)
	case "windows":
		cmd = exec.Command("cmd.exe", "/C", "start", "Folder", location)
	default:
		return fmt.Errorf("platform %q is not supported", runtime.GOOS)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("launch %q: %w", location, err)
	}
	return nil
}
