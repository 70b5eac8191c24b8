package hcl

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/junopark00/tk-clarisse/internal/config"
	"github.com/junopark00/tk-clarisse/internal/ctxlog"
	"github.com/junopark00/tk-clarisse/internal/pipeline"
)

// Loader is the HCL implementation of config.Loader.
type Loader struct{}

// NewLoader creates an HCL settings loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses the settings file at path and translates it into the
// format-agnostic model, evaluating project expressions against the process
// environment.
func (l *Loader) Load(ctx context.Context, path string) (*config.Settings, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Decoding settings file.", "path", path)

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse settings file %s: %s", path, diags.Error())
	}

	var sf SettingsFile
	diags = gohcl.DecodeBody(file.Body, evalContext(), &sf)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode settings file %s: %s", path, diags.Error())
	}

	settings, err := l.translate(&sf)
	if err != nil {
		return nil, err
	}
	logger.Debug("Settings decoded.",
		"favourites", len(settings.MenuFavourites),
		"run_at_startup", len(settings.RunAtStartup),
		"projects", len(settings.Projects))
	return settings, nil
}

// translate converts the HCL-specific schema into the agnostic model,
// starting from the documented defaults so absent attributes keep their
// meaning.
func (l *Loader) translate(sf *SettingsFile) (*config.Settings, error) {
	settings := config.DefaultSettings()

	if eb := sf.Engine; eb != nil {
		if eb.UseSgtkAsMenuName != nil {
			settings.UseSgtkAsMenuName = *eb.UseSgtkAsMenuName
		}
		if eb.AutomaticContextSwitch != nil {
			settings.AutomaticContextSwitch = *eb.AutomaticContextSwitch
		}
		if eb.CompatibilityDialogMinVersion != nil {
			settings.CompatibilityDialogMinVersion = *eb.CompatibilityDialogMinVersion
		}
		for _, fav := range eb.Favourites {
			settings.MenuFavourites = append(settings.MenuFavourites, config.CommandRef{
				AppInstance: fav.AppInstance,
				Name:        fav.Name,
			})
		}
		for _, ras := range eb.RunAtStartup {
			settings.RunAtStartup = append(settings.RunAtStartup, config.CommandRef{
				AppInstance: ras.AppInstance,
				Name:        ras.Name,
			})
		}
	}

	for _, pb := range sf.Projects {
		root, err := evalString(pb.Root, "root", pb.Name)
		if err != nil {
			return nil, err
		}
		url, err := evalString(pb.URL, "url", pb.Name)
		if err != nil {
			return nil, err
		}
		settings.Projects = append(settings.Projects, pipeline.ProjectRoot{
			Name: pb.Name,
			ID:   pb.ID,
			Root: root,
			URL:  url,
		})
	}

	return settings, nil
}

// evalString evaluates an optional string attribute expression.
func evalString(expr hcl.Expression, attr, block string) (string, error) {
	if expr == nil {
		return "", nil
	}
	val, diags := expr.Value(evalContext())
	if diags.HasErrors() {
		return "", fmt.Errorf("project %q: failed to evaluate %s: %s", block, attr, diags.Error())
	}
	if val.IsNull() {
		return "", nil
	}
	if val.Type() != cty.String {
		return "", fmt.Errorf("project %q: %s must be a string", block, attr)
	}
	return val.AsString(), nil
}

// evalContext exposes the process environment as the `env` object variable.
func evalContext() *hcl.EvalContext {
	vars := make(map[string]cty.Value)
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		vars[k] = cty.StringVal(v)
	}
	envVal := cty.EmptyObjectVal
	if len(vars) > 0 {
		envVal = cty.ObjectVal(vars)
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{"env": envVal},
	}
}
