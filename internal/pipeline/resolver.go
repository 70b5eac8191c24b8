package pipeline

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Resolution failures the refresh logic branches on. Everything else a
// resolver returns is treated as unexpected.
var (
	// ErrPathOutsideAnyProject means the file lives outside every known
	// project root.
	ErrPathOutsideAnyProject = errors.New("path is not inside any known project")

	// ErrProjectEntityUnknown means the project entity itself could not be
	// resolved, so no fallback context exists.
	ErrProjectEntityUnknown = errors.New("project entity is not known to the pipeline")
)

// Resolver derives contexts from file paths and entities. Implementations
// must return errors wrapping one of the tagged resolution failures above so
// callers can pattern-match the fallback chain explicitly.
type Resolver interface {
	// FromPath resolves an absolute file path to a context. prev is the
	// previously active context and may refine ambiguous resolutions; it
	// may be nil.
	FromPath(path string, prev *Context) (*Context, error)

	// FromEntity derives a context from an already-known entity, typically
	// the current project.
	FromEntity(entity *Entity) (*Context, error)
}

// ProjectRoot configures one project for the static resolver.
type ProjectRoot struct {
	Name string
	ID   int
	Root string
	URL  string
}

// StaticResolver resolves contexts against a fixed set of project roots.
// This is the configuration-driven resolver used when no live pipeline site
// connection is wired in.
type StaticResolver struct {
	projects []ProjectRoot
}

// NewStaticResolver builds a resolver over the given project roots.
func NewStaticResolver(projects []ProjectRoot) *StaticResolver {
	return &StaticResolver{projects: projects}
}

// FromPath implements Resolver. A path resolves to the first project whose
// root contains it.
func (r *StaticResolver) FromPath(path string, prev *Context) (*Context, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %q: %w", path, ErrPathOutsideAnyProject)
	}
	for _, p := range r.projects {
		if !contains(p.Root, abs) {
			continue
		}
		return r.contextFor(p), nil
	}
	return nil, fmt.Errorf("resolve %q: %w", path, ErrPathOutsideAnyProject)
}

// FromEntity implements Resolver. Only project entities are known to the
// static resolver.
func (r *StaticResolver) FromEntity(entity *Entity) (*Context, error) {
	if entity == nil {
		return nil, fmt.Errorf("resolve nil entity: %w", ErrProjectEntityUnknown)
	}
	for _, p := range r.projects {
		if entity.Type == "Project" && (entity.ID == p.ID || entity.Name == p.Name) {
			return r.contextFor(p), nil
		}
	}
	return nil, fmt.Errorf("resolve %s %q: %w", entity.Type, entity.Name, ErrProjectEntityUnknown)
}

func (r *StaticResolver) contextFor(p ProjectRoot) *Context {
	return &Context{
		Project:             &Entity{Type: "Project", ID: p.ID, Name: p.Name},
		FilesystemLocations: []string{p.Root},
		SiteURL:             p.URL,
	}
}

// contains reports whether abs lives under root.
func contains(root, abs string) bool {
	rel, err := filepath.Rel(root, abs)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
