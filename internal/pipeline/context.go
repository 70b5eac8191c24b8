// Package pipeline models the slice of the production-pipeline toolkit the
// engine depends on: the work context and path-to-context resolution.
package pipeline

import (
	"encoding/json"
	"fmt"
)

// Entity is a pipeline entity reference (project, shot, task, ...).
type Entity struct {
	Type string `json:"type"`
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Context identifies where in the project/entity hierarchy the user
// currently works. Contexts are replaced wholesale on change, never mutated
// in place.
type Context struct {
	Project *Entity `json:"project,omitempty"`
	Entity  *Entity `json:"entity,omitempty"`
	Task    *Entity `json:"task,omitempty"`

	// FilesystemLocations are the context's disk locations, if any.
	FilesystemLocations []string `json:"filesystem_locations,omitempty"`

	// SiteURL is the pipeline site page for this context.
	SiteURL string `json:"shotgun_url,omitempty"`
}

// String renders the context the way it is labelled in menus: the most
// specific entity wins.
func (c *Context) String() string {
	switch {
	case c == nil:
		return "Empty Context"
	case c.Task != nil:
		return fmt.Sprintf("%s, %s", c.Task.Name, entityLabel(c.Entity, c.Project))
	case c.Entity != nil:
		return fmt.Sprintf("%s %s", c.Entity.Type, c.Entity.Name)
	case c.Project != nil:
		return fmt.Sprintf("Project %s", c.Project.Name)
	default:
		return "Empty Context"
	}
}

func entityLabel(entity, project *Entity) string {
	if entity != nil {
		return fmt.Sprintf("%s %s", entity.Type, entity.Name)
	}
	if project != nil {
		return fmt.Sprintf("Project %s", project.Name)
	}
	return "Empty Context"
}

// Equal reports whether two contexts identify the same place in the
// pipeline. Filesystem locations and the site URL are derived data and do
// not participate.
func (c *Context) Equal(o *Context) bool {
	if c == nil || o == nil {
		return c == o
	}
	return entityEqual(c.Project, o.Project) &&
		entityEqual(c.Entity, o.Entity) &&
		entityEqual(c.Task, o.Task)
}

func entityEqual(a, b *Entity) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Type == b.Type && a.ID == b.ID
}

// Serialize encodes the context for transport in an environment variable.
func (c *Context) Serialize() (string, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("serialize context: %w", err)
	}
	return string(data), nil
}

// FromSerialized decodes a context produced by Serialize.
func FromSerialized(data string) (*Context, error) {
	var c Context
	if err := json.Unmarshal([]byte(data), &c); err != nil {
		return nil, fmt.Errorf("deserialize context: %w", err)
	}
	return &c, nil
}
