package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContext_String(t *testing.T) {
	t.Parallel()

	project := &Entity{Type: "Project", ID: 7, Name: "Demo"}
	shot := &Entity{Type: "Shot", ID: 42, Name: "sh010"}
	task := &Entity{Type: "Task", ID: 99, Name: "comp"}

	testCases := []struct {
		name string
		ctx  *Context
		want string
	}{
		{"nil context", nil, "Empty Context"},
		{"empty context", &Context{}, "Empty Context"},
		{"project only", &Context{Project: project}, "Project Demo"},
		{"entity wins over project", &Context{Project: project, Entity: shot}, "Shot sh010"},
		{"task wins over entity", &Context{Project: project, Entity: shot, Task: task}, "comp, Shot sh010"},
		{"task without entity falls back to project", &Context{Project: project, Task: task}, "comp, Project Demo"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.ctx.String())
		})
	}
}

func TestContext_Equal(t *testing.T) {
	t.Parallel()

	a := &Context{
		Project: &Entity{Type: "Project", ID: 7, Name: "Demo"},
		Entity:  &Entity{Type: "Shot", ID: 42, Name: "sh010"},
	}

	t.Run("same identity, different derived data", func(t *testing.T) {
		b := &Context{
			Project:             &Entity{Type: "Project", ID: 7, Name: "Renamed"},
			Entity:              &Entity{Type: "Shot", ID: 42, Name: "sh010"},
			FilesystemLocations: []string{"/projects/demo"},
			SiteURL:             "https://studio.example.com/page",
		}
		assert.True(t, a.Equal(b))
	})

	t.Run("different entity id", func(t *testing.T) {
		b := &Context{
			Project: &Entity{Type: "Project", ID: 7, Name: "Demo"},
			Entity:  &Entity{Type: "Shot", ID: 43, Name: "sh020"},
		}
		assert.False(t, a.Equal(b))
	})

	t.Run("missing entity on one side", func(t *testing.T) {
		b := &Context{Project: &Entity{Type: "Project", ID: 7, Name: "Demo"}}
		assert.False(t, a.Equal(b))
	})

	t.Run("nil handling", func(t *testing.T) {
		var nilCtx *Context
		assert.True(t, nilCtx.Equal(nil))
		assert.False(t, a.Equal(nil))
		assert.False(t, nilCtx.Equal(a))
	})
}

func TestContext_SerializeRoundTrip(t *testing.T) {
	t.Parallel()

	original := &Context{
		Project:             &Entity{Type: "Project", ID: 7, Name: "Demo"},
		Task:                &Entity{Type: "Task", ID: 99, Name: "comp"},
		FilesystemLocations: []string{"/projects/demo"},
		SiteURL:             "https://studio.example.com/page",
	}

	data, err := original.Serialize()
	require.NoError(t, err)

	restored, err := FromSerialized(data)
	require.NoError(t, err)

	assert.True(t, original.Equal(restored))
	assert.Equal(t, original.SiteURL, restored.SiteURL)
	assert.Equal(t, original.FilesystemLocations, restored.FilesystemLocations)
}

func TestFromSerialized_Malformed(t *testing.T) {
	t.Parallel()

	_, err := FromSerialized("{not json")
	require.Error(t, err)
}
