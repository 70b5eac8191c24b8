package watcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junopark00/tk-clarisse/internal/host"
	"github.com/junopark00/tk-clarisse/internal/host/hosttest"
)

func TestSource_SubscribeWrapsOnce(t *testing.T) {
	t.Parallel()

	app := hosttest.New()
	s := NewSource(app)

	var calls []string
	require.NoError(t, app.SetHook(host.EventLoadProject, func() {
		calls = append(calls, "original")
	}))

	h1, err := s.Subscribe(host.EventLoadProject, func() { calls = append(calls, "one") })
	require.NoError(t, err)
	_, err = s.Subscribe(host.EventLoadProject, func() { calls = append(calls, "two") })
	require.NoError(t, err)
	assert.True(t, s.Wrapped(host.EventLoadProject))

	app.FireEvent(host.EventLoadProject)

	// The original always runs first; post handlers follow.
	require.Len(t, calls, 3)
	assert.Equal(t, "original", calls[0])
	assert.ElementsMatch(t, []string{"one", "two"}, calls[1:])

	// h1 leaves; the wrapper stays for the remaining subscription.
	calls = nil
	require.NoError(t, s.Unsubscribe(h1))
	assert.True(t, s.Wrapped(host.EventLoadProject))

	app.FireEvent(host.EventLoadProject)
	assert.Equal(t, []string{"original", "two"}, calls)
}

func TestSource_LastUnsubscribeRestoresOriginal(t *testing.T) {
	t.Parallel()

	app := hosttest.New()
	s := NewSource(app)

	originalCalls := 0
	original := func() { originalCalls++ }
	require.NoError(t, app.SetHook(host.EventSaveProject, original))

	subCalls := 0
	h, err := s.Subscribe(host.EventSaveProject, func() { subCalls++ })
	require.NoError(t, err)

	require.NoError(t, s.Unsubscribe(h))
	assert.False(t, s.Wrapped(host.EventSaveProject))

	// The slot is back to the saved original; the handler is gone.
	app.FireEvent(host.EventSaveProject)
	assert.Equal(t, 1, originalCalls)
	assert.Equal(t, 0, subCalls)
}

func TestSource_PreHandlersRunBeforeOriginal(t *testing.T) {
	t.Parallel()

	app := hosttest.New()
	s := NewSource(app)

	var calls []string
	require.NoError(t, app.SetHook(host.EventQuit, func() {
		calls = append(calls, "original")
	}))

	_, err := s.SubscribePre(host.EventQuit, func() { calls = append(calls, "pre") })
	require.NoError(t, err)

	app.FireEvent(host.EventQuit)
	assert.Equal(t, []string{"pre", "original"}, calls)
}

func TestSource_HandlerMayUnsubscribeDuringDispatch(t *testing.T) {
	t.Parallel()

	app := hosttest.New()
	s := NewSource(app)

	calls := 0
	var h Handle
	var err error
	h, err = s.Subscribe(host.EventNewProject, func() {
		calls++
		require.NoError(t, s.Unsubscribe(h))
	})
	require.NoError(t, err)

	require.NotPanics(t, func() { app.FireEvent(host.EventNewProject) })
	assert.Equal(t, 1, calls)
	assert.False(t, s.Wrapped(host.EventNewProject))

	// Gone for good.
	app.FireEvent(host.EventNewProject)
	assert.Equal(t, 1, calls)
}

func TestSource_ErrorCases(t *testing.T) {
	t.Parallel()

	app := hosttest.New()
	s := NewSource(app)

	_, err := s.Subscribe(host.EventNewProject, nil)
	assert.Error(t, err)

	_, err = s.Subscribe("no_such_event", func() {})
	assert.Error(t, err)

	// Unknown handles are a no-op.
	assert.NoError(t, s.Unsubscribe(Handle{event: host.EventNewProject, id: 999}))
	assert.NoError(t, s.Unsubscribe(Handle{}))
}
