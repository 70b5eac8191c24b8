package ctxlog

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithLoggerRoundTrip(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	ctx := WithLogger(context.Background(), logger)

	got := FromContext(ctx)
	require.Same(t, logger, got)

	got.Info("hello")
	assert.Contains(t, buf.String(), "hello")
}

func TestFromContext_FallsBackToDefault(t *testing.T) {
	t.Parallel()

	got := FromContext(context.Background())
	assert.NotNil(t, got)
}
