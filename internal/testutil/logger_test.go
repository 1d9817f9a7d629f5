package testutil

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCaptureLogger(t *testing.T) {
	logger, buf := CaptureLogger(t)

	logger.Debug("macro call dropped", "kind", "unresolved_name")
	logger.With("name", "foo").Info("macro redefined")

	lines := buf.Lines()
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "level=DEBUG")
	assert.Contains(t, lines[0], "kind=unresolved_name")
	assert.Contains(t, lines[1], "name=foo")
}

func TestCaptureLogger_Level(t *testing.T) {
	logger, buf := CaptureLogger(t, WithLevel(slog.LevelWarn))

	logger.Info("skipped")
	logger.Warn("kept")

	assert.NotContains(t, buf.String(), "skipped")
	assert.Contains(t, buf.String(), "msg=kept")
}

func TestLogBuffer_Empty(t *testing.T) {
	var buf LogBuffer
	assert.Nil(t, buf.Lines())
	assert.Empty(t, buf.String())
}

func TestNewTestLogger_Level(t *testing.T) {
	logger := NewTestLogger(t, WithLevel(slog.LevelError))
	assert.False(t, logger.Enabled(t.Context(), slog.LevelInfo))
	assert.True(t, logger.Enabled(t.Context(), slog.LevelError))

	assert.True(t, NewTestLogger(t).Enabled(t.Context(), slog.LevelDebug))
}
