package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestSanitizeKVs(t *testing.T) {
	got := sanitizeKVs([]any{"api_key", "sk-123", "input_tokens", 42, "topic", "articles", "dangling"})
	assert.Equal(t, []any{"api_key", "[REDACTED]", "input_tokens", 42, "topic", "articles", "dangling"}, got)
}

func TestNewRejectsBadLevel(t *testing.T) {
	_, err := New(Options{Level: "loud"})
	assert.Error(t, err)
}

func TestNewBuildsBothModes(t *testing.T) {
	for _, mode := range []string{"dev", "prod"} {
		l, err := New(Options{Mode: mode, Level: "warn"})
		require.NoError(t, err, mode)
		assert.False(t, l.SugaredLogger.Desugar().Core().Enabled(zap.InfoLevel), mode)
	}
}

func TestWithRedactsFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := &Logger{SugaredLogger: zap.New(core).Sugar()}

	l.With("secret", "hunter2").Warn("save failed", "key", "session:default")

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "[REDACTED]", fields["secret"])
	assert.Equal(t, "session:default", fields["key"])
}
