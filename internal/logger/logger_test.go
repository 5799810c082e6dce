package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromContext(t *testing.T) {
	t.Run("Should return logger from context when present", func(t *testing.T) {
		expected := NewLogger(TestConfig())
		ctx := ContextWithLogger(context.Background(), expected)

		assert.Equal(t, expected, FromContext(ctx))
	})

	t.Run("Should return default logger when no logger in context", func(t *testing.T) {
		l := FromContext(context.Background())

		require.NotNil(t, l)
		assert.Equal(t, GetDefault(), l)
	})

	t.Run("Should return default logger when wrong type in context", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), LoggerCtxKey, "not a logger")

		require.NotNil(t, FromContext(ctx))
	})
}

func TestLogLevel_ToCharmlogLevel(t *testing.T) {
	testCases := []struct {
		level    LogLevel
		expected int
	}{
		{DebugLevel, -4},
		{InfoLevel, 0},
		{WarnLevel, 4},
		{ErrorLevel, 8},
		{DisabledLevel, 1000},
		{LogLevel("unknown"), 0},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, int(tc.level.ToCharmlogLevel()), "level %s", tc.level)
	}
}

func TestNewLogger(t *testing.T) {
	t.Run("Should write text output", func(t *testing.T) {
		var buf bytes.Buffer

		l := NewLogger(&Config{Level: InfoLevel, Output: &buf, TimeFormat: "15:04:05"})
		l.Info("baseline built", "file", "a.nix")

		assert.Contains(t, buf.String(), "baseline built")
		assert.Contains(t, buf.String(), "a.nix")
	})

	t.Run("Should write JSON output when enabled", func(t *testing.T) {
		var buf bytes.Buffer

		l := NewLogger(&Config{Level: InfoLevel, Output: &buf, JSON: true, TimeFormat: "15:04:05"})
		l.Info("candidate committed")

		out := buf.String()
		assert.Contains(t, out, "candidate committed")
		assert.True(t, strings.HasPrefix(strings.TrimSpace(out), "{"))
	})

	t.Run("Should filter below threshold", func(t *testing.T) {
		var buf bytes.Buffer

		l := NewLogger(&Config{Level: WarnLevel, Output: &buf, TimeFormat: "15:04:05"})
		l.Info("hidden")
		l.Warn("shown")

		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "shown")
	})

	t.Run("Should carry fields added with With", func(t *testing.T) {
		var buf bytes.Buffer

		l := NewLogger(&Config{Level: InfoLevel, Output: &buf, TimeFormat: "15:04:05"}).With("file", "x.nix")
		l.Info("done")

		assert.Contains(t, buf.String(), "x.nix")
	})
}
