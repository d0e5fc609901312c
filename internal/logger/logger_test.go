package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// decodeLines parses every JSON line written to buf.
func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()

	var entries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry), line)
		entries = append(entries, entry)
	}
	return entries
}

func TestNewLogger_EntryFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger("vault-gate")
	l.Logger = l.Output(&buf)

	l.Info().Msg("session entered")

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "vault-gate", entries[0]["role"])
	assert.Equal(t, "session entered", entries[0]["message"])
	assert.Contains(t, entries[0], "time")
	assert.Contains(t, entries[0], "func")
}

func TestNewLogger_GlobalSettings(t *testing.T) {
	NewLogger("vault-gate")

	assert.Equal(t, "func", zerolog.CallerFieldName)
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
}

func TestNop_DiscardsOutput(t *testing.T) {
	var buf bytes.Buffer
	l := Nop()
	require.NotNil(t, l)
	l.Logger = l.Output(&buf)

	l.Warn().Msg("wrong vault PIN")

	assert.Empty(t, buf.String())
}

func TestGetChildLogger(t *testing.T) {
	var buf bytes.Buffer
	parent := NewLogger("vault-gate")
	parent.Logger = parent.Output(&buf)

	child := parent.GetChildLogger()
	assert.NotSame(t, parent, child)

	child.Info().Msg("child")
	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "vault-gate", entries[0]["role"])
}

func TestFromContext_WithoutLogger(t *testing.T) {
	l := FromContext(context.Background())
	require.NotNil(t, l)
	assert.NotPanics(t, func() { l.Debug().Msg("default logger") })
}

func TestFromContext_ReturnsAttachedLogger(t *testing.T) {
	var buf bytes.Buffer
	zl := zerolog.New(&buf).With().Str("component", "pruner").Logger()
	ctx := zl.WithContext(context.Background())

	FromContext(ctx).Info().Msg("pruned audit log")

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "pruner", entries[0]["component"])
}

func TestWithSession_TagsEveryEntry(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger("vault-gate")
	l.Logger = l.Output(&buf)

	first := l.WithSession(context.Background(), "session-1")
	second := l.WithSession(context.Background(), "session-2")

	FromContext(first).Info().Msg("wrong vault PIN")
	FromContext(second).Info().Msg("vault unlocked")
	l.Info().Msg("outside any session")

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 3)
	assert.Equal(t, "session-1", entries[0]["session_id"])
	assert.Equal(t, "session-2", entries[1]["session_id"])
	assert.NotContains(t, entries[2], "session_id")
	for _, e := range entries {
		assert.Equal(t, "vault-gate", e["role"])
	}
}

func TestNewFileLogger_AppendsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "vaultgate.log")

	NewFileLogger("vault-gate", path).Info().Msg("first run")
	NewFileLogger("vault-gate", path).Info().Msg("second run")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	entries := decodeLines(t, bytes.NewBuffer(data))
	require.Len(t, entries, 2)
	assert.Equal(t, "first run", entries[0]["message"])
	assert.Equal(t, "second run", entries[1]["message"])

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestNewFileLogger_EmptyPathFallsBack(t *testing.T) {
	l := NewFileLogger("vault-gate", "")
	require.NotNil(t, l)
	assert.NotPanics(t, func() { l.Debug().Msg("stderr") })
}
