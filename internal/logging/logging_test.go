package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "q.log")

	logger, closeFn, err := New(Config{File: path, Level: "debug"})
	require.NoError(t, err)

	logger.Debug().Str("component", "test").Msg("hello")
	logger.Trace().Msg("dropped")
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := bytes.Split(bytes.TrimSpace(data), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, "test", entry["component"])
	assert.Equal(t, "hello", entry["message"])
	assert.Contains(t, entry, "time")
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Config{Level: ""}.Validate())
	assert.NoError(t, Config{Level: "WARN"}.Validate())
	assert.Error(t, Config{Level: "loud"}.Validate())
}

func TestDefaultLogPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_STATE_HOME", dir)

	p, err := DefaultLogPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "quiztutor", "quiztutor.log"), p)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("QUIZTUTOR_LOG_LEVEL", "error")
	cfg := DefaultConfig()
	ApplyEnv(&cfg)
	assert.Equal(t, "error", cfg.Level)
}
