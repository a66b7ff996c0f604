package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger_SplitsLevelsBetweenCores(t *testing.T) {
	dir := t.TempDir()
	var console bytes.Buffer

	logger, path, err := NewLogger(Options{
		Dir:          dir,
		Prefix:       "test",
		ConsoleLevel: zapcore.InfoLevel,
		FileLevel:    zapcore.DebugLevel,
		Console:      zapcore.AddSync(&console),
	})
	require.NoError(t, err)

	logger.Debug("debug only", zap.String("contract", "CT-000001"))
	logger.Info("shown everywhere")
	require.NoError(t, logger.Sync())

	assert.Equal(t, dir, filepath.Dir(path))
	assert.True(t, strings.HasPrefix(filepath.Base(path), "test_"))

	assert.NotContains(t, console.String(), "debug only")
	assert.Contains(t, console.String(), "shown everywhere")

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	require.Len(t, lines, 2)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "debug only", entry["msg"])
	assert.Equal(t, "CT-000001", entry["contract"])
	assert.Contains(t, entry, "timestamp")
}

func TestInitLogger_RejectsBadLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "loud")

	_, err := InitLogger("test")
	assert.Error(t, err)
}
