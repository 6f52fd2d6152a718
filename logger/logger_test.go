package logger

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
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "info", cfg.Level)
	assert.Equal(t, "console", cfg.Format)
	assert.Equal(t, "stderr", cfg.Output)
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, _, err := New(Config{Level: "loud"})
	assert.Error(t, err)
}

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labelgrid.log")
	log, closer, err := New(Config{Level: "info", Format: "json", Output: path})
	require.NoError(t, err)

	log.Info("row read", zap.Int("row", 2))
	require.NoError(t, log.Sync())
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(data), &entry))
	assert.Equal(t, "row read", entry["msg"])
	assert.Equal(t, float64(2), entry["row"])
	assert.Equal(t, "info", entry["level"])
}

func TestNewWriterFiltersLevel(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewWriter(&buf, Config{Level: "warn", Format: "console"})
	require.NoError(t, err)

	log.Info("hidden")
	log.Warn("label text overflows cell")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.True(t, strings.Contains(out, "WARN"))
	assert.Contains(t, out, "label text overflows cell")
}

func TestNewRejectsUnwritableFile(t *testing.T) {
	_, _, err := New(Config{Output: filepath.Join(t.TempDir(), "missing", "dir", "x.log")})
	assert.Error(t, err)
}
