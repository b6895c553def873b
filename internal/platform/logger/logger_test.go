package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warn"))
	assert.Equal(t, slog.LevelError, ParseLevel(" error "))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestNewWithWriterEmitsJSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "warn")

	log.Info("dropped")
	log.Warn("kept", "request_id", "r-1")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "kept", line["msg"])
	assert.Equal(t, "r-1", line["request_id"])
}
