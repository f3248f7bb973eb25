package logging_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/aretw0/cascade/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, logging.ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, logging.ParseLevel(" WARN "))
	assert.Equal(t, slog.LevelError, logging.ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, logging.ParseLevel("chatty"))
	assert.Equal(t, slog.LevelInfo, logging.ParseLevel(""))
}

func TestNewWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWriter(&buf, "JSON", slog.LevelInfo)

	logger.Debug("hidden")
	logger.Warn("lease", "error", errors.New("busy"))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "lease", line["msg"])
	assert.Equal(t, "busy", line["err"])
	assert.NotContains(t, line, "error")
}

func TestNewWriter_TextFallback(t *testing.T) {
	var buf bytes.Buffer
	logging.NewWriter(&buf, "yaml", slog.LevelDebug).Debug("tick", "error", "x")
	assert.Contains(t, buf.String(), "msg=tick")
	assert.Contains(t, buf.String(), "err=x")
}
