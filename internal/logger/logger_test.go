package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJSONAddsRequestID(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewWithOptions(WithOutput(buf), WithFormat("json"))

	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "req-42")
	log.InfoContext(ctx, "bid approved", "bid_id", 7)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "bid approved", entry["msg"])
	assert.Equal(t, "req-42", entry["request_id"])
	assert.EqualValues(t, 7, entry["bid_id"])
}

func TestWithKeepsAttributes(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewWithOptions(WithOutput(buf)).With("component", "matching")

	log.Info("started")
	assert.Contains(t, buf.String(), `"component":"matching"`)
}

func TestLevelFilter(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewWithOptions(WithOutput(buf), WithLevel(slog.LevelWarn), WithFormat("text"))

	log.Info("hidden")
	log.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)

	_, err = ParseLevel("loud")
	assert.Error(t, err)
}

func TestNoOpLogger(t *testing.T) {
	log := NoOpLogger()
	require.NotNil(t, log)
	log.ErrorContext(context.Background(), "ignored")
	log.With("k", "v").Info("ignored")
}
