package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSONOutputWithChildFields(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Env: "production", Level: "info", Output: &buf})

	l.Child(map[string]any{"run_id": "abc", "report": "sales"}).Info().Msg("listo")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "abc", entry["run_id"])
	assert.Equal(t, "sales", entry["report"])
	assert.Equal(t, "listo", entry["message"])
}

func TestNew_LevelFiltersBelowThreshold(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Env: "production", Level: "warn", Output: &buf})
	l.Info().Msg("oculto")
	assert.Zero(t, buf.Len())
}

func TestNop_Discards(t *testing.T) {
	assert.NotPanics(t, func() { Nop().Error().Msg("nada") })
}

func TestRequestID_FromContext(t *testing.T) {
	ctx := WithRequestID(context.Background(), "abc-123")
	assert.Equal(t, "abc-123", RequestID(ctx))
	assert.Empty(t, RequestID(context.Background()))
}
