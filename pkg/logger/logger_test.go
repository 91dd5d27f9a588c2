package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/funko-api/pkg/logger"
)

func TestNew_ProductionEscribeJSON(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(logger.Config{Env: "production", Level: "info", Out: &buf})

	l.Info().Str("key", "funko-api:items:all").Msg("cache miss")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line), "la salida en producción debe ser JSON")
	assert.Equal(t, "info", line["level"])
	assert.Equal(t, "cache miss", line["message"])
	assert.Equal(t, "funko-api:items:all", line["key"])
}

func TestNew_RespetaNivel(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(logger.Config{Env: "production", Level: "warn", Out: &buf})

	l.Info().Msg("ignorado")
	assert.Zero(t, buf.Len(), "info no debe escribirse con nivel warn")

	l.Warn().Msg("visible")
	assert.NotZero(t, buf.Len())
}

func TestComponent_AgregaCampo(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(logger.Config{Env: "production", Level: "debug", Out: &buf})

	zl := l.Component("items")
	zl.Debug().Msg("x")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "items", line["component"])
}
