package logging_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pod-design-backend/internal/logging"
)

func TestNewWithWriter_ProductionIsJSONAtInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWithWriter("production", &buf)

	logger.Debug().Msg("hidden")
	logger.Info().Str("request_id", "abc").Msg("visible")

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "visible", line["message"])
	assert.Equal(t, "abc", line["request_id"])
	assert.Equal(t, zerolog.InfoLevel, logger.GetLevel())
}

func TestNewWithWriter_DevelopmentIsDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWithWriter("development", &buf)

	logger.Debug().Msg("poll attempt")

	assert.Equal(t, zerolog.DebugLevel, logger.GetLevel())
	assert.Contains(t, buf.String(), "poll attempt")
}
