package config

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeLogLevel(t *testing.T) {
	assert.Equal(t, LogLevelDebug, NormalizeLogLevel(" DEBUG "))
	assert.Equal(t, LogLevelWarn, NormalizeLogLevel("warn"))
	assert.Equal(t, LogLevelInfo, NormalizeLogLevel("chatty"))
	assert.Equal(t, LogLevelInfo, NormalizeLogLevel(""))
}

func TestNormalizeLogFormat(t *testing.T) {
	assert.Equal(t, LogFormatJSON, NormalizeLogFormat("JSON"))
	assert.Equal(t, LogFormatText, NormalizeLogFormat("xml"))
}

func TestLoggingConfig_SlogLevel(t *testing.T) {
	cfg := LoggingConfig{Level: LogLevelError}
	assert.Equal(t, slog.LevelError, cfg.SlogLevel(false))
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel(true))
	assert.Equal(t, slog.LevelInfo, LoggingConfig{}.SlogLevel(false))
}

func TestLoggingConfig_NewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := LoggingConfig{Level: LogLevelInfo, Format: LogFormatJSON}.NewLogger(&buf, false)
	logger.Debug("hidden")
	logger.Info("shown", "page", "home")

	out := buf.String()
	require.NotEmpty(t, out)
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"page":"home"`)
}
