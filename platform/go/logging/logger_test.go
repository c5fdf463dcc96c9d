package logging

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger(t *testing.T) {
	t.Parallel()

	t.Run("defaults to json at info", func(t *testing.T) {
		t.Parallel()

		logger, err := NewLogger(Config{Component: "api-server"})
		require.NoError(t, err)
		require.NotNil(t, logger)
		require.False(t, logger.Core().Enabled(zapcore.DebugLevel))
		require.True(t, logger.Core().Enabled(zapcore.InfoLevel))
	})

	t.Run("console format", func(t *testing.T) {
		t.Parallel()

		logger, err := NewLogger(Config{Level: "debug", Format: "console"})
		require.NoError(t, err)
		require.True(t, logger.Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("rejects unknown level", func(t *testing.T) {
		t.Parallel()

		_, err := NewLogger(Config{Level: "loud"})
		require.Error(t, err)
	})

	t.Run("rejects unknown format", func(t *testing.T) {
		t.Parallel()

		_, err := NewLogger(Config{Format: "xml"})
		require.Error(t, err)
	})
}

func TestSeverityFieldNames(t *testing.T) {
	t.Parallel()

	enc := zapcore.NewJSONEncoder(cloudEncoderConfig())

	entry := zapcore.Entry{
		Level:   zapcore.WarnLevel,
		Time:    time.Now(),
		Message: "disk almost full",
	}
	buf, err := enc.EncodeEntry(entry, nil)
	require.NoError(t, err)
	require.Contains(t, buf.String(), `"severity":"WARNING"`)
	require.Contains(t, buf.String(), `"message":"disk almost full"`)

	entry.Level = zapcore.FatalLevel
	buf, err = enc.EncodeEntry(entry, nil)
	require.NoError(t, err)
	require.Contains(t, buf.String(), `"severity":"CRITICAL"`)
}
