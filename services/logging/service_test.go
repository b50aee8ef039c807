package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewService(t *testing.T) {
	t.Run("json format", func(t *testing.T) {
		svc, err := NewService(Config{Level: Info, Format: "json", OutputPath: "stdout"})

		require.NoError(t, err)
		assert.NotNil(t, svc)
		assert.NotNil(t, svc.Logger())
	})

	t.Run("console format", func(t *testing.T) {
		svc, err := NewService(Config{Level: Debug, Format: "console", OutputPath: "stdout"})

		require.NoError(t, err)
		assert.NotNil(t, svc)
	})
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		level    LogLevel
		expected zapcore.Level
	}{
		{Debug, zapcore.DebugLevel},
		{Info, zapcore.InfoLevel},
		{Warn, zapcore.WarnLevel},
		{Error, zapcore.ErrorLevel},
		{LogLevel("unknown"), zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(string(tt.level), func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLogLevel(tt.level))
		})
	}
}

func TestNilService(t *testing.T) {
	var svc *Service

	assert.Nil(t, svc.Logger())
	assert.NoError(t, svc.Sync())

	// Must not panic when the service is absent.
	svc.Debug("debug")
	svc.Info("info")
	svc.Warn("warn")
	svc.Error("error")
}
