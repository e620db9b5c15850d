package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/divyamsharma12/Campus-Record-Manager/pkg/config"
)

func TestNewHonoursLevel(t *testing.T) {
	cfg := config.Default()
	cfg.Log.Level = "warn"

	l, err := New(cfg)
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, l.Core().Enabled(zapcore.WarnLevel))
}

func TestNewFallsBackToInfo(t *testing.T) {
	cfg := config.Default()
	cfg.Env = config.EnvProduction
	cfg.Log.Format = "json"
	cfg.Log.Level = "loud"

	l, err := New(cfg)
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
}
