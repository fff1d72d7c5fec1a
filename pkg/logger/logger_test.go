package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNew_LevelFollowsEnv(t *testing.T) {
	prod, err := New("production")
	require.NoError(t, err)
	assert.False(t, prod.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, prod.Core().Enabled(zapcore.InfoLevel))

	dev, err := New("development")
	require.NoError(t, err)
	assert.True(t, dev.Core().Enabled(zapcore.DebugLevel))
}

func TestMust_PanicsOnError(t *testing.T) {
	assert.Panics(t, func() { Must(nil, errors.New("boom")) })
	assert.NotPanics(t, func() { Must(zap.NewNop(), nil) })
}

func TestNamed_NilBase(t *testing.T) {
	l := Named(nil, "yard")
	require.NotNil(t, l)
	l.Info("discarded")
}
