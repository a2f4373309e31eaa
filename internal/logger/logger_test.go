package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewReplacesGlobals(t *testing.T) {
	log, err := New("production", "warn")
	require.NoError(t, err)
	assert.Same(t, log, zap.L())
	assert.False(t, log.Core().Enabled(zap.InfoLevel))
	assert.True(t, log.Core().Enabled(zap.WarnLevel))
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New("development", "loud")
	assert.Error(t, err)
}

func TestMaskAuthorization(t *testing.T) {
	assert.Equal(t, "Bearer ****1234", MaskAuthorization("Bearer abcdef1234"))
	assert.Equal(t, "****abc", MaskAuthorization("abc"))
	assert.Equal(t, "", MaskAuthorization("  "))
}

func TestMaskPhone(t *testing.T) {
	assert.Equal(t, "****4530", MaskPhone("8759114530"))
}
