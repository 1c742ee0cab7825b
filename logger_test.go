package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLogger(t *testing.T) {
	for _, format := range []string{"console", "json"} {
		log, err := NewLogger(LogConfig{Level: "debug", Format: format}, "run-1")
		require.NoError(t, err)
		assert.True(t, log.Core().Enabled(zapcore.DebugLevel))
	}

	_, err := NewLogger(LogConfig{Level: "loud", Format: "console"}, "run-1")
	require.Error(t, err)
	assert.True(t, IsKind(err, ErrKindConfig))
}

func TestLogFailure_CarriesContext(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := zap.New(core)

	logFailure(log, "report failed", lookupError("Category", "Children"))
	logSuccess(log, "chart saved", zap.String("report", "r"))
	logFailure(log, "plain", errors.New("boom"))

	entries := logs.AllUntimed()
	require.Len(t, entries, 3)

	first := entries[0].ContextMap()
	assert.Equal(t, "✗ report failed", entries[0].Message)
	assert.Equal(t, "LOOKUP", first["kind"])
	assert.Equal(t, "Children", first["label"])

	assert.Equal(t, "✓ chart saved", entries[1].Message)
	assert.NotContains(t, entries[2].ContextMap(), "kind")
}
