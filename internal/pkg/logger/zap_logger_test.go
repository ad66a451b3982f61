package logger

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggerFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := NewFromCore(core)

	l.Info("Lambda", "citations extracted", map[string]interface{}{"count": 3})
	l.Error("SessionStore", "save failed", map[string]interface{}{"error": "denied"})
	l.Debug("Lambda", "no details", nil)

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, "citations extracted", entries[0].Message)
	assert.Equal(t, "Lambda", entries[0].ContextMap()["module"])
	assert.Equal(t, map[string]interface{}{"count": 3}, entries[0].ContextMap()["details"])
	assert.Equal(t, "denied", entries[1].ContextMap()["error_ref"])
	assert.Equal(t, map[string]interface{}{}, entries[2].ContextMap()["details"])
}

func TestNewZapLoggerWithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	l := NewZapLogger(path, true)
	l.Info("Test", "hello", nil)
	_ = l.Sync()
	assert.FileExists(t, path)

	NewNopLogger().Warn("Test", "dropped", nil)
}
