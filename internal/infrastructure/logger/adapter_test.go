package logger

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggerAdapter_FieldsAreAttached(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewFromZap(zap.New(core))

	log.WithField("run_id", "r1").
		WithFields(map[string]any{"provider": "openai"}).
		Info("Run started", "max_steps", 5)

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		ctx := entries[0].ContextMap()
		assert.Equal(t, "Run started", entries[0].Message)
		assert.Equal(t, "r1", ctx["run_id"])
		assert.Equal(t, "openai", ctx["provider"])
		assert.EqualValues(t, 5, ctx["max_steps"])
	}
}

func TestLoggerAdapter_Levels(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	log := NewFromZap(zap.New(core))

	log.Debug("hidden")
	log.Info("hidden")
	log.Warn("shown")
	log.Error("shown", "error", "boom")

	assert.Equal(t, 2, logs.Len())
}

func TestNewLoggerAdapter_WritesFile(t *testing.T) {
	dir := t.TempDir()
	log, err := NewLoggerAdapter(Config{Level: "debug", Dir: dir, Name: "test run"})
	if err != nil {
		t.Fatalf("NewLoggerAdapter failed: %v", err)
	}
	log.Info("hello")
	assert.NoError(t, log.Close())
	assert.NotNil(t, log.file)
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "test_run", sanitize("test run"))
	assert.Equal(t, "run", sanitize("///"))
	assert.Len(t, sanitize(strings.Repeat("a", 100)), 60)
}
