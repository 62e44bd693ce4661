package logger

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestToStdLoggerForwardsLines(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	std := ToStdLogger(zap.New(core), zapcore.WarnLevel)

	std.Printf("slow query %d ms\n", 250)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.WarnLevel, entry.Level)
	assert.Equal(t, "slow query 250 ms", entry.Message)
}

func TestNewWithRotate(t *testing.T) {
	file := filepath.Join(t.TempDir(), "app.log")
	l, cleanup := New("debug", true, FileRotate{Enable: true, Filename: file, MaxSizeMB: 1})
	l.Info("hello")
	cleanup()
	assert.FileExists(t, file)
}
