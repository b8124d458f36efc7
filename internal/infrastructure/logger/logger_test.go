package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"INFO", zapcore.InfoLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"bogus", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLevel(tt.in))
		})
	}
}

func TestNew_TeesExtraCores(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)

	l := New(Options{Level: "info", Format: "json", Output: "stderr"}, core, nil)
	l.Info("hello", zap.String("k", "v"))

	require.Len(t, recorded.All(), 1)
	assert.Equal(t, "hello", recorded.All()[0].Message)
	assert.Equal(t, "v", recorded.All()[0].ContextMap()["k"])
}

func TestNew_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")

	l := New(Options{Level: "info", Format: "json", Output: path})
	l.Info("written")
	require.NoError(t, l.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"written"`)
}

func TestForEnvironment(t *testing.T) {
	assert.NotNil(t, ForEnvironment("production", "info"))
	assert.NotNil(t, ForEnvironment("development", "debug"))
}
