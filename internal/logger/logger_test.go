package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"INFO":    zapcore.InfoLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"bogus":   zapcore.InfoLevel,
		"":        zapcore.InfoLevel,
	}
	for in, want := range cases {
		assert.Equal(t, want, parseLevel(in), "parseLevel(%q)", in)
	}
}

func TestNew_BuildsLogger(t *testing.T) {
	l, err := New("debug")
	require.NoError(t, err)
	child := l.With(String("component", "test"))
	assert.NotNil(t, child)
	child.Debug("hello", Int("n", 1), Bool("ok", true))
}

func TestNop_WithReturnsUsableLogger(t *testing.T) {
	l := NewNop().With(String("k", "v"))
	l.Info("ignored")
	assert.NoError(t, l.Sync())
}
