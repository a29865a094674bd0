package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug": zapcore.DebugLevel, " WARN ": zapcore.WarnLevel,
		"error": zapcore.ErrorLevel, "": zapcore.InfoLevel, "loud": zapcore.InfoLevel,
	}
	for in, want := range cases {
		assert.Equal(t, want, parseLevel(in), in)
	}
}

func TestInitFromEnv(t *testing.T) {
	prev := L()
	t.Cleanup(func() { Set(prev) })

	t.Setenv("QUIRK_LOG_LEVEL", "error")
	t.Setenv("QUIRK_LOG_JSON", "true")
	InitFromEnv()
	assert.False(t, L().Core().Enabled(zapcore.WarnLevel))
	assert.True(t, L().Core().Enabled(zapcore.ErrorLevel))
}

func TestSet(t *testing.T) {
	prev := L()
	t.Cleanup(func() { Set(prev) })

	nop := zap.NewNop()
	Set(nop)
	assert.Same(t, nop, L())
	Set(nil)
	assert.NotNil(t, L())
}
