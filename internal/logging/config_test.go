package logging

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		raw  string
		want zerolog.Level
		ok   bool
	}{
		{"", zerolog.WarnLevel, false},
		{"trace", zerolog.TraceLevel, true},
		{" DEBUG ", zerolog.DebugLevel, true},
		{"info", zerolog.InfoLevel, true},
		{"warning", zerolog.WarnLevel, true},
		{"error", zerolog.ErrorLevel, true},
		{"off", zerolog.Disabled, true},
		{"loud", zerolog.WarnLevel, false},
	}
	for _, tt := range tests {
		lvl, ok := parseLevel(tt.raw)
		assert.Equal(t, tt.want, lvl, tt.raw)
		assert.Equal(t, tt.ok, ok, tt.raw)
	}
}

func TestParseBool(t *testing.T) {
	v, ok := parseBool("true")
	assert.True(t, v)
	assert.True(t, ok)
	_, ok = parseBool("")
	assert.False(t, ok)
	_, ok = parseBool("maybe")
	assert.False(t, ok)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvLogLevel, "error")
	t.Setenv(EnvLogTimestamp, "false")
	t.Setenv(EnvLogNoColor, "1")

	cfg := defaultConfig(ProfileRuntime)
	assert.Equal(t, zerolog.WarnLevel, cfg.Level)
	assert.True(t, cfg.Timestamp)

	applyEnvOverrides(&cfg)
	assert.Equal(t, zerolog.ErrorLevel, cfg.Level)
	assert.False(t, cfg.Timestamp)
	assert.True(t, cfg.NoColor)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := defaultConfig(ProfileTest)
	cfg.Out = &buf

	logger := newLogger(cfg)
	logger.Info().Str("unit", "main.c").Msg("parsed")
	assert.Contains(t, buf.String(), "parsed")
	assert.Contains(t, buf.String(), "unit=main.c")
}

func TestSetLevel(t *testing.T) {
	prev := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(prev) })

	require.NoError(t, SetLevel("debug"))
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
	require.NoError(t, SetLevel(""))
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
	assert.Error(t, SetLevel("loud"))
}
