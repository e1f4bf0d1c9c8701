package common

import (
	"bytes"
	"testing"
	"time"

	"github.com/lni/dragonboat/v4/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerFormatAndLevel(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger("avldb", &buf)

	l.Debugf("hidden %d", 1)
	assert.Empty(t, buf.String())

	l.Infof("loaded %d entries", 3)
	assert.Contains(t, buf.String(), "INFO  | avldb           | loaded 3 entries")

	buf.Reset()
	l.SetLevel(logger.ERROR)
	l.Warningf("hidden")
	assert.Empty(t, buf.String())
	l.Errorf("broken")
	assert.Contains(t, buf.String(), "ERROR | avldb           | broken")

	assert.Panics(t, func() { l.Panicf("boom") })
}

func TestParseLogLevel(t *testing.T) {
	testCases := []struct {
		input    string
		expected logger.LogLevel
	}{
		{"debug", logger.DEBUG},
		{"INFO", logger.INFO},
		{"warn", logger.WARNING},
		{"warning", logger.WARNING},
		{"error", logger.ERROR},
	}
	for _, tc := range testCases {
		level, err := ParseLogLevel(tc.input)
		require.NoError(t, err, tc.input)
		assert.Equal(t, tc.expected, level, tc.input)
	}

	_, err := ParseLogLevel("verbose")
	assert.Error(t, err)
	assert.Error(t, InitLoggers(&Config{LogLevel: "verbose"}))
}

func TestConfigString(t *testing.T) {
	conf := &Config{File: "data.db", GCInterval: 100 * time.Millisecond, LogLevel: "info"}
	out := conf.String()

	assert.Contains(t, out, "STORAGE")
	assert.Contains(t, out, "data.db")
	assert.Contains(t, out, "auto")
	assert.Contains(t, out, "100ms")
}
