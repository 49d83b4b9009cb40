package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevel(t *testing.T) {
	var testCases = []struct {
		input  string
		expect slog.Level
	}{
		{input: "debug", expect: slog.LevelDebug},
		{input: "WARN", expect: slog.LevelWarn},
		{input: "error", expect: slog.LevelError},
		{input: "info", expect: slog.LevelInfo},
		{input: "verbose", expect: slog.LevelInfo},
	}
	for _, testCase := range testCases {
		assert.Equal(t, testCase.expect, Level(testCase.input), testCase.input)
	}
}

func TestNew(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := New("info", buf)
	logger.Debug("hidden")
	logger.Info("emitted module", "path", "src/Main.rs")

	assert.NotContains(t, buf.String(), "hidden")
	assert.NotContains(t, buf.String(), "time=")
	assert.Equal(t, "level=INFO msg=\"emitted module\" path=src/Main.rs\n", buf.String())
}
