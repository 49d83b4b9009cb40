package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

const (
	DEBUG = "DEBUG"
	INFO  = "INFO"
	WARN  = "WARN"
	ERROR = "ERROR"
)

// Level maps a level name to its slog level; unknown names select info.
func Level(level string) slog.Level {
	switch strings.ToUpper(level) {
	case DEBUG:
		return slog.LevelDebug
	case WARN:
		return slog.LevelWarn
	case ERROR:
		return slog.LevelError
	}
	return slog.LevelInfo
}

// New creates a text logger writing to dest (stderr when nil). Records carry
// no timestamp so command output stays reproducible.
func New(level string, dest io.Writer) *slog.Logger {
	if dest == nil {
		dest = os.Stderr
	}
	handler := slog.NewTextHandler(dest, &slog.HandlerOptions{
		Level: Level(level),
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && len(groups) == 0 {
				return slog.Attr{}
			}
			return a
		},
	})
	return slog.New(handler)
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}
