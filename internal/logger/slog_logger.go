package logger

import (
	"io"
	"log/slog"
	"time"
)

// NewSlogLogger returns a standalone Logger writing JSON to w.
// A nil writer discards output. Intended for tests and for components used
// before the central logger exists.
func NewSlogLogger(w io.Writer, level LogLevel, tz *time.Location) Logger {
	if w == nil {
		w = io.Discard
	}
	slogLevel := parseSlogLevel(level)
	return &moduleLogger{
		logger:   slog.New(newJSONHandler(w, slogLevel, tz)),
		level:    slogLevel,
		timezone: tz,
	}
}
