package config

import (
	"io"
	"log/slog"
)

// NewLogger returns a text logger writing to w. Only warnings and errors are
// emitted unless debug is set, so normal runs add nothing to the wrapped
// binary's output.
func NewLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
