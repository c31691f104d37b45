// Package logging holds the process-wide logger used by models and trainers.
//
// Models log at debug level from their hot paths, so call sites guard
// expensive arguments with Enabled. The default logger discards everything.
package logging

import (
	"context"
	"log/slog"
	"sync/atomic"
)

var current atomic.Pointer[slog.Logger]

func init() {
	current.Store(slog.New(slog.DiscardHandler))
}

// Logger returns the current logger.
func Logger() *slog.Logger {
	return current.Load()
}

// SetLogger replaces the current logger. A nil logger restores the discarding default.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	current.Store(l)
}

// Enabled reports whether debug records would be emitted.
func Enabled() bool {
	return Logger().Enabled(context.Background(), slog.LevelDebug)
}

// Debug logs at debug level.
func Debug(msg string, args ...any) {
	Logger().Debug(msg, args...)
}

// Warn logs at warn level.
func Warn(msg string, args ...any) {
	Logger().Warn(msg, args...)
}
