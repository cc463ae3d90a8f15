// Package logger provides the small logging interface shared by the
// client's layers (session transport, discovery, supervisor). Each layer
// takes a Logger via a WithLogger functional option and falls back to
// Nop() when none is given; NewLogger builds a zerolog-backed Logger
// scoped to a category.
package logger

import (
	"os"

	"github.com/rs/zerolog"
)

// Logger is implemented by anything that can log at four levels. A category
// is attached at construction time and carried on every line.
type Logger interface {
	Debug(format string, v ...any)
	Info(format string, v ...any)
	Warn(format string, v ...any)
	Error(format string, v ...any)
}

// zlogLogger implements Logger on top of zerolog, tagging every event with
// the category it was constructed for (e.g. "session", "discovery").
type zlogLogger struct {
	category string
	zl       zerolog.Logger
}

// NewLogger returns the default Logger, a zerolog console writer scoped to
// category. Passing an empty category omits the component field.
func NewLogger(category string) Logger {
	zl := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).With().Timestamp().Logger()
	if category != "" {
		zl = zl.With().Str("component", category).Logger()
	}
	return &zlogLogger{category: category, zl: zl}
}

// NewLoggerFrom wraps an existing zerolog.Logger, scoping it to category.
// Useful when an application wants every gocomfoconnect log line to flow
// through its own already-configured zerolog sink.
func NewLoggerFrom(zl zerolog.Logger, category string) Logger {
	if category != "" {
		zl = zl.With().Str("component", category).Logger()
	}
	return &zlogLogger{category: category, zl: zl}
}

func (l *zlogLogger) Debug(format string, v ...any) { l.zl.Debug().Msgf(format, v...) }
func (l *zlogLogger) Info(format string, v ...any)  { l.zl.Info().Msgf(format, v...) }
func (l *zlogLogger) Warn(format string, v ...any)  { l.zl.Warn().Msgf(format, v...) }
func (l *zlogLogger) Error(format string, v ...any) { l.zl.Error().Msgf(format, v...) }

// Nop returns a Logger that discards everything, for callers that never
// pass WithLogger and don't want console noise (e.g. unit tests).
func Nop() Logger { return nopLogger{} }

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}
