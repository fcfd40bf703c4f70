package asyncrt

import (
	"log/slog"
	"os"

	"github.com/joeycumines/logiface"
	islog "github.com/joeycumines/logiface-slog"
)

// Logger is the structured logging sink used for runtime diagnostics:
// reactor poll failures, worker-task and callback panics, HTTPGet dial
// failures, and shutdown errors. Fields are attached as loosely-typed key/value pairs and
// left to the underlying handler to encode.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, err error, fields ...Field)
}

// Field is a single structured logging attribute.
type Field struct {
	Key   string
	Value any
}

// F constructs a Field.
func F(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// NewJSONLogger returns a Logger that writes newline-delimited JSON to
// w, built on logiface's slog adapter.
func NewJSONLogger(w *os.File) Logger {
	return &logifaceLogger{
		l: islog.L.New(islog.L.WithSlogHandler(slog.NewJSONHandler(w, nil))),
	}
}

// NewTextLogger returns a Logger that writes human-readable lines to w.
func NewTextLogger(w *os.File) Logger {
	return &logifaceLogger{
		l: islog.L.New(islog.L.WithSlogHandler(slog.NewTextHandler(w, nil))),
	}
}

type logifaceLogger struct {
	l *logiface.Logger[*islog.Event]
}

func (g *logifaceLogger) Debug(msg string, fields ...Field) {
	apply(g.l.Debug(), fields).Log(msg)
}

func (g *logifaceLogger) Info(msg string, fields ...Field) {
	apply(g.l.Info(), fields).Log(msg)
}

func (g *logifaceLogger) Warn(msg string, fields ...Field) {
	apply(g.l.Warning(), fields).Log(msg)
}

func (g *logifaceLogger) Error(msg string, err error, fields ...Field) {
	b := apply(g.l.Err(), fields)
	if err != nil {
		b = b.Err(err)
	}
	b.Log(msg)
}

func apply(b *logiface.Builder[*islog.Event], fields []Field) *logiface.Builder[*islog.Event] {
	for _, f := range fields {
		b = b.Any(f.Key, f.Value)
	}
	return b
}

// noopLogger discards everything; it is the default when no Logger is
// configured via WithLogger.
type noopLogger struct{}

func (noopLogger) Debug(string, ...Field)        {}
func (noopLogger) Info(string, ...Field)         {}
func (noopLogger) Warn(string, ...Field)         {}
func (noopLogger) Error(string, error, ...Field) {}
