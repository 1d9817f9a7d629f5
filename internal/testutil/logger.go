// Package testutil provides logging helpers shared by package tests.
package testutil

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

// LoggerOption configures a test logger.
type LoggerOption func(*slog.HandlerOptions)

// WithLevel sets the minimum level written. The default is debug.
func WithLevel(level slog.Level) LoggerOption {
	return func(o *slog.HandlerOptions) {
		o.Level = level
	}
}

func handlerOptions(opts []LoggerOption) *slog.HandlerOptions {
	o := &slog.HandlerOptions{Level: slog.LevelDebug}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// NewTestLogger returns a logger that writes each record through t.Log,
// tagged with the test name. Records only show on failure or with -v.
func NewTestLogger(t testing.TB, opts ...LoggerOption) *slog.Logger {
	t.Helper()
	h := slog.NewTextHandler(tbWriter{t}, handlerOptions(opts))
	return slog.New(h).With("test", t.Name())
}

type tbWriter struct {
	tb testing.TB
}

func (w tbWriter) Write(p []byte) (int, error) {
	w.tb.Helper()
	w.tb.Log(strings.TrimSuffix(string(p), "\n"))
	return len(p), nil
}

// LogBuffer collects records written by a capturing logger. It is safe for
// concurrent use.
type LogBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *LogBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

// String returns everything logged so far.
func (b *LogBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// Lines returns the records logged so far, one per element.
func (b *LogBuffer) Lines() []string {
	s := strings.TrimSuffix(b.String(), "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

// CaptureLogger returns a logger whose records are kept in the returned
// buffer for assertions and are also written through t.Log.
func CaptureLogger(t testing.TB, opts ...LoggerOption) (*slog.Logger, *LogBuffer) {
	t.Helper()
	ho := handlerOptions(opts)
	buf := &LogBuffer{}
	captured := slog.NewTextHandler(buf, ho)
	logged := slog.NewTextHandler(tbWriter{t}, ho)
	return slog.New(teeHandler{captured, logged}), buf
}

// teeHandler sends every record to both handlers.
type teeHandler struct {
	a, b slog.Handler
}

func (h teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.a.Enabled(ctx, level) || h.b.Enabled(ctx, level)
}

func (h teeHandler) Handle(ctx context.Context, r slog.Record) error {
	if err := h.a.Handle(ctx, r.Clone()); err != nil {
		return err
	}
	return h.b.Handle(ctx, r)
}

func (h teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return teeHandler{h.a.WithAttrs(attrs), h.b.WithAttrs(attrs)}
}

func (h teeHandler) WithGroup(name string) slog.Handler {
	return teeHandler{h.a.WithGroup(name), h.b.WithGroup(name)}
}
