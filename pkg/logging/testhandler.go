package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

// TestHandler is a slog.Handler that writes each record through
// testing.TB.Logf, so output is attributed to the test that produced it.
type TestHandler struct {
	t     testing.TB
	level slog.Leveler

	mu    *sync.Mutex
	buf   *bytes.Buffer
	inner slog.Handler
}

// NewTestHandler creates a handler logging to t at the given minimum level.
func NewTestHandler(t testing.TB, level slog.Leveler) *TestHandler {
	buf := &bytes.Buffer{}
	return &TestHandler{
		t:     t,
		level: level,
		mu:    &sync.Mutex{},
		buf:   buf,
		inner: slog.NewTextHandler(buf, &slog.HandlerOptions{
			Level: level,
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				// The test log already carries timing.
				if len(groups) == 0 && a.Key == slog.TimeKey {
					return slog.Attr{}
				}
				return a
			},
		}),
	}
}

// Enabled reports whether the level is at or above the handler's minimum.
func (h *TestHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle formats the record and logs it through the test.
func (h *TestHandler) Handle(ctx context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.buf.Reset()
	if err := h.inner.Handle(ctx, r); err != nil {
		return err
	}
	h.t.Helper()
	h.t.Logf("%s", strings.TrimRight(h.buf.String(), "\n"))
	return nil
}

// WithAttrs returns a handler that adds attrs to every record.
func (h *TestHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.inner = h.inner.WithAttrs(attrs)
	return &clone
}

// WithGroup returns a handler that nests subsequent attrs under name.
func (h *TestHandler) WithGroup(name string) slog.Handler {
	clone := *h
	clone.inner = h.inner.WithGroup(name)
	return &clone
}
