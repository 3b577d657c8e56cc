package testutil

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"testing"
)

// Entry is one captured log record with its attributes flattened to strings.
type Entry struct {
	Level   slog.Level
	Message string
	Attrs   map[string]string
}

// String renders the entry as "message key=value ..." with sorted keys.
func (e Entry) String() string {
	keys := make([]string, 0, len(e.Attrs))
	for k := range e.Attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	b.WriteString(e.Message)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%s", k, e.Attrs[k])
	}
	return b.String()
}

// Recorder holds the entries captured by a logger from NewCaptureLogger.
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
}

// NewCaptureLogger returns a logger that records every entry and also
// writes it to t.Log().
func NewCaptureLogger(t testing.TB) (*slog.Logger, *Recorder) {
	t.Helper()
	rec := &Recorder{}
	return slog.New(&captureHandler{rec: rec, next: newTestHandler(t)}), rec
}

// Entries returns every captured entry.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Entry(nil), r.entries...)
}

// Warnings returns entries at warn level.
func (r *Recorder) Warnings() []Entry {
	var out []Entry
	for _, e := range r.Entries() {
		if e.Level == slog.LevelWarn {
			out = append(out, e)
		}
	}
	return out
}

// WarningsMentioning returns warnings whose rendered text contains s.
func (r *Recorder) WarningsMentioning(s string) []Entry {
	var out []Entry
	for _, e := range r.Warnings() {
		if strings.Contains(e.String(), s) {
			out = append(out, e)
		}
	}
	return out
}

// WarningsAt returns warnings whose path attribute equals path.
func (r *Recorder) WarningsAt(path string) []Entry {
	var out []Entry
	for _, e := range r.Warnings() {
		if e.Attrs["path"] == path {
			out = append(out, e)
		}
	}
	return out
}

// Reset drops every captured entry.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = nil
}

type captureHandler struct {
	rec   *Recorder
	next  slog.Handler
	attrs []slog.Attr
}

func (h *captureHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *captureHandler) Handle(ctx context.Context, r slog.Record) error {
	e := Entry{Level: r.Level, Message: r.Message, Attrs: make(map[string]string)}
	for _, a := range h.attrs {
		e.Attrs[a.Key] = a.Value.String()
	}
	r.Attrs(func(a slog.Attr) bool {
		e.Attrs[a.Key] = a.Value.String()
		return true
	})
	h.rec.mu.Lock()
	h.rec.entries = append(h.rec.entries, e)
	h.rec.mu.Unlock()
	return h.next.Handle(ctx, r)
}

func (h *captureHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &captureHandler{
		rec:   h.rec,
		next:  h.next.WithAttrs(attrs),
		attrs: append(append([]slog.Attr(nil), h.attrs...), attrs...),
	}
}

// WithGroup is not flattened; grouped attrs are captured by their own key.
func (h *captureHandler) WithGroup(name string) slog.Handler {
	return &captureHandler{rec: h.rec, next: h.next.WithGroup(name), attrs: h.attrs}
}
