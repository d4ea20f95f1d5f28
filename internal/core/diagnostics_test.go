package core

import (
	"bytes"
	"log/slog"
	"math"
	"strings"
	"sync"
	"testing"
)

// event is one diagnostic captured by recorder.
type event struct {
	level slog.Level
	msg   string
	args  []any
}

// attr returns the value logged under key, or nil.
func (e event) attr(key string) any {
	for i := 0; i+1 < len(e.args); i += 2 {
		if k, ok := e.args[i].(string); ok && k == key {
			return e.args[i+1]
		}
	}
	return nil
}

// recorder is an in-memory Diagnostics used by tests.
type recorder struct {
	mu     sync.Mutex
	events []event
}

func (r *recorder) record(level slog.Level, msg string, args []any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event{level: level, msg: msg, args: args})
}

func (r *recorder) Debug(msg string, args ...any) { r.record(slog.LevelDebug, msg, args) }
func (r *recorder) Info(msg string, args ...any)  { r.record(slog.LevelInfo, msg, args) }
func (r *recorder) Warn(msg string, args ...any)  { r.record(slog.LevelWarn, msg, args) }
func (r *recorder) Error(msg string, args ...any) { r.record(slog.LevelError, msg, args) }

// at returns the events logged at level.
func (r *recorder) at(level slog.Level) []event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []event
	for _, e := range r.events {
		if e.level == level {
			out = append(out, e)
		}
	}
	return out
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) <= 1e-12
}

func TestSlogLoggerIsDiagnostics(t *testing.T) {
	var buf bytes.Buffer
	var d Diagnostics = slog.New(slog.NewTextHandler(&buf, nil))

	d.Warn("row skipped", "file", "price_1.csv", "line", 3)

	out := buf.String()
	if !strings.Contains(out, "level=WARN") || !strings.Contains(out, "file=price_1.csv") {
		t.Errorf("unexpected log output: %q", out)
	}
}

func TestOrDiscard(t *testing.T) {
	if orDiscard(nil) == nil {
		t.Fatal("orDiscard(nil) returned nil")
	}

	rec := &recorder{}
	if orDiscard(rec) != Diagnostics(rec) {
		t.Error("orDiscard should return a non-nil sink unchanged")
	}

	// The discard sink must accept calls without panicking.
	orDiscard(nil).Error("ignored", "k", "v")
}
