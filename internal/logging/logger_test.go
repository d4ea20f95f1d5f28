package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := parseLevel(tt.in); got != tt.want {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "info", "json")

	logger.Debug("hidden")
	logger.Info("file loaded", "file", "price_1.csv", "admitted", 3)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1 (debug should be filtered): %q", len(lines), buf.String())
	}

	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if rec["msg"] != "file loaded" || rec["file"] != "price_1.csv" {
		t.Errorf("unexpected record: %v", rec)
	}
}

func TestNew_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, "debug", "text").Debug("row skipped", "line", 4)

	out := buf.String()
	if !strings.Contains(out, "level=DEBUG") || !strings.Contains(out, "line=4") {
		t.Errorf("unexpected text output: %q", out)
	}
}

func TestSetup_File(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	path := filepath.Join(t.TempDir(), "project.log")
	logger, closer, err := Setup("debug", "text", path)
	if err != nil {
		t.Fatalf("Setup() error = %v", err)
	}

	logger.Info("catalog published", "entries", 2)
	if err := closer.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.Contains(string(data), "catalog published") {
		t.Errorf("log file missing record: %q", data)
	}
}

func TestSetup_BadPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "project.log")
	if _, _, err := Setup("info", "text", path); err == nil {
		t.Error("Setup() expected error for unwritable path")
	}
}

func TestFromContext_RequestID(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	slog.SetDefault(New(&buf, "info", "text"))

	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "req-42")
	WithFields(ctx, "dir", "Prices").Info("reload requested")

	out := buf.String()
	if !strings.Contains(out, "request_id=req-42") || !strings.Contains(out, "dir=Prices") {
		t.Errorf("unexpected output: %q", out)
	}
}
