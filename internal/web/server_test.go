package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/JonMunkholm/pricelist/internal/config"
	"github.com/JonMunkholm/pricelist/internal/core"
)

func testServerConfig() config.ServerConfig {
	return config.ServerConfig{Host: "127.0.0.1", Port: 8080, RequestTimeout: 5 * time.Second}
}

func newTestServer(t *testing.T, files map[string]string, sec config.SecurityConfig) (*Server, *core.Service, string) {
	t.Helper()

	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	svc := core.NewService(dir, core.DefaultOptions(), nil, nil)
	if _, err := svc.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	s := NewServer(svc, testServerConfig(), sec)
	t.Cleanup(func() { s.Shutdown(context.Background()) })
	return s, svc, dir
}

func do(t *testing.T, s *Server, method, target string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

var fruitFiles = map[string]string{
	"price_1.csv": "name;price;weight\nApple;100;2\nBanana;150;3\nGreen apple;30;1\n",
}

func TestHandleSearch(t *testing.T) {
	s, _, _ := newTestServer(t, fruitFiles, config.SecurityConfig{})

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{name: "word match sorted by unit price", query: "apple", want: []string{"Green apple", "Apple"}},
		{name: "case and spaces ignored", query: "%20BANANA%20", want: []string{"Banana"}},
		{name: "no match", query: "zzzz", want: []string{}},
		{name: "empty query lists everything", query: "", want: []string{"Green apple", "Apple", "Banana"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodGet, "/api/search?q="+tt.query, nil)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", rec.Code)
			}

			resp := decode[EntriesResponse](t, rec)
			if resp.Items == nil {
				t.Fatal("items must be an array, not null")
			}
			if resp.Count != len(tt.want) || len(resp.Items) != len(tt.want) {
				t.Fatalf("count = %d, items = %v, want %v", resp.Count, resp.Items, tt.want)
			}
			for i, name := range tt.want {
				if resp.Items[i].Name != name {
					t.Errorf("items[%d] = %q, want %q", i, resp.Items[i].Name, name)
				}
			}
		})
	}
}

func TestHandleSearch_PricePerUnit(t *testing.T) {
	s, _, _ := newTestServer(t, fruitFiles, config.SecurityConfig{})

	resp := decode[EntriesResponse](t, do(t, s, http.MethodGet, "/api/search?q=banana", nil))
	if len(resp.Items) != 1 {
		t.Fatalf("items = %v", resp.Items)
	}
	got := resp.Items[0]
	if got.PricePerUnit != 50 || got.SourceFile != "price_1.csv" || got.Weight != 3 {
		t.Errorf("item = %+v", got)
	}
}

func TestHandleEntries(t *testing.T) {
	s, _, _ := newTestServer(t, fruitFiles, config.SecurityConfig{})

	resp := decode[EntriesResponse](t, do(t, s, http.MethodGet, "/api/entries", nil))
	if resp.Count != 3 || resp.Items[0].Name != "Apple" || resp.Items[2].Name != "Green apple" {
		t.Errorf("entries = %+v, want catalog order", resp)
	}
}

func TestHandleHealth(t *testing.T) {
	s, _, _ := newTestServer(t, fruitFiles, config.SecurityConfig{})

	rec := do(t, s, http.MethodGet, "/api/health", nil)
	resp := decode[HealthResponse](t, rec)

	if resp.Status != "ok" || resp.Entries != 3 {
		t.Errorf("health = %+v", resp)
	}
	if resp.Load.Active != 0 || resp.Load.MaxConcurrent != 1 {
		t.Errorf("load status = %+v", resp.Load)
	}
	if resp.LastLoad == nil || resp.LastLoad.Admitted != 3 || resp.LastLoad.RunID == "" {
		t.Errorf("last load = %+v", resp.LastLoad)
	}
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("security headers missing")
	}
}

func TestHandleLastLoad_NotLoaded(t *testing.T) {
	svc := core.NewService(t.TempDir(), core.DefaultOptions(), nil, nil)
	s := NewServer(svc, testServerConfig(), config.SecurityConfig{})

	rec := do(t, s, http.MethodGet, "/api/load", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if resp := decode[ErrorResponse](t, rec); resp.Code != "CAT003" {
		t.Errorf("code = %q, want CAT003", resp.Code)
	}
}

func TestHandleReload(t *testing.T) {
	s, svc, dir := newTestServer(t, fruitFiles, config.SecurityConfig{})

	extra := "name;price;weight\nCherry;500;0.5\nPear;90;0\n"
	if err := os.WriteFile(filepath.Join(dir, "price_2.csv"), []byte(extra), 0o644); err != nil {
		t.Fatal(err)
	}

	rec := do(t, s, http.MethodPost, "/api/reload", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}

	resp := decode[LoadSummary](t, rec)
	if resp.Admitted != 4 || resp.Skipped != 1 || len(resp.Files) != 2 {
		t.Errorf("summary = %+v", resp)
	}
	if svc.Len() != 4 {
		t.Errorf("Len() = %d, want 4", svc.Len())
	}
}

func TestHandleReload_MissingDir(t *testing.T) {
	s, _, dir := newTestServer(t, fruitFiles, config.SecurityConfig{})
	if err := os.RemoveAll(dir); err != nil {
		t.Fatal(err)
	}

	rec := do(t, s, http.MethodPost, "/api/reload", nil)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if resp := decode[ErrorResponse](t, rec); resp.Code != "FILE003" {
		t.Errorf("code = %q, want FILE003", resp.Code)
	}

	health := decode[HealthResponse](t, do(t, s, http.MethodGet, "/api/health", nil))
	if health.Entries != 3 {
		t.Errorf("entries = %d, previous catalog should stay", health.Entries)
	}
}

func TestHandleReload_RequiresAPIKey(t *testing.T) {
	sec := config.SecurityConfig{RequireAPIKey: true, APIKeys: []string{"secret"}}
	s, _, _ := newTestServer(t, fruitFiles, sec)

	if rec := do(t, s, http.MethodPost, "/api/reload", nil); rec.Code != http.StatusUnauthorized {
		t.Errorf("status without key = %d, want 401", rec.Code)
	}
	if rec := do(t, s, http.MethodPost, "/api/reload", map[string]string{"X-API-Key": "secret"}); rec.Code != http.StatusOK {
		t.Errorf("status with key = %d, want 200", rec.Code)
	}
	if rec := do(t, s, http.MethodGet, "/api/search?q=apple", nil); rec.Code != http.StatusOK {
		t.Errorf("read endpoints must stay open, got %d", rec.Code)
	}
}

func TestHandleExport(t *testing.T) {
	s, _, _ := newTestServer(t, fruitFiles, config.SecurityConfig{})

	rec := do(t, s, http.MethodGet, "/export", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "<td>Banana</td><td>150.00</td>") {
		t.Errorf("export body = %s", rec.Body)
	}
}

func TestRateLimit(t *testing.T) {
	s, _, _ := newTestServer(t, fruitFiles, config.SecurityConfig{RateLimit: 2})

	for i := 0; i < 2; i++ {
		if rec := do(t, s, http.MethodGet, "/api/health", nil); rec.Code != http.StatusOK {
			t.Fatalf("request %d status = %d", i+1, rec.Code)
		}
	}

	rec := do(t, s, http.MethodGet, "/api/health", nil)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
	if resp := decode[ErrorResponse](t, rec); resp.Code != "REQ003" {
		t.Errorf("code = %q, want REQ003", resp.Code)
	}

	if rec := do(t, s, http.MethodGet, "/export", nil); rec.Code != http.StatusOK {
		t.Errorf("pages are not rate limited, got %d", rec.Code)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{core.ErrLoadBusy, http.StatusConflict},
		{context.DeadlineExceeded, http.StatusGatewayTimeout},
		{context.Canceled, http.StatusServiceUnavailable},
		{os.ErrNotExist, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestRespondError_LevelByCode(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))

	svc := core.NewService(t.TempDir(), core.DefaultOptions(), nil, nil)
	s := NewServer(svc, testServerConfig(), config.SecurityConfig{})

	tests := []struct {
		name      string
		err       error
		wantLevel string
		wantCode  string
	}{
		{name: "known code", err: core.ErrLoadBusy, wantLevel: "level=WARN", wantCode: "CAT002"},
		{name: "unknown error", err: errors.New("boom"), wantLevel: "level=ERROR", wantCode: "ERR000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()

			rec := httptest.NewRecorder()
			s.respondError(rec, httptest.NewRequest(http.MethodPost, "/api/reload", nil), tt.err, http.StatusInternalServerError)

			if resp := decode[ErrorResponse](t, rec); resp.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", resp.Code, tt.wantCode)
			}
			out := buf.String()
			for _, want := range []string{tt.wantLevel, "code=" + tt.wantCode, tt.err.Error()} {
				if !strings.Contains(out, want) {
					t.Errorf("log output %q missing %q", out, want)
				}
			}
		})
	}
}

func TestServer_ShutdownBeforeStart(t *testing.T) {
	svc := core.NewService(t.TempDir(), core.DefaultOptions(), nil, nil)
	s := NewServer(svc, testServerConfig(), config.SecurityConfig{RateLimit: 5})

	if err := s.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- s.Start() }()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Start() after Shutdown = %v, want nil", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Start() kept listening after Shutdown")
	}
}
