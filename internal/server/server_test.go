package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/ziadkadry99/dennischat/internal/chat"
	"github.com/ziadkadry99/dennischat/internal/i18n"
	"github.com/ziadkadry99/dennischat/internal/llm"
)

func newTestServer(t *testing.T, cfg Config) *Server {
	t.Helper()
	svc := chat.NewService(nil, chat.Config{}, nil, zerolog.Nop())
	srv, err := New(cfg, svc, zerolog.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return srv
}

func get(srv *Server, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", path, nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	return w
}

func TestHealthCheck(t *testing.T) {
	srv := newTestServer(t, Config{Port: 0})

	w := get(srv, "/healthz")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status 'ok', got %q", body["status"])
	}

	w = get(srv, "/health")
	var health struct {
		OK      bool   `json:"ok"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &health); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !health.OK || health.Message != HealthMessage {
		t.Errorf("health = %+v", health)
	}
}

func TestCORSHeaders(t *testing.T) {
	srv := newTestServer(t, Config{Port: 0, AllowAll: true})

	req := httptest.NewRequest("OPTIONS", "/api/chat", nil)
	req.Header.Set("Origin", "https://denarixx.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("expected CORS Allow-Origin header")
	}
}

func TestLangServedNoStore(t *testing.T) {
	srv := newTestServer(t, Config{})

	w := get(srv, "/lang/de.json?v=123")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if cc := w.Header().Get("Cache-Control"); !strings.Contains(cc, "no-store") {
		t.Errorf("Cache-Control = %q", cc)
	}
	dict, err := i18n.Parse(w.Body.Bytes())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if v, _ := dict.Lookup("lang.name"); v != "Deutsch" {
		t.Errorf("lang.name = %q", v)
	}

	if w := get(srv, "/lang/xx.json"); w.Code != http.StatusNotFound {
		t.Errorf("missing language status = %d", w.Code)
	}
}

func TestLangDirAndSite(t *testing.T) {
	langDir := t.TempDir()
	os.WriteFile(filepath.Join(langDir, "en.json"), []byte(`{"chat":{"title":"Custom"}}`), 0o644)
	siteDir := t.TempDir()
	os.WriteFile(filepath.Join(siteDir, "index.html"), []byte(`<html data-i18n="chat.title"></html>`), 0o644)

	srv := newTestServer(t, Config{LangDir: langDir, SiteDir: siteDir})

	if w := get(srv, "/lang/en.json"); !strings.Contains(w.Body.String(), "Custom") {
		t.Errorf("lang body = %s", w.Body)
	}
	if w := get(srv, "/"); w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "data-i18n") {
		t.Errorf("site status=%d body=%s", w.Code, w.Body)
	}
}

func TestHTTPStoreAgainstServer(t *testing.T) {
	ts := httptest.NewServer(newTestServer(t, Config{}).Router())
	defer ts.Close()

	store, err := i18n.NewHTTPStore(ts.URL, ts.Client())
	if err != nil {
		t.Fatal(err)
	}
	dict, err := store.Fetch(t.Context(), "fr")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if v, _ := dict.Lookup("lang.name"); v != "Français" {
		t.Errorf("lang.name = %q", v)
	}
}

func TestNewRejectsMissingDirs(t *testing.T) {
	svc := chat.NewService(nil, chat.Config{}, nil, zerolog.Nop())
	if _, err := New(Config{LangDir: "/does/not/exist"}, svc, zerolog.Nop()); err == nil {
		t.Error("expected error for missing lang dir")
	}
	if _, err := New(Config{SiteDir: "/does/not/exist"}, svc, zerolog.Nop()); err == nil {
		t.Error("expected error for missing site dir")
	}
}

// deadlineProvider records how long the upstream context has left.
type deadlineProvider struct {
	mu        sync.Mutex
	remaining []time.Duration
}

func (p *deadlineProvider) Name() string { return "deadline" }

func (p *deadlineProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	left := time.Duration(-1)
	if d, ok := ctx.Deadline(); ok {
		left = time.Until(d)
	}
	p.mu.Lock()
	p.remaining = append(p.remaining, left)
	p.mu.Unlock()
	return &llm.CompletionResponse{Content: "ok"}, nil
}

func TestWebSocketUsesServiceTimeout(t *testing.T) {
	p := &deadlineProvider{}
	svc := chat.NewService(p, chat.Config{Timeout: time.Hour}, nil, zerolog.Nop())
	srv, err := New(Config{}, svc, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/ws/chat", nil)
	if err != nil {
		t.Fatalf("websocket dial: %v", err)
	}
	defer conn.Close()

	for _, id := range []string{"1", "2"} {
		if err := conn.WriteJSON(map[string]string{"type": "message", "id": id, "content": "hello"}); err != nil {
			t.Fatal(err)
		}
		var resp map[string]string
		if err := conn.ReadJSON(&resp); err != nil {
			t.Fatal(err)
		}
		if resp["type"] != "reply" || resp["content"] != "ok" {
			t.Fatalf("resp = %v", resp)
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.remaining) != 2 {
		t.Fatalf("calls = %d", len(p.remaining))
	}
	for i, left := range p.remaining {
		if left < 59*time.Minute {
			t.Errorf("message %d: upstream deadline %v away, want the service's 1h", i+1, left)
		}
	}
}

func TestHTTPChatStillBounded(t *testing.T) {
	p := &deadlineProvider{}
	svc := chat.NewService(p, chat.Config{Timeout: time.Hour}, nil, zerolog.Nop())
	srv, err := New(Config{}, svc, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"message":"hi"}`))
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.remaining) != 1 || p.remaining[0] < 0 || p.remaining[0] > requestTimeout {
		t.Errorf("plain HTTP requests should keep the request timeout, got %v", p.remaining)
	}
}
