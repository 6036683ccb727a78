package reply

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestHTTPSourceSendsHint(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		w.Write([]byte(`{"reply":"Guten Morgen!"}`))
	}))
	defer srv.Close()

	src := NewHTTPSource(HTTPOptions{
		Endpoint:    srv.URL,
		HintField:   DefaultHintField,
		UILangField: DefaultUILangField,
	})
	text, err := src.Send(context.Background(), Request{Text: "Hallo", Hint: "de", UILang: "en"})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if text != "Guten Morgen!" {
		t.Errorf("text = %q", text)
	}
	if got["message"] != "Hallo" || got["detected_language"] != "de" || got["ui_lang"] != "en" {
		t.Errorf("request body = %v", got)
	}
	if len(got) != 3 {
		t.Errorf("unexpected extra fields in request body = %v", got)
	}
}

func TestHTTPSourceHintOmittedOrNull(t *testing.T) {
	var bodies []map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var m map[string]any
		json.NewDecoder(r.Body).Decode(&m)
		bodies = append(bodies, m)
		w.Write([]byte(`"ok"`))
	}))
	defer srv.Close()

	ctx := context.Background()
	NewHTTPSource(HTTPOptions{Endpoint: srv.URL, HintField: DefaultHintField}).Send(ctx, Request{Text: "x"})
	NewHTTPSource(HTTPOptions{Endpoint: srv.URL}).Send(ctx, Request{Text: "x", Hint: "en"})

	if len(bodies) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(bodies))
	}
	if v, ok := bodies[0]["detected_language"]; !ok || v != nil {
		t.Errorf("unknown hint should be sent as null, got %v (present=%v)", v, ok)
	}
	if _, ok := bodies[1]["detected_language"]; ok {
		t.Error("hint field should be omitted when disabled")
	}
	if _, ok := bodies[1]["ui_lang"]; ok {
		t.Error("ui_lang should be omitted when disabled")
	}
}

func TestExtractReply(t *testing.T) {
	tests := []struct {
		body string
		want string
		ok   bool
	}{
		{`{"reply":"a"}`, "a", true},
		{`{"response":"b"}`, "b", true},
		{`{"answer":"c"}`, "c", true},
		{`{"message":"d"}`, "d", true},
		{`{"text":"e"}`, "e", true},
		{`{"output":"f"}`, "f", true},
		{`{"reply":"primary","answer":"alias"}`, "primary", true},
		{`{"reply":"  ","answer":"alias"}`, "alias", true},
		{`{"choices":[{"message":{"content":"g"}}]}`, "g", true},
		{`"bare"`, "bare", true},
		{`{"reply":42}`, "", false},
		{`{"choices":[]}`, "", false},
		{`{}`, "", false},
		{`[1,2]`, "", false},
		{`not json`, "", false},
		{``, "", false},
	}
	for _, tt := range tests {
		got, ok := ExtractReply([]byte(tt.body))
		if got != tt.want || ok != tt.ok {
			t.Errorf("ExtractReply(%s) = %q, %v; want %q, %v", tt.body, got, ok, tt.want, tt.ok)
		}
	}
}

func TestExtractDetail(t *testing.T) {
	tests := []struct {
		body string
		want string
	}{
		{`{"detail":"message is required"}`, "message is required"},
		{`{"error":"boom"}`, "boom"},
		{`{"error":{"message":"quota exceeded"}}`, "quota exceeded"},
		{`{"detail":[{"msg":"field required"},{"msg":"bad type"}]}`, "field required; bad type"},
		{`{"other":"x"}`, ""},
		{`<html>`, ""},
	}
	for _, tt := range tests {
		if got := ExtractDetail([]byte(tt.body)); got != tt.want {
			t.Errorf("ExtractDetail(%s) = %q, want %q", tt.body, got, tt.want)
		}
	}
}

func TestHTTPSourceFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		kind   Kind
		detail string
	}{
		{"bad gateway with detail", http.StatusBadGateway, `{"detail":"Error contacting AI service"}`, KindHTTP, "Error contacting AI service"},
		{"server error without body", http.StatusInternalServerError, ``, KindHTTP, ""},
		{"ok without reply", http.StatusOK, `{"status":"fine"}`, KindMalformed, ""},
		{"ok with html", http.StatusOK, `<p>hi</p>`, KindMalformed, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewHTTPSource(HTTPOptions{Endpoint: srv.URL}).Send(context.Background(), Request{Text: "x"})
			var re *Error
			if !errors.As(err, &re) {
				t.Fatalf("expected *Error, got %v", err)
			}
			if re.Kind != tt.kind {
				t.Errorf("kind = %s, want %s", re.Kind, tt.kind)
			}
			if re.Kind == KindHTTP && re.Status != tt.status {
				t.Errorf("status = %d, want %d", re.Status, tt.status)
			}
			if DetailOf(err) != tt.detail {
				t.Errorf("detail = %q, want %q", DetailOf(err), tt.detail)
			}
		})
	}
}

func TestHTTPSourceNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewHTTPSource(HTTPOptions{Endpoint: url}).Send(context.Background(), Request{Text: "x"})
	var re *Error
	if !errors.As(err, &re) || re.Kind != KindNetwork {
		t.Fatalf("expected network error, got %v", err)
	}
}

func TestHTTPSourceTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	_, err := NewHTTPSource(HTTPOptions{Endpoint: srv.URL, Timeout: 50 * time.Millisecond}).
		Send(context.Background(), Request{Text: "x"})
	var re *Error
	if !errors.As(err, &re) || re.Kind != KindNetwork {
		t.Fatalf("expected network error on timeout, got %v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded in chain, got %v", err)
	}
}

func TestLocalSource(t *testing.T) {
	src := NewLocalSource(nil)
	text, err := src.Send(context.Background(), Request{Text: "hello"})
	if err != nil {
		t.Fatal(err)
	}
	if text == "" {
		t.Error("expected canned greeting")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := src.Send(ctx, Request{Text: "hello"}); err == nil {
		t.Error("expected error for cancelled context")
	}
}
