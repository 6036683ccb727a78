package reply

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultHintField is the request field carrying the detected language.
const DefaultHintField = "detected_language"

// DefaultUILangField is the request field carrying the widget language when
// it is sent at all.
const DefaultUILangField = "ui_lang"

// replyFields lists accepted response fields, primary first.
var replyFields = []string{"reply", "response", "answer", "message", "text", "output"}

// maxBody caps how much of a response is read.
const maxBody = 1 << 20

// HTTPOptions configures an HTTPSource.
type HTTPOptions struct {
	Endpoint string
	// HintField names the language hint in the request body. Empty omits it.
	HintField string
	// UILangField names the UI language field. Empty omits it.
	UILangField string
	// Timeout bounds a single request; expiry is a network failure.
	Timeout time.Duration
	Client  *http.Client
}

// HTTPSource posts messages to a remote chat endpoint.
type HTTPSource struct {
	opts   HTTPOptions
	client *http.Client
}

// NewHTTPSource creates a source for the given endpoint.
func NewHTTPSource(opts HTTPOptions) *HTTPSource {
	client := opts.Client
	if client == nil {
		client = &http.Client{}
	}
	return &HTTPSource{opts: opts, client: client}
}

func (s *HTTPSource) Send(ctx context.Context, req Request) (string, error) {
	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}

	payload := map[string]any{"message": req.Text}
	if s.opts.HintField != "" {
		var hint any
		if req.Hint != "" {
			hint = req.Hint
		}
		payload[s.opts.HintField] = hint
	}
	if s.opts.UILangField != "" && req.UILang != "" {
		payload[s.opts.UILangField] = req.UILang
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", &Error{Kind: KindMalformed, Err: fmt.Errorf("encoding request: %w", err)}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.opts.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", &Error{Kind: KindNetwork, Err: fmt.Errorf("creating request: %w", err)}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return "", &Error{Kind: KindNetwork, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return "", &Error{Kind: KindNetwork, Status: resp.StatusCode, Err: fmt.Errorf("reading response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &Error{Kind: KindHTTP, Status: resp.StatusCode, Detail: ExtractDetail(respBody)}
	}

	text, ok := ExtractReply(respBody)
	if !ok {
		return "", &Error{Kind: KindMalformed, Status: resp.StatusCode, Err: errors.New("no reply in response")}
	}
	return text, nil
}

// ExtractReply finds the reply text in a response body: a bare JSON string,
// one of the accepted fields, or an OpenAI-style choices array.
func ExtractReply(body []byte) (string, bool) {
	var raw any
	if err := json.Unmarshal(body, &raw); err != nil {
		return "", false
	}

	switch v := raw.(type) {
	case string:
		return nonEmpty(v)
	case map[string]any:
		for _, field := range replyFields {
			if s, ok := v[field].(string); ok {
				if text, ok := nonEmpty(s); ok {
					return text, true
				}
			}
		}
		return choiceContent(v)
	}
	return "", false
}

func choiceContent(v map[string]any) (string, bool) {
	choices, ok := v["choices"].([]any)
	if !ok || len(choices) == 0 {
		return "", false
	}
	first, ok := choices[0].(map[string]any)
	if !ok {
		return "", false
	}
	msg, ok := first["message"].(map[string]any)
	if !ok {
		return "", false
	}
	content, ok := msg["content"].(string)
	if !ok {
		return "", false
	}
	return nonEmpty(content)
}

// ExtractDetail pulls a human-readable error out of an error body. It
// understands {"detail": "..."}, {"error": "..."}, {"error": {"message":
// "..."}} and validation lists of {"msg": "..."}.
func ExtractDetail(body []byte) string {
	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return ""
	}
	for _, field := range []string{"detail", "error"} {
		if s := detailText(raw[field]); s != "" {
			return s
		}
	}
	return ""
}

func detailText(v any) string {
	switch x := v.(type) {
	case string:
		return strings.TrimSpace(x)
	case map[string]any:
		for _, k := range []string{"message", "msg", "detail"} {
			if s, ok := x[k].(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
	case []any:
		var parts []string
		for _, item := range x {
			if s := detailText(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, "; ")
	}
	return ""
}

func nonEmpty(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != ""
}
