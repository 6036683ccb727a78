// Package chat is the backend behind the widget's reply endpoint.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ziadkadry99/dennischat/internal/canned"
	"github.com/ziadkadry99/dennischat/internal/llm"
)

// DefaultSystemPrompt frames the assistant for the personal site.
const DefaultSystemPrompt = "You are DennisChat, the official AI assistant on the personal website " +
	"of Dennis Charles (Denarixx).\n\n" +
	"LANGUAGE RULES:\n" +
	"- ALWAYS reply in the same language as the last user message.\n" +
	"- If the user mixes languages, choose the language they use the MOST in that message.\n\n" +
	"SCOPE:\n" +
	"- You can talk about: Dennis' background, mindset, skills, Denarixx projects, " +
	"and the content visible on the site.\n" +
	"- You may also answer general, light questions about AI, creativity, and careers, " +
	"but keep them short and not too technical.\n\n" +
	"CONTACT:\n" +
	"- If the user asks for Dennis' contact or email, clearly give this: denarixx4@gmail.com\n" +
	"- You may also mention that they can use the contact form on the site.\n\n" +
	"SAFETY / PRIVACY:\n" +
	"- Never reveal private technical details, schematics, exact business plans, or financial data.\n" +
	"- Stay high-level. If the user pushes for deep internal details, say that these are private " +
	"and only shared in direct conversation.\n\n" +
	"STYLE:\n" +
	"- Be friendly, calm and encouraging.\n" +
	"- Keep replies short: usually 2-5 sentences.\n" +
	"- You are not a general internet chatbot; keep focus around Dennis, Denarixx, creative/AI topics, " +
	"and helpful high-level guidance.\n"

// Defaults for upstream completions.
const (
	DefaultTemperature     = 0.6
	DefaultMaxTokens       = 400
	DefaultUpstreamTimeout = 25 * time.Second
)

// emptyReply is returned when the model answers with nothing.
const emptyReply = "No reply from AI service."

// ErrEmptyMessage is returned for blank input.
var ErrEmptyMessage = errors.New("message is required")

// UpstreamError reports a failed call to the model provider.
type UpstreamError struct {
	Status int
	Err    error
}

func (e *UpstreamError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("AI service returned status %d", e.Status)
	}
	return "Error contacting AI service"
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// Request is one incoming chat message.
type Request struct {
	Message          string `json:"message"`
	DetectedLanguage string `json:"detected_language,omitempty"`
}

// Reply is the answer together with where it came from.
type Reply struct {
	Text   string
	Source string
}

// Config tunes the service.
type Config struct {
	Model        string
	Temperature  float64
	MaxTokens    int
	SystemPrompt string
	Timeout      time.Duration
}

// Service answers chat messages with an LLM, or with canned replies when
// no provider is configured.
type Service struct {
	provider llm.Provider
	cfg      Config
	canned   *canned.Table
	log      zerolog.Logger
}

// NewService creates a Service. provider may be nil.
func NewService(provider llm.Provider, cfg Config, table *canned.Table, logger zerolog.Logger) *Service {
	if cfg.Temperature == 0 {
		cfg.Temperature = DefaultTemperature
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	if cfg.SystemPrompt == "" {
		cfg.SystemPrompt = DefaultSystemPrompt
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultUpstreamTimeout
	}
	if table == nil {
		table = canned.Default
	}
	return &Service{
		provider: provider,
		cfg:      cfg,
		canned:   table,
		log:      logger.With().Str("component", "chat").Logger(),
	}
}

// Reply answers req.
func (s *Service) Reply(ctx context.Context, req Request) (Reply, error) {
	text := strings.TrimSpace(req.Message)
	if text == "" {
		return Reply{}, ErrEmptyMessage
	}

	if s.provider == nil {
		reply, rule := s.canned.Match(text)
		s.log.Debug().Str("rule", rule).Str("hint", req.DetectedLanguage).Msg("canned reply")
		return Reply{Text: reply, Source: "canned"}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	start := time.Now()
	resp, err := s.provider.Complete(ctx, llm.CompletionRequest{
		Model: s.cfg.Model,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: s.cfg.SystemPrompt},
			{Role: llm.RoleUser, Content: text},
		},
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		upstream := &UpstreamError{Err: err}
		var se *llm.StatusError
		if errors.As(err, &se) {
			upstream.Status = se.Status
		}
		s.log.Error().Err(err).Str("provider", s.provider.Name()).Dur("elapsed", time.Since(start)).Msg("completion failed")
		return Reply{}, upstream
	}

	content := strings.TrimSpace(resp.Content)
	if content == "" {
		content = emptyReply
	}
	s.log.Info().
		Str("provider", s.provider.Name()).
		Str("model", resp.Model).
		Str("hint", req.DetectedLanguage).
		Int("input_tokens", resp.InputTokens).
		Int("output_tokens", resp.OutputTokens).
		Dur("elapsed", time.Since(start)).
		Msg("completion")
	return Reply{Text: content, Source: s.provider.Name()}, nil
}
