package llm

import (
	"errors"
	"fmt"
	"os"
)

// ErrNoProvider is returned when no provider is configured. Callers fall
// back to canned replies.
var ErrNoProvider = errors.New("no LLM provider configured")

// Settings selects and configures a provider.
type Settings struct {
	Provider string
	Model    string
	// BaseURL overrides the provider's default endpoint.
	BaseURL string
	// APIKey overrides the provider's conventional environment variable.
	APIKey string
}

// APIKeyEnvVar returns the conventional environment variable holding the
// API key for provider.
func APIKeyEnvVar(provider string) string {
	switch provider {
	case "anthropic":
		return "ANTHROPIC_API_KEY"
	case "openai":
		return "OPENAI_API_KEY"
	case "openrouter":
		return "OPENROUTER_API_KEY"
	default:
		return ""
	}
}

// NewProvider creates a new LLM provider from s.
// Supported provider types: "openai", "openrouter", "anthropic", "ollama".
func NewProvider(s Settings) (Provider, error) {
	apiKey := s.APIKey
	if apiKey == "" {
		if env := APIKeyEnvVar(s.Provider); env != "" {
			apiKey = os.Getenv(env)
		}
	}

	switch s.Provider {
	case "":
		return nil, ErrNoProvider

	case "openai":
		// A custom base URL points at an OpenAI-compatible gateway, which
		// may not need a key.
		if apiKey == "" && s.BaseURL == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable is not set")
		}
		return NewCompatibleProvider("openai", apiKey, s.BaseURL, s.Model), nil

	case "openrouter":
		if apiKey == "" {
			return nil, fmt.Errorf("OPENROUTER_API_KEY environment variable is not set")
		}
		base := s.BaseURL
		if base == "" {
			base = OpenRouterBaseURL
		}
		return NewCompatibleProvider("openrouter", apiKey, base, s.Model), nil

	case "anthropic":
		if apiKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable is not set")
		}
		return NewAnthropicProvider(apiKey, s.BaseURL, s.Model), nil

	case "ollama":
		host := s.BaseURL
		if host == "" {
			host = os.Getenv("OLLAMA_HOST")
		}
		if host == "" {
			host = "http://localhost:11434"
		}
		return NewOllamaProvider(host, s.Model), nil

	default:
		return nil, fmt.Errorf("unsupported provider type: %s", s.Provider)
	}
}
