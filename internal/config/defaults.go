package config

import (
	"time"

	"github.com/ziadkadry99/dennischat/internal/i18n"
	"github.com/ziadkadry99/dennischat/internal/reply"
	"github.com/ziadkadry99/dennischat/internal/stream"
	"github.com/ziadkadry99/dennischat/internal/widget"
)

// DefaultConfigFile is the config file looked up in the working directory.
const DefaultConfigFile = ".dennischat.yml"

// defaultModels maps each provider to the model used when none is set.
var defaultModels = map[ProviderType]string{
	ProviderOpenAI:     "gpt-4o-mini",
	ProviderOpenRouter: "openai/gpt-4o-mini",
	ProviderAnthropic:  "claude-haiku-4-5",
	ProviderOllama:     "llama3",
}

// DefaultModel returns the model used for provider when none is configured.
func DefaultModel(provider ProviderType) string {
	return defaultModels[provider]
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Widget: WidgetConfig{
			Endpoint:        "http://localhost:8000/api/chat",
			HintField:       reply.DefaultHintField,
			ReplyTimeout:    30 * time.Second,
			DefaultLang:     i18n.DefaultLang,
			SupportedLangs:  append([]string(nil), i18n.SupportedLangs...),
			TypingCadence:   stream.DefaultCadence,
			StreamThreshold: stream.DefaultThreshold,
			CloseDelay:      widget.DefaultCloseDelay,
		},
		Server: ServerConfig{
			Port:            8000,
			AllowAllOrigins: true,
			UpstreamTimeout: 25 * time.Second,
		},
		LLM: LLMConfig{
			Temperature: 0.6,
			MaxTokens:   400,
		},
		DataDir:  ".dennischat",
		LogLevel: "info",
	}
}
