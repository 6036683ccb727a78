package config

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "DENNISCHAT_"

// sections are the nested config blocks addressable from the environment.
var sections = []string{"widget", "server", "llm"}

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (DENNISCHAT_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// Overlay environment variables: DENNISCHAT_WIDGET_DEFAULT_LANG -> widget.default_lang.
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	// Lists from the file or environment replace the defaults instead of
	// being merged into them element by element.
	err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
			Result:           cfg,
			TagName:          "koanf",
			WeaklyTypedInput: true,
			ZeroFields:       true,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// envKey maps an environment variable name onto a koanf key path.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	for _, section := range sections {
		if rest, ok := strings.CutPrefix(key, section+"_"); ok {
			return section + "." + rest
		}
	}
	return key
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// validProviders is the set of recognized provider values.
var validProviders = map[ProviderType]bool{
	ProviderNone:       true,
	ProviderOpenAI:     true,
	ProviderOpenRouter: true,
	ProviderAnthropic:  true,
	ProviderOllama:     true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	w := c.Widget
	if !w.LocalReplies && w.Endpoint == "" {
		return fmt.Errorf("widget.endpoint is required unless widget.local_replies is set")
	}
	if len(w.SupportedLangs) == 0 {
		return fmt.Errorf("widget.supported_langs must not be empty")
	}
	if !slices.Contains(w.SupportedLangs, w.DefaultLang) {
		return fmt.Errorf("widget.default_lang %q is not in supported_langs", w.DefaultLang)
	}
	if w.ReplyTimeout < 0 {
		return fmt.Errorf("widget.reply_timeout must be non-negative")
	}
	if w.TypingCadence < 0 || w.CloseDelay < 0 {
		return fmt.Errorf("widget.typing_cadence and widget.close_delay must be non-negative")
	}
	if w.StreamThreshold < 0 {
		return fmt.Errorf("widget.stream_threshold must be non-negative")
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d", c.Server.Port)
	}
	if c.Server.RateLimitRPM < 0 {
		return fmt.Errorf("server.rate_limit_rpm must be non-negative")
	}

	if !validProviders[c.LLM.Provider] {
		return fmt.Errorf("invalid llm.provider %q: must be one of openai, openrouter, anthropic, ollama or empty", c.LLM.Provider)
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("llm.temperature must be between 0 and 2")
	}
	if c.LLM.MaxTokens < 0 {
		return fmt.Errorf("llm.max_tokens must be non-negative")
	}

	return nil
}

// ModelOrDefault returns the configured model or the provider's default.
func (c *Config) ModelOrDefault() string {
	if c.LLM.Model != "" {
		return c.LLM.Model
	}
	return DefaultModel(c.LLM.Provider)
}
