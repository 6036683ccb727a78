package config

import "time"

// ProviderType identifies an LLM provider for the backend.
type ProviderType string

const (
	ProviderNone       ProviderType = ""
	ProviderOpenAI     ProviderType = "openai"
	ProviderOpenRouter ProviderType = "openrouter"
	ProviderAnthropic  ProviderType = "anthropic"
	ProviderOllama     ProviderType = "ollama"
)

// Config is the top-level dennischat configuration, corresponding to .dennischat.yml.
type Config struct {
	Widget   WidgetConfig `yaml:"widget" koanf:"widget"`
	Server   ServerConfig `yaml:"server" koanf:"server"`
	LLM      LLMConfig    `yaml:"llm" koanf:"llm"`
	DataDir  string       `yaml:"data_dir" koanf:"data_dir"`
	LogLevel string       `yaml:"log_level" koanf:"log_level"`
	LogFile  string       `yaml:"log_file" koanf:"log_file"`
}

// WidgetConfig configures the chat client.
type WidgetConfig struct {
	Endpoint string `yaml:"endpoint" koanf:"endpoint"`
	// HintField names the detected-language field in requests; empty omits it.
	HintField    string        `yaml:"hint_field" koanf:"hint_field"`
	SendUILang   bool          `yaml:"send_ui_lang" koanf:"send_ui_lang"`
	ReplyTimeout time.Duration `yaml:"reply_timeout" koanf:"reply_timeout"`
	LocalReplies bool          `yaml:"local_replies" koanf:"local_replies"`

	DefaultLang    string   `yaml:"default_lang" koanf:"default_lang"`
	SupportedLangs []string `yaml:"supported_langs" koanf:"supported_langs"`
	// LangBaseURL is where lang/<code>.json is fetched from. When empty,
	// LangDir or the embedded documents are used.
	LangBaseURL string `yaml:"lang_base_url" koanf:"lang_base_url"`
	LangDir     string `yaml:"lang_dir" koanf:"lang_dir"`
	PageLang    string `yaml:"page_lang" koanf:"page_lang"`

	TypingCadence   time.Duration `yaml:"typing_cadence" koanf:"typing_cadence"`
	StreamThreshold int           `yaml:"stream_threshold" koanf:"stream_threshold"`
	CloseDelay      time.Duration `yaml:"close_delay" koanf:"close_delay"`
}

// ServerConfig configures the backend.
type ServerConfig struct {
	Port            int           `yaml:"port" koanf:"port"`
	SiteDir         string        `yaml:"site_dir" koanf:"site_dir"`
	LangDir         string        `yaml:"lang_dir" koanf:"lang_dir"`
	AllowAllOrigins bool          `yaml:"allow_all_origins" koanf:"allow_all_origins"`
	AllowedOrigins  []string      `yaml:"allowed_origins" koanf:"allowed_origins"`
	RateLimitRPM    int           `yaml:"rate_limit_rpm" koanf:"rate_limit_rpm"`
	UpstreamTimeout time.Duration `yaml:"upstream_timeout" koanf:"upstream_timeout"`
}

// LLMConfig selects the model behind the backend. An empty provider makes
// the backend answer from the canned table.
type LLMConfig struct {
	Provider     ProviderType `yaml:"provider" koanf:"provider"`
	Model        string       `yaml:"model" koanf:"model"`
	BaseURL      string       `yaml:"base_url" koanf:"base_url"`
	Temperature  float64      `yaml:"temperature" koanf:"temperature"`
	MaxTokens    int          `yaml:"max_tokens" koanf:"max_tokens"`
	SystemPrompt string       `yaml:"system_prompt,omitempty" koanf:"system_prompt"`
}
