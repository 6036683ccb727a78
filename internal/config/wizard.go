package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/manifoldco/promptui"

	"github.com/ziadkadry99/dennischat/internal/llm"
)

// RunWizard runs an interactive configuration wizard, saves the result to
// path and returns it.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to dennischat! Let's configure the widget and backend.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Languages.
	langsPrompt := promptui.Prompt{
		Label:   "Supported languages (comma-separated codes)",
		Default: strings.Join(cfg.Widget.SupportedLangs, ","),
	}
	langsStr, err := langsPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("supported languages: %w", err)
	}
	if langs := splitAndTrim(langsStr); len(langs) > 0 {
		cfg.Widget.SupportedLangs = langs
	}

	defaultPrompt := promptui.Select{
		Label: "Default language",
		Items: cfg.Widget.SupportedLangs,
	}
	_, cfg.Widget.DefaultLang, err = defaultPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("default language: %w", err)
	}

	// 2. Where replies come from.
	modePrompt := promptui.Select{
		Label: "Where should the chat client get replies from?",
		Items: []string{
			"remote: POST to a chat endpoint",
			"local:  canned replies, no network",
		},
	}
	modeIdx, _, err := modePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("reply mode: %w", err)
	}
	cfg.Widget.LocalReplies = modeIdx == 1

	if !cfg.Widget.LocalReplies {
		endpointPrompt := promptui.Prompt{
			Label:   "Chat endpoint",
			Default: cfg.Widget.Endpoint,
		}
		cfg.Widget.Endpoint, err = endpointPrompt.Run()
		if err != nil {
			return nil, fmt.Errorf("endpoint: %w", err)
		}
	}

	// 3. Backend model.
	providerPrompt := promptui.Select{
		Label: "LLM provider for `dennischat serve`",
		Items: []string{"none (canned replies)", "openai", "openrouter", "anthropic", "ollama"},
	}
	providerIdx, providerStr, err := providerPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("provider selection: %w", err)
	}
	if providerIdx > 0 {
		cfg.LLM.Provider = ProviderType(providerStr)

		modelPrompt := promptui.Prompt{
			Label:   "Model",
			Default: DefaultModel(cfg.LLM.Provider),
		}
		cfg.LLM.Model, err = modelPrompt.Run()
		if err != nil {
			return nil, fmt.Errorf("model: %w", err)
		}

		// Check for API key.
		if envVar := llm.APIKeyEnvVar(providerStr); envVar != "" && os.Getenv(envVar) == "" {
			fmt.Printf("\nNote: Set %s in your environment before running dennischat serve.\n", envVar)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

// splitAndTrim splits a comma-separated string and trims whitespace.
func splitAndTrim(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if token := strings.TrimSpace(part); token != "" {
			result = append(result, token)
		}
	}
	return result
}
