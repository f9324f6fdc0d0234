package ai

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/hrygo/northstar/internal/profile"
)

// Supported LLM providers.
const (
	ProviderDeepSeek = "deepseek"
	ProviderOpenAI   = "openai"
	ProviderOllama   = "ollama"
)

const (
	defaultMaxTokens = 2048
	maxTemperature   = 2.0
)

// providerDefaults fills what a profile leaves blank for one provider.
type providerDefaults struct {
	model     string
	baseURL   string
	keyNeeded bool
}

var providers = map[string]providerDefaults{
	ProviderDeepSeek: {model: "deepseek-chat", baseURL: "https://api.deepseek.com", keyNeeded: true},
	ProviderOpenAI:   {model: "gpt-4o-mini", baseURL: "https://api.openai.com/v1", keyNeeded: true},
	ProviderOllama:   {model: "llama3", baseURL: "http://localhost:11434/v1"},
}

// Config is the coaching backend configuration.
type Config struct {
	Enabled bool

	LLM LLMConfig
}

// LLMConfig selects and tunes the chat model that voices the coaching agents.
type LLMConfig struct {
	Provider    string
	Model       string
	APIKey      string
	BaseURL     string
	MaxTokens   int
	Temperature float32
}

// NewConfigFromProfile builds the coaching backend config, filling provider
// defaults for a blank model or base URL.
func NewConfigFromProfile(p *profile.Profile) *Config {
	cfg := &Config{
		Enabled: p.AIEnabled,
	}
	if !cfg.Enabled {
		return cfg
	}

	provider := strings.ToLower(strings.TrimSpace(p.AILLMProvider))
	cfg.LLM = LLMConfig{
		Provider:    provider,
		Model:       strings.TrimSpace(p.AILLMModel),
		MaxTokens:   p.AILLMMaxTokens,
		Temperature: p.AILLMTemperature,
	}
	if cfg.LLM.MaxTokens <= 0 {
		cfg.LLM.MaxTokens = defaultMaxTokens
	}

	switch provider {
	case ProviderDeepSeek:
		cfg.LLM.APIKey = p.AIDeepSeekAPIKey
		cfg.LLM.BaseURL = p.AIDeepSeekBaseURL
	case ProviderOpenAI:
		cfg.LLM.APIKey = p.AIOpenAIAPIKey
		cfg.LLM.BaseURL = p.AIOpenAIBaseURL
	case ProviderOllama:
		cfg.LLM.BaseURL = p.AIOllamaBaseURL
	}

	if d, ok := providers[provider]; ok {
		if cfg.LLM.Model == "" {
			cfg.LLM.Model = d.model
		}
		if cfg.LLM.BaseURL == "" {
			cfg.LLM.BaseURL = d.baseURL
		}
	}

	return cfg
}

// Validate reports the first problem that would keep the coaching agents from replying.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}

	if c.LLM.Provider == "" {
		return errors.New("LLM provider is required")
	}
	d, ok := providers[c.LLM.Provider]
	if !ok {
		return errors.Errorf("unsupported LLM provider %q", c.LLM.Provider)
	}
	if d.keyNeeded && c.LLM.APIKey == "" {
		return errors.Errorf("LLM API key is required for %s", c.LLM.Provider)
	}
	if c.LLM.Model == "" {
		return errors.New("LLM model is required")
	}
	if c.LLM.BaseURL == "" {
		return errors.Errorf("LLM base URL is required for %s", c.LLM.Provider)
	}
	if c.LLM.MaxTokens <= 0 {
		return errors.New("LLM max tokens must be positive")
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > maxTemperature {
		return errors.Errorf("LLM temperature %.2f outside [0, %.1f]", c.LLM.Temperature, maxTemperature)
	}

	return nil
}
