package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/northstar/internal/profile"
)

func TestNewConfigFromProfile(t *testing.T) {
	tests := []struct {
		name    string
		profile *profile.Profile
		expect  LLMConfig
	}{
		{
			name: "deepseek",
			profile: &profile.Profile{
				AIEnabled:         true,
				AILLMProvider:     "deepseek",
				AILLMModel:        "deepseek-chat",
				AILLMMaxTokens:    2048,
				AILLMTemperature:  0.7,
				AIDeepSeekAPIKey:  "deepseek-key",
				AIDeepSeekBaseURL: "https://api.deepseek.com",
			},
			expect: LLMConfig{
				Provider:    "deepseek",
				Model:       "deepseek-chat",
				APIKey:      "deepseek-key",
				BaseURL:     "https://api.deepseek.com",
				MaxTokens:   2048,
				Temperature: 0.7,
			},
		},
		{
			name: "openai",
			profile: &profile.Profile{
				AIEnabled:       true,
				AILLMProvider:   "openai",
				AILLMModel:      "gpt-4o-mini",
				AILLMMaxTokens:  1024,
				AIOpenAIAPIKey:  "openai-key",
				AIOpenAIBaseURL: "https://api.openai.com/v1",
			},
			expect: LLMConfig{
				Provider:  "openai",
				Model:     "gpt-4o-mini",
				APIKey:    "openai-key",
				BaseURL:   "https://api.openai.com/v1",
				MaxTokens: 1024,
			},
		},
		{
			name: "ollama_without_key_and_default_tokens",
			profile: &profile.Profile{
				AIEnabled:       true,
				AILLMProvider:   "ollama",
				AILLMModel:      "llama3",
				AIOllamaBaseURL: "http://localhost:11434/v1",
			},
			expect: LLMConfig{
				Provider:  "ollama",
				Model:     "llama3",
				BaseURL:   "http://localhost:11434/v1",
				MaxTokens: 2048,
			},
		},
		{
			name: "blank_model_and_url_take_provider_defaults",
			profile: &profile.Profile{
				AIEnabled:        true,
				AILLMProvider:    " OpenAI ",
				AILLMTemperature: 0.4,
				AIOpenAIAPIKey:   "openai-key",
			},
			expect: LLMConfig{
				Provider:    "openai",
				Model:       "gpt-4o-mini",
				APIKey:      "openai-key",
				BaseURL:     "https://api.openai.com/v1",
				MaxTokens:   2048,
				Temperature: 0.4,
			},
		},
		{
			name: "ollama_defaults_local_endpoint",
			profile: &profile.Profile{
				AIEnabled:     true,
				AILLMProvider: "ollama",
			},
			expect: LLMConfig{
				Provider:  "ollama",
				Model:     "llama3",
				BaseURL:   "http://localhost:11434/v1",
				MaxTokens: 2048,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfigFromProfile(tt.profile)
			require.True(t, cfg.Enabled)
			assert.Equal(t, tt.expect, cfg.LLM)
			assert.NoError(t, cfg.Validate())
		})
	}
}

func TestNewConfigFromProfile_Disabled(t *testing.T) {
	cfg := NewConfigFromProfile(&profile.Profile{AIEnabled: false, AILLMProvider: "deepseek"})
	assert.False(t, cfg.Enabled)
	assert.Empty(t, cfg.LLM.Provider)
	assert.NoError(t, cfg.Validate())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		msg  string
	}{
		{name: "missing_provider", cfg: Config{Enabled: true}, msg: "provider is required"},
		{name: "missing_key", cfg: Config{Enabled: true, LLM: LLMConfig{Provider: "deepseek", Model: "m"}}, msg: "API key is required"},
		{name: "missing_model", cfg: Config{Enabled: true, LLM: LLMConfig{Provider: "ollama"}}, msg: "model is required"},
		{name: "unknown_provider", cfg: Config{Enabled: true, LLM: LLMConfig{Provider: "bard", APIKey: "k", Model: "m"}}, msg: `unsupported LLM provider "bard"`},
		{name: "ollama_missing_url", cfg: Config{Enabled: true, LLM: LLMConfig{Provider: "ollama", Model: "llama3", MaxTokens: 10}}, msg: "base URL is required for ollama"},
		{name: "zero_max_tokens", cfg: Config{Enabled: true, LLM: LLMConfig{Provider: "ollama", Model: "llama3", BaseURL: "http://x"}}, msg: "max tokens must be positive"},
		{name: "temperature_too_high", cfg: Config{Enabled: true, LLM: LLMConfig{Provider: "openai", APIKey: "k", Model: "m", BaseURL: "http://x", MaxTokens: 10, Temperature: 2.5}}, msg: "temperature 2.50 outside [0, 2.0]"},
		{name: "negative_temperature", cfg: Config{Enabled: true, LLM: LLMConfig{Provider: "openai", APIKey: "k", Model: "m", BaseURL: "http://x", MaxTokens: 10, Temperature: -0.1}}, msg: "outside [0, 2.0]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorContains(t, tt.cfg.Validate(), tt.msg)
		})
	}
}
