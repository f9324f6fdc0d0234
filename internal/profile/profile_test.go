package profile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var northstarEnvVars = []string{
	"NORTHSTAR_AI_ENABLED",
	"NORTHSTAR_AI_LLM_PROVIDER",
	"NORTHSTAR_AI_LLM_MODEL",
	"NORTHSTAR_AI_LLM_MAX_TOKENS",
	"NORTHSTAR_AI_LLM_TEMPERATURE",
	"NORTHSTAR_AI_DEEPSEEK_API_KEY",
	"NORTHSTAR_AI_DEEPSEEK_BASE_URL",
	"NORTHSTAR_AI_OPENAI_API_KEY",
	"NORTHSTAR_AI_OPENAI_BASE_URL",
	"NORTHSTAR_AI_OLLAMA_BASE_URL",
	"NORTHSTAR_RATE_LIMIT_RPS",
	"NORTHSTAR_RATE_LIMIT_BURST",
}

// clearEnv blanks every NORTHSTAR_* variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range northstarEnvVars {
		t.Setenv(key, "")
	}
}

// TestProfileDefaults 测试配置的默认值
func TestProfileDefaults(t *testing.T) {
	clearEnv(t)

	p := &Profile{}
	p.FromEnv()

	assert.False(t, p.AIEnabled)
	assert.Equal(t, "deepseek", p.AILLMProvider)
	assert.Equal(t, "deepseek-chat", p.AILLMModel)
	assert.Equal(t, 2048, p.AILLMMaxTokens)
	assert.InDelta(t, 0.7, p.AILLMTemperature, 1e-6)
	assert.Equal(t, "https://api.deepseek.com", p.AIDeepSeekBaseURL)
	assert.Equal(t, "https://api.openai.com/v1", p.AIOpenAIBaseURL)
	assert.Equal(t, "http://localhost:11434/v1", p.AIOllamaBaseURL)
	assert.InDelta(t, 2.0, p.RateLimitPerSecond, 1e-9)
	assert.Equal(t, 5, p.RateLimitBurst)
}

// TestProfileFromEnv 测试从环境变量读取配置
func TestProfileFromEnv(t *testing.T) {
	tests := []struct {
		name     string
		envVar   string
		envValue string
		field    func(*Profile) any
		expected any
	}{
		{
			name:     "ai_enabled",
			envVar:   "NORTHSTAR_AI_ENABLED",
			envValue: "true",
			field:    func(p *Profile) any { return p.AIEnabled },
			expected: true,
		},
		{
			name:     "llm_provider",
			envVar:   "NORTHSTAR_AI_LLM_PROVIDER",
			envValue: "ollama",
			field:    func(p *Profile) any { return p.AILLMProvider },
			expected: "ollama",
		},
		{
			name:     "openai_base_url",
			envVar:   "NORTHSTAR_AI_OPENAI_BASE_URL",
			envValue: "https://custom.openai.proxy/v1",
			field:    func(p *Profile) any { return p.AIOpenAIBaseURL },
			expected: "https://custom.openai.proxy/v1",
		},
		{
			name:     "max_tokens",
			envVar:   "NORTHSTAR_AI_LLM_MAX_TOKENS",
			envValue: "512",
			field:    func(p *Profile) any { return p.AILLMMaxTokens },
			expected: 512,
		},
		{
			name:     "invalid_max_tokens_keeps_default",
			envVar:   "NORTHSTAR_AI_LLM_MAX_TOKENS",
			envValue: "lots",
			field:    func(p *Profile) any { return p.AILLMMaxTokens },
			expected: 2048,
		},
		{
			name:     "rate_limit_burst",
			envVar:   "NORTHSTAR_RATE_LIMIT_BURST",
			envValue: "9",
			field:    func(p *Profile) any { return p.RateLimitBurst },
			expected: 9,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.envVar, tt.envValue)

			p := &Profile{}
			p.FromEnv()
			assert.Equal(t, tt.expected, tt.field(p))
		})
	}
}

func TestIsAIEnabled(t *testing.T) {
	tests := []struct {
		name     string
		profile  Profile
		expected bool
	}{
		{name: "disabled", profile: Profile{AIEnabled: false, AILLMProvider: "deepseek", AIDeepSeekAPIKey: "k"}, expected: false},
		{name: "deepseek_with_key", profile: Profile{AIEnabled: true, AILLMProvider: "deepseek", AIDeepSeekAPIKey: "k"}, expected: true},
		{name: "deepseek_without_key", profile: Profile{AIEnabled: true, AILLMProvider: "deepseek"}, expected: false},
		{name: "openai_with_key", profile: Profile{AIEnabled: true, AILLMProvider: "openai", AIOpenAIAPIKey: "k"}, expected: true},
		{name: "ollama_with_url", profile: Profile{AIEnabled: true, AILLMProvider: "ollama", AIOllamaBaseURL: "http://localhost:11434/v1"}, expected: true},
		{name: "unknown_provider", profile: Profile{AIEnabled: true, AILLMProvider: "bard"}, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.profile.IsAIEnabled())
		})
	}
}

func TestValidate(t *testing.T) {
	t.Run("derives_sqlite_dsn", func(t *testing.T) {
		dir := t.TempDir()
		p := &Profile{Mode: "dev", Data: dir}
		require.NoError(t, p.Validate())
		assert.Equal(t, "sqlite", p.Driver)
		assert.Equal(t, filepath.Join(dir, "northstar_dev.db"), p.DSN)
	})

	t.Run("unknown_mode_becomes_demo", func(t *testing.T) {
		p := &Profile{Mode: "staging", Data: t.TempDir()}
		require.NoError(t, p.Validate())
		assert.Equal(t, "demo", p.Mode)
		assert.True(t, p.IsDev())
	})

	t.Run("keeps_explicit_dsn", func(t *testing.T) {
		p := &Profile{Mode: "dev", Driver: "sqlite", DSN: ":memory:"}
		require.NoError(t, p.Validate())
		assert.Equal(t, ":memory:", p.DSN)
	})

	t.Run("postgres_requires_dsn", func(t *testing.T) {
		p := &Profile{Mode: "prod", Driver: "postgres"}
		assert.Error(t, p.Validate())
	})

	t.Run("unsupported_driver", func(t *testing.T) {
		p := &Profile{Mode: "dev", Driver: "mysql", DSN: "x"}
		assert.ErrorContains(t, p.Validate(), "unsupported driver")
	})

	t.Run("missing_data_dir", func(t *testing.T) {
		p := &Profile{Mode: "dev", Data: filepath.Join(os.TempDir(), "northstar-does-not-exist", "nested")}
		assert.Error(t, p.Validate())
	})

	t.Run("burst_floor", func(t *testing.T) {
		p := &Profile{Mode: "dev", DSN: ":memory:", RateLimitBurst: 0}
		require.NoError(t, p.Validate())
		assert.Equal(t, 1, p.RateLimitBurst)
	})
}
