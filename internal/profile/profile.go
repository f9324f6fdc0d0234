package profile

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Profile is the configuration to start main server.
type Profile struct {
	// Mode can be "prod" or "dev" or "demo"
	Mode string
	// Addr is the binding address for server
	Addr string
	// Port is the binding port for server
	Port int
	// Data is the data directory
	Data string
	// DSN points to where northstar stores its own data
	DSN string
	// Driver is the database driver (sqlite or postgres)
	Driver string
	// Version is the current version of server
	Version string

	// AI Configuration
	AIEnabled         bool    // NORTHSTAR_AI_ENABLED
	AILLMProvider     string  // NORTHSTAR_AI_LLM_PROVIDER (default: deepseek)
	AILLMModel        string  // NORTHSTAR_AI_LLM_MODEL (default: deepseek-chat)
	AILLMMaxTokens    int     // NORTHSTAR_AI_LLM_MAX_TOKENS (default: 2048)
	AILLMTemperature  float32 // NORTHSTAR_AI_LLM_TEMPERATURE (default: 0.7)
	AIDeepSeekAPIKey  string  // NORTHSTAR_AI_DEEPSEEK_API_KEY
	AIDeepSeekBaseURL string  // NORTHSTAR_AI_DEEPSEEK_BASE_URL (default: https://api.deepseek.com)
	AIOpenAIAPIKey    string  // NORTHSTAR_AI_OPENAI_API_KEY
	AIOpenAIBaseURL   string  // NORTHSTAR_AI_OPENAI_BASE_URL (default: https://api.openai.com/v1)
	AIOllamaBaseURL   string  // NORTHSTAR_AI_OLLAMA_BASE_URL (default: http://localhost:11434/v1)

	// Rate limiting of the conversation endpoint, per user.
	RateLimitPerSecond float64 // NORTHSTAR_RATE_LIMIT_RPS (default: 2)
	RateLimitBurst     int     // NORTHSTAR_RATE_LIMIT_BURST (default: 5)
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// IsAIEnabled returns true if AI is enabled and the selected provider is reachable.
func (p *Profile) IsAIEnabled() bool {
	if !p.AIEnabled {
		return false
	}
	switch p.AILLMProvider {
	case "deepseek":
		return p.AIDeepSeekAPIKey != ""
	case "openai":
		return p.AIOpenAIAPIKey != ""
	case "ollama":
		return p.AIOllamaBaseURL != ""
	}
	return false
}

// getEnvOrDefault returns the environment variable value or the default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnvOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
		slog.Warn("ignoring invalid integer env", slog.String("key", key), slog.String("value", value))
	}
	return defaultValue
}

func getFloatEnvOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
		slog.Warn("ignoring invalid float env", slog.String("key", key), slog.String("value", value))
	}
	return defaultValue
}

// FromEnv loads AI and rate limit configuration from NORTHSTAR_* environment variables.
func (p *Profile) FromEnv() {
	p.AIEnabled = os.Getenv("NORTHSTAR_AI_ENABLED") == "true"
	p.AILLMProvider = getEnvOrDefault("NORTHSTAR_AI_LLM_PROVIDER", "deepseek")
	p.AILLMModel = getEnvOrDefault("NORTHSTAR_AI_LLM_MODEL", "deepseek-chat")
	p.AILLMMaxTokens = getIntEnvOrDefault("NORTHSTAR_AI_LLM_MAX_TOKENS", 2048)
	p.AILLMTemperature = float32(getFloatEnvOrDefault("NORTHSTAR_AI_LLM_TEMPERATURE", 0.7))
	p.AIDeepSeekAPIKey = os.Getenv("NORTHSTAR_AI_DEEPSEEK_API_KEY")
	p.AIDeepSeekBaseURL = getEnvOrDefault("NORTHSTAR_AI_DEEPSEEK_BASE_URL", "https://api.deepseek.com")
	p.AIOpenAIAPIKey = os.Getenv("NORTHSTAR_AI_OPENAI_API_KEY")
	p.AIOpenAIBaseURL = getEnvOrDefault("NORTHSTAR_AI_OPENAI_BASE_URL", "https://api.openai.com/v1")
	p.AIOllamaBaseURL = getEnvOrDefault("NORTHSTAR_AI_OLLAMA_BASE_URL", "http://localhost:11434/v1")

	p.RateLimitPerSecond = getFloatEnvOrDefault("NORTHSTAR_RATE_LIMIT_RPS", 2)
	p.RateLimitBurst = getIntEnvOrDefault("NORTHSTAR_RATE_LIMIT_BURST", 5)
}

func checkDataDir(dataDir string) (string, error) {
	// Convert to absolute path if relative path is supplied.
	if !filepath.IsAbs(dataDir) {
		relativeDir := filepath.Join(filepath.Dir(os.Args[0]), dataDir)
		absDir, err := filepath.Abs(relativeDir)
		if err != nil {
			return "", err
		}
		dataDir = absDir
	}

	// Trim trailing \ or / in case user supplies
	dataDir = strings.TrimRight(dataDir, "\\/")
	if _, err := os.Stat(dataDir); err != nil {
		return "", errors.Wrapf(err, "unable to access data folder %s", dataDir)
	}
	return dataDir, nil
}

func (p *Profile) Validate() error {
	if p.Mode != "demo" && p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "demo"
	}
	if p.Driver == "" {
		p.Driver = "sqlite"
	}
	if p.Driver != "sqlite" && p.Driver != "postgres" {
		return errors.Errorf("unsupported driver %q", p.Driver)
	}
	if p.Driver == "postgres" && p.DSN == "" {
		return errors.New("dsn is required for postgres")
	}

	if p.Mode == "prod" && p.Data == "" {
		if runtime.GOOS == "windows" {
			p.Data = filepath.Join(os.Getenv("ProgramData"), "northstar")
			if _, err := os.Stat(p.Data); os.IsNotExist(err) {
				if err := os.MkdirAll(p.Data, 0770); err != nil {
					slog.Error("failed to create data directory", slog.String("data", p.Data), slog.String("error", err.Error()))
					return err
				}
			}
		} else {
			p.Data = "/var/opt/northstar"
		}
	}

	if p.Driver == "sqlite" && p.DSN == "" {
		dataDir, err := checkDataDir(p.Data)
		if err != nil {
			slog.Error("failed to check dsn", slog.String("data", dataDir), slog.String("error", err.Error()))
			return err
		}
		p.Data = dataDir
		dbFile := fmt.Sprintf("northstar_%s.db", p.Mode)
		p.DSN = filepath.Join(dataDir, dbFile)
	}

	if p.RateLimitBurst < 1 {
		p.RateLimitBurst = 1
	}
	return nil
}
