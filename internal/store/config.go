package store

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v10"
	"gopkg.in/yaml.v3"
)

const (
	ProviderGemini = "GEMINI"
	ProviderOpenAI = "OPENAI"
	ProviderClaude = "CLAUDE"
	ProviderNoop   = "NOOP"
)

type Config struct {
	Server struct {
		Host       string `yaml:"host" env:"JOURNAL_HOST"`
		Port       int    `yaml:"port" env:"PORT"`
		CORSOrigin string `yaml:"cors_origin" env:"JOURNAL_CORS_ORIGIN"`
		// Seconds allowed for in-flight requests on shutdown
		ShutdownSeconds int `yaml:"shutdown_seconds"`
	} `yaml:"server"`
	LLM struct {
		Provider       string  `yaml:"provider" env:"LLM_PROVIDER"`
		Model          string  `yaml:"model" env:"LLM_MODEL"`
		Endpoint       string  `yaml:"endpoint" env:"LLM_ENDPOINT"`
		MaxTokens      int     `yaml:"max_tokens"`
		Temperature    float32 `yaml:"temperature"`
		TimeoutSeconds int     `yaml:"timeout_seconds"`
		GeminiAPIKey   string  `yaml:"-" env:"GEMINI_API_KEY"`
		OpenAIAPIKey   string  `yaml:"-" env:"OPENAI_API_KEY"`
		ClaudeAPIKey   string  `yaml:"-" env:"CLAUDE_API_KEY"`
	} `yaml:"llm"`
	RateLimit struct {
		Requests      int `yaml:"requests" env:"LLM_RATE_LIMIT"`
		WindowSeconds int `yaml:"window_seconds"`
	} `yaml:"rate_limit"`
	Cache struct {
		Enabled    bool  `yaml:"enabled" env:"LLM_CACHE_ENABLED"`
		TTLSeconds int   `yaml:"ttl_seconds"`
		MaxCost    int64 `yaml:"max_cost"`
	} `yaml:"cache"`
	Chat struct {
		MaxTurns int `yaml:"max_turns"`
	} `yaml:"chat"`
	Journal struct {
		LogDir        string `yaml:"log_dir" env:"JOURNAL_LOG_DIR"`
		RetentionDays int    `yaml:"retention_days" env:"JOURNAL_LOG_RETENTION_DAYS"`
		SeedSamples   bool   `yaml:"seed_sample_trades"`
	} `yaml:"journal"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	var c Config
	c.applyDefaults()
	c.Journal.SeedSamples = true
	return &c
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 5000
	}
	if c.Server.CORSOrigin == "" {
		c.Server.CORSOrigin = "*"
	}
	if c.Server.ShutdownSeconds == 0 {
		c.Server.ShutdownSeconds = 10
	}
	if c.LLM.Provider == "" {
		c.LLM.Provider = ProviderGemini
	}
	if c.LLM.Model == "" {
		c.LLM.Model = defaultModel(c.LLM.Provider)
	}
	if c.LLM.MaxTokens == 0 {
		c.LLM.MaxTokens = 1024
	}
	if c.LLM.TimeoutSeconds == 0 {
		c.LLM.TimeoutSeconds = 60
	}
	if c.RateLimit.Requests == 0 {
		c.RateLimit.Requests = 60
	}
	if c.RateLimit.WindowSeconds == 0 {
		c.RateLimit.WindowSeconds = 60
	}
	if c.Cache.TTLSeconds == 0 {
		c.Cache.TTLSeconds = 300
	}
	if c.Cache.MaxCost == 0 {
		c.Cache.MaxCost = 1 << 24
	}
	if c.Chat.MaxTurns == 0 {
		c.Chat.MaxTurns = 100
	}
	if c.Journal.LogDir == "" {
		c.Journal.LogDir = "logs"
	}
}

func defaultModel(provider string) string {
	switch provider {
	case ProviderOpenAI:
		return "gpt-4o-mini"
	case ProviderClaude:
		return "claude-3-5-haiku-latest"
	default:
		return "gemini-pro"
	}
}

func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case ProviderGemini, ProviderOpenAI, ProviderClaude, ProviderNoop:
	default:
		return fmt.Errorf("invalid llm.provider '%s': must be GEMINI, OPENAI, CLAUDE or NOOP", c.LLM.Provider)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1-65535, got %d", c.Server.Port)
	}
	if c.RateLimit.Requests < 0 || c.RateLimit.WindowSeconds < 0 {
		return errors.New("rate_limit values cannot be negative")
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("llm.temperature must be between 0-2, got %.2f", c.LLM.Temperature)
	}
	if c.Journal.RetentionDays < 0 {
		return fmt.Errorf("journal.retention_days cannot be negative, got %d", c.Journal.RetentionDays)
	}
	return nil
}

// APIKey returns the key for the configured provider.
func (c *Config) APIKey() string {
	switch c.LLM.Provider {
	case ProviderOpenAI:
		return c.LLM.OpenAIAPIKey
	case ProviderClaude:
		return c.LLM.ClaudeAPIKey
	case ProviderGemini:
		return c.LLM.GeminiAPIKey
	default:
		return ""
	}
}

func (c *Config) LLMTimeout() time.Duration {
	return time.Duration(c.LLM.TimeoutSeconds) * time.Second
}

func (c *Config) RateWindow() time.Duration {
	return time.Duration(c.RateLimit.WindowSeconds) * time.Second
}

func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLSeconds) * time.Second
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// LoadConfig reads path, overlays the environment and validates. A missing
// file yields the defaults plus the environment.
func LoadConfig(path string) (*Config, error) {
	var c Config
	b, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		c.Journal.SeedSamples = true
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	if err := env.Parse(&c); err != nil {
		return nil, fmt.Errorf("failed to apply environment: %w", err)
	}
	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &c, nil
}
