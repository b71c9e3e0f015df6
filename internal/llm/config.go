package llm

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config holds the LLM settings used when tutor.backend is "llm".
type Config struct {
	// Provider selects which LLM provider to use.
	// Values: "anthropic", "openai", "gemini", "openrouter", "mock"
	Provider string `yaml:"provider"`

	Anthropic  AnthropicConfig  `yaml:"anthropic"`
	OpenAI     OpenAIConfig     `yaml:"openai"`
	Gemini     GeminiConfig     `yaml:"gemini"`
	OpenRouter OpenRouterConfig `yaml:"openrouter"`
	Retry      RetryConfig      `yaml:"retry"`

	// Timeout bounds a single Generate call including retries.
	// Default: 45s. Zero disables.
	Timeout time.Duration `yaml:"timeout"`
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`    // Default: "claude-haiku"
	BaseURL string `yaml:"base_url"` // Optional proxy.
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`    // Default: "gpt-4o-mini"
	BaseURL string `yaml:"base_url"` // Optional. Any OpenAI-compatible API.
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"` // Default: "gemini-flash"
	BaseURL string `yaml:"base_url"`
}

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`    // Default: "google/gemini-2.5-flash"
	BaseURL string `yaml:"base_url"` // Default: "https://openrouter.ai/api/v1"
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int           `yaml:"max_attempts"`
	InitialWait time.Duration `yaml:"initial_wait"`
	MaxWait     time.Duration `yaml:"max_wait"`
	Multiplier  float64       `yaml:"multiplier"`
}

// DefaultConfig returns a Config with sensible defaults. The tutor waits
// for the learner, so retries are fewer and shorter than for batch work.
func DefaultConfig() Config {
	return Config{
		Provider:   "anthropic",
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		OpenAI:     OpenAIConfig{Model: "gpt-4o-mini"},
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		OpenRouter: OpenRouterConfig{Model: "google/gemini-2.5-flash"},
		Retry: RetryConfig{
			MaxAttempts: 2,
			InitialWait: 500 * time.Millisecond,
			MaxWait:     5 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 45 * time.Second,
	}
}

// ConfigFromEnv builds a Config from environment variables, falling back
// to defaults for unset values.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	ApplyEnv(&cfg)
	return cfg
}

// ApplyEnv overrides cfg with QUIZTUTOR_* environment variables.
func ApplyEnv(cfg *Config) {
	set := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	set(&cfg.Provider, "QUIZTUTOR_LLM_PROVIDER")

	set(&cfg.Anthropic.APIKey, "QUIZTUTOR_ANTHROPIC_API_KEY")
	set(&cfg.Anthropic.Model, "QUIZTUTOR_ANTHROPIC_MODEL")

	set(&cfg.OpenAI.APIKey, "QUIZTUTOR_OPENAI_API_KEY")
	set(&cfg.OpenAI.Model, "QUIZTUTOR_OPENAI_MODEL")
	set(&cfg.OpenAI.BaseURL, "QUIZTUTOR_OPENAI_BASE_URL")

	set(&cfg.Gemini.APIKey, "QUIZTUTOR_GEMINI_API_KEY")
	set(&cfg.Gemini.Model, "QUIZTUTOR_GEMINI_MODEL")

	set(&cfg.OpenRouter.APIKey, "QUIZTUTOR_OPENROUTER_API_KEY")
	set(&cfg.OpenRouter.Model, "QUIZTUTOR_OPENROUTER_MODEL")
}

// DiscoverConfig probes the vendors' standard API key variables in
// priority order (Anthropic, OpenAI, Gemini, OpenRouter) and selects the
// first provider whose key is found. It leaves cfg untouched and returns
// false if none is set.
func DiscoverConfig(cfg *Config) bool {
	switch {
	case os.Getenv("ANTHROPIC_API_KEY") != "":
		cfg.Provider = providerAnthropic
		cfg.Anthropic.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	case os.Getenv("OPENAI_API_KEY") != "":
		cfg.Provider = providerOpenAI
		cfg.OpenAI.APIKey = os.Getenv("OPENAI_API_KEY")
	case os.Getenv("GEMINI_API_KEY") != "":
		cfg.Provider = providerGemini
		cfg.Gemini.APIKey = os.Getenv("GEMINI_API_KEY")
	case os.Getenv("OPENROUTER_API_KEY") != "":
		cfg.Provider = providerOpenRouter
		cfg.OpenRouter.APIKey = os.Getenv("OPENROUTER_API_KEY")
	default:
		return false
	}
	return true
}

// Validate checks that the selected provider has its required API key set.
func (c Config) Validate() error {
	var key string
	switch c.Provider {
	case providerAnthropic:
		key = c.Anthropic.APIKey
	case providerOpenAI:
		key = c.OpenAI.APIKey
	case providerGemini:
		key = c.Gemini.APIKey
	case providerOpenRouter:
		key = c.OpenRouter.APIKey
	case providerMock:
		return nil
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if key == "" {
		return fmt.Errorf("llm.%s.api_key (or QUIZTUTOR_%s_API_KEY) is required for the %s provider",
			c.Provider, strings.ToUpper(c.Provider), c.Provider)
	}
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("llm.retry.max_attempts must be at least 1")
	}
	return nil
}
