package llm

import (
	"fmt"
	"os"
	"time"
)

// Config selects and configures an LLM provider.
type Config struct {
	// Provider is one of "anthropic", "openai", "gemini", "mock".
	Provider string

	Anthropic AnthropicConfig
	OpenAI    OpenAIConfig
	Gemini    GeminiConfig
	Retry     RetryConfig

	// Timeout bounds a single request including retries.
	Timeout time.Duration
}

// AnthropicConfig holds Anthropic settings.
type AnthropicConfig struct {
	APIKey string
	Model  string
}

// OpenAIConfig holds OpenAI settings. BaseURL allows OpenAI-compatible
// endpoints such as OpenRouter.
type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// GeminiConfig holds Google Gemini settings.
type GeminiConfig struct {
	APIKey string
	Model  string
}

// RetryConfig configures backoff for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig returns a Config with working defaults (keys still needed).
func DefaultConfig() Config {
	return Config{
		Provider:  "anthropic",
		Anthropic: AnthropicConfig{Model: "claude-haiku"},
		OpenAI:    OpenAIConfig{Model: "gpt-4o-mini"},
		Gemini:    GeminiConfig{Model: "gemini-flash"},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 1 * time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 30 * time.Second,
	}
}

// FromEnv overlays environment variables onto the defaults:
// LINGUAKIT_LLM_PROVIDER, LINGUAKIT_LLM_MODEL, and the per-provider
// API key variables (ANTHROPIC_API_KEY, OPENAI_API_KEY, GEMINI_API_KEY).
func FromEnv() Config {
	cfg := DefaultConfig()

	if p := os.Getenv("LINGUAKIT_LLM_PROVIDER"); p != "" {
		cfg.Provider = p
	}
	if m := os.Getenv("LINGUAKIT_LLM_MODEL"); m != "" {
		cfg.Anthropic.Model = m
		cfg.OpenAI.Model = m
		cfg.Gemini.Model = m
	}

	cfg.Anthropic.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	cfg.OpenAI.APIKey = os.Getenv("OPENAI_API_KEY")
	if u := os.Getenv("OPENAI_BASE_URL"); u != "" {
		cfg.OpenAI.BaseURL = u
	}
	cfg.Gemini.APIKey = os.Getenv("GEMINI_API_KEY")

	return cfg
}

// Validate checks that the selected provider has what it needs.
func (c Config) Validate() error {
	switch c.Provider {
	case "anthropic":
		if c.Anthropic.APIKey == "" {
			return fmt.Errorf("provider anthropic selected but ANTHROPIC_API_KEY is empty")
		}
	case "openai":
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("provider openai selected but OPENAI_API_KEY is empty")
		}
	case "gemini":
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("provider gemini selected but GEMINI_API_KEY is empty")
		}
	case "mock":
	default:
		return fmt.Errorf("unknown LLM provider %q", c.Provider)
	}
	return nil
}
