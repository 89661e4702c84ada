package llm

import (
	"fmt"
	"time"
)

const mistralBaseURL = "https://api.mistral.ai/v1"

// tutorMaxTokens caps answers when neither the request nor the config sets
// a limit. It matches the llm.max_tokens default.
const tutorMaxTokens = 500

// Config holds LLM provider configuration.
type Config struct {
	// Provider selects which LLM provider to use.
	// Values: "mistral", "openai", "anthropic", "gemini", "mock"
	Provider string
	Model    string
	APIKey   string
	BaseURL  string

	// MaxTokens and Temperature fill requests that leave them zero.
	MaxTokens   int
	Temperature float64

	Retry RetryConfig
}

// RetryConfig configures retry behavior for transient failures.
// MaxAttempts of 1 or less disables retrying.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// ClientConfig is what each SDK-backed provider is built from.
type ClientConfig struct {
	APIKey      string
	Model       string
	BaseURL     string
	MaxTokens   int
	Temperature float64
}

// defaultModels is used when Config.Model is empty. The tutor runs on
// the small, cheap tier of every provider.
var defaultModels = map[string]string{
	"mistral":   "mistral-tiny",
	"openai":    "gpt-4o-mini",
	"anthropic": "claude-haiku",
	"gemini":    "gemini-flash",
}

func DefaultConfig() Config {
	return Config{
		Provider:    "mistral",
		Model:       defaultModels["mistral"],
		MaxTokens:   tutorMaxTokens,
		Temperature: 0.7,
		Retry: RetryConfig{
			MaxAttempts: 1,
			InitialWait: 1 * time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
	}
}

func (c Config) Validate() error {
	switch c.Provider {
	case "mock":
		return nil
	case "mistral", "openai", "anthropic", "gemini":
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if c.APIKey == "" {
		return fmt.Errorf("%s API key is required", c.Provider)
	}
	if c.MaxTokens < 0 {
		return fmt.Errorf("max tokens must not be negative, got %d", c.MaxTokens)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0 and 2, got %v", c.Temperature)
	}
	if c.Retry.MaxAttempts > 1 && c.Retry.Multiplier < 1 {
		return fmt.Errorf("retry multiplier must be at least 1, got %v", c.Retry.Multiplier)
	}
	return nil
}

func (c Config) client() ClientConfig {
	model := c.Model
	if model == "" {
		model = defaultModels[c.Provider]
	}
	return ClientConfig{
		APIKey:      c.APIKey,
		Model:       model,
		BaseURL:     c.BaseURL,
		MaxTokens:   c.MaxTokens,
		Temperature: c.Temperature,
	}
}

// fill applies the configured limits to a request that left them unset.
func (c ClientConfig) fill(req Request) Request {
	if req.MaxTokens <= 0 {
		req.MaxTokens = c.MaxTokens
	}
	if req.MaxTokens <= 0 {
		req.MaxTokens = tutorMaxTokens
	}
	if req.Temperature == 0 {
		req.Temperature = c.Temperature
	}
	return req
}

// resolveModel maps a friendly model name to a provider model ID. Unknown
// names are passed through so direct IDs work.
func resolveModel(name string, models map[string]string) string {
	if id, ok := models[name]; ok {
		return id
	}
	return name
}
