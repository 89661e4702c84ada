package llm

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

// NewProvider creates a Provider from configuration, wrapped as
// caller → retry → logging → base. Retry is only added when
// cfg.Retry.MaxAttempts > 1.
func NewProvider(ctx context.Context, cfg Config, logger *logrus.Logger) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var base Provider
	var err error

	client := cfg.client()
	switch cfg.Provider {
	case "mistral":
		base, err = NewMistralProvider(client)
	case "openai":
		base, err = NewOpenAIProvider(client)
	case "anthropic":
		base, err = NewAnthropicProvider(client)
	case "gemini":
		base, err = NewGeminiProvider(ctx, client)
	case "mock":
		base = &MockProvider{Fallback: "Respuesta de prueba del tutor."}
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	return WithRetry(WithLogging(base, logger), cfg.Retry, logger), nil
}
