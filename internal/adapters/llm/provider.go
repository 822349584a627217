package llm

import (
	"context"
	"fmt"

	"github.com/gilberto978/bishbash-api/internal/adapters/upstream"
	"github.com/gilberto978/bishbash-api/internal/config"
)

// FromConfig builds the configured Completer. It returns nil, nil when the
// selected provider has no API key, which callers treat as "no LLM".
func FromConfig(ctx context.Context, cfg *config.Config, hc *upstream.Client) (Completer, error) {
	switch cfg.LLMProvider {
	case config.ProviderGemini:
		if cfg.GeminiAPIKey == "" {
			return nil, nil //nolint:nilnil // absent provider is not an error
		}
		g, err := NewGemini(ctx, cfg.GeminiAPIKey, WithGeminiModel(cfg.GeminiModel))
		if err != nil {
			return nil, err
		}
		return g, nil
	case config.ProviderOpenAI, "":
		if cfg.OpenAIAPIKey == "" {
			return nil, nil //nolint:nilnil // absent provider is not an error
		}
		return NewOpenAI(hc, cfg.OpenAIAPIKey,
			WithOpenAIModel(cfg.OpenAIModel),
			WithOpenAIBaseURL(cfg.OpenAIBaseURL),
		), nil
	default:
		return nil, fmt.Errorf("llm: unknown provider %q", cfg.LLMProvider)
	}
}
