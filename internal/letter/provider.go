package letter

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/googleai"

	"jobpilot/aggregator/internal/config"
)

// NewModel builds the LLM client selected by cfg.
func NewModel(ctx context.Context, cfg *config.Config) (llms.Model, error) {
	apiKey := cfg.LLMAPIKey()
	if apiKey == "" {
		return nil, fmt.Errorf("no API key for LLM provider %q", cfg.LLM.Provider)
	}
	switch cfg.LLM.Provider {
	case config.LLMProviderAnthropic:
		m, err := anthropic.New(anthropic.WithToken(apiKey), anthropic.WithModel(cfg.LLMModel()))
		if err != nil {
			return nil, fmt.Errorf("create anthropic client: %w", err)
		}
		return m, nil
	case config.LLMProviderGoogleAI:
		m, err := googleai.New(ctx,
			googleai.WithAPIKey(apiKey),
			googleai.WithDefaultModel(cfg.LLMModel()),
		)
		if err != nil {
			return nil, fmt.Errorf("create gemini client: %w", err)
		}
		return m, nil
	}
	return nil, fmt.Errorf("%w: %q", config.ErrUnknownLLMProvider, cfg.LLM.Provider)
}
