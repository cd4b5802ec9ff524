package services

import (
	"context"
	"fmt"

	"alfredoptarigan/ats-api/internal/config"
)

// LLMService sends one system + user message pair and returns the trimmed
// text of the first completion. Implementations never retry.
type LLMService interface {
	Complete(ctx context.Context, systemPrompt, prompt string) (string, error)
	Name() string
}

// NewLLMService builds the provider selected in cfg, wrapped in a circuit
// breaker when one is enabled.
func NewLLMService(ctx context.Context, cfg config.LLMConfig) (LLMService, error) {
	var (
		svc LLMService
		err error
	)

	switch cfg.Provider {
	case config.ProviderGroq, config.ProviderOpenAI:
		svc = NewOpenAIService(cfg.Provider, cfg.APIKey, cfg.BaseURL, cfg.Model, cfg.Temperature)
	case config.ProviderGemini:
		svc, err = NewGeminiService(ctx, cfg.APIKey, cfg.BaseURL, cfg.Model, cfg.Temperature)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}

	return NewCircuitBreakerService(svc, cfg.CircuitBreaker), nil
}
