package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/sony/gobreaker/v2"

	"alfredoptarigan/ats-api/internal/config"
)

// breakerService short-circuits calls to a failing provider. It never retries.
type breakerService struct {
	next LLMService
	cb   *gobreaker.CircuitBreaker[string]
}

// NewCircuitBreakerService returns next unchanged when the breaker is disabled.
func NewCircuitBreakerService(next LLMService, cfg config.CircuitBreakerConfig) LLMService {
	if !cfg.Enabled {
		return next
	}

	settings := gobreaker.Settings{
		Name:        fmt.Sprintf("LLM-%s", next.Name()),
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= cfg.MinRequests && failureRatio >= cfg.FailureRatio
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Printf("⚡ Circuit breaker %s changed from %s to %s\n", name, from, to)
		},
	}

	return &breakerService{
		next: next,
		cb:   gobreaker.NewCircuitBreaker[string](settings),
	}
}

// Name implements LLMService.
func (b *breakerService) Name() string {
	return b.next.Name()
}

// Complete implements LLMService.
func (b *breakerService) Complete(ctx context.Context, systemPrompt, prompt string) (string, error) {
	out, err := b.cb.Execute(func() (string, error) {
		return b.next.Complete(ctx, systemPrompt, prompt)
	})
	if err != nil {
		var upstreamErr *UpstreamError
		if errors.As(err, &upstreamErr) {
			return "", err
		}
		return "", &UpstreamError{Provider: b.next.Name(), Err: err}
	}

	return out, nil
}
