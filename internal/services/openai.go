package services

import (
	"context"
	"errors"
	"strings"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
)

// openaiService talks to any OpenAI-compatible chat-completions endpoint.
// Groq is reached through its compatibility base URL.
type openaiService struct {
	client      openai.Client
	provider    string
	model       string
	temperature float64
}

func NewOpenAIService(provider, apiKey, baseURL, model string, temperature float64) LLMService {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	return &openaiService{
		client:      openai.NewClient(opts...),
		provider:    provider,
		model:       model,
		temperature: temperature,
	}
}

// Name implements LLMService.
func (s *openaiService) Name() string {
	return s.provider
}

// Complete implements LLMService.
func (s *openaiService) Complete(ctx context.Context, systemPrompt, prompt string) (string, error) {
	resp, err := s.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: shared.ChatModel(s.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(s.temperature),
	})
	if err != nil {
		return "", &UpstreamError{Provider: s.provider, Err: err}
	}

	if resp == nil || len(resp.Choices) == 0 {
		return "", &UpstreamError{Provider: s.provider, Err: errors.New("no completion choices returned")}
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
