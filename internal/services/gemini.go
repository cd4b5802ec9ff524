package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

type geminiService struct {
	client      *genai.Client
	modelName   string
	temperature float32
}

func NewGeminiService(ctx context.Context, apiKey, baseURL, model string, temperature float64) (LLMService, error) {
	clientConfig := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &geminiService{
		client:      client,
		modelName:   model,
		temperature: float32(temperature),
	}, nil
}

// Name implements LLMService.
func (g *geminiService) Name() string {
	return "gemini"
}

// Complete implements LLMService.
func (g *geminiService) Complete(ctx context.Context, systemPrompt, prompt string) (string, error) {
	temperature := g.temperature
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
		Temperature:       &temperature,
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(prompt), config)
	if err != nil {
		return "", &UpstreamError{Provider: g.Name(), Err: err}
	}

	if resp == nil {
		return "", &UpstreamError{Provider: g.Name(), Err: errors.New("no response generated (nil response)")}
	}

	return strings.TrimSpace(resp.Text()), nil
}
