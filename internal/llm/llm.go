// Package llm adapts hosted language models to the survey oracle interface.
package llm

import (
	"context"
	"fmt"
	"strings"

	"survey-agent/internal/config"
)

// Client is a model backend usable as the survey oracle.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
	ModelName() string
}

// New builds the client selected by cfg.Provider.
func New(ctx context.Context, cfg config.LLMConfig) (Client, error) {
	switch cfg.Provider {
	case config.ProviderVertex:
		return NewVertexClient(ctx, cfg.Project, cfg.Region, cfg.Model, cfg.Temperature)
	case config.ProviderGemini:
		return NewGeminiClient(ctx, cfg.APIKey, cfg.Model, cfg.Temperature)
	case config.ProviderOpenAI:
		return NewOpenAIClient(cfg.APIKey, cfg.BaseURL, cfg.Model, cfg.Temperature, cfg.MaxTokens, cfg.Timeout), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.Provider)
	}
}

// cleanJSONResponse strips markdown code fences models like to wrap JSON in.
func cleanJSONResponse(response string) string {
	response = strings.TrimSpace(response)
	if !strings.HasPrefix(response, "```") {
		return response
	}
	response = strings.TrimPrefix(response, "```json")
	response = strings.TrimPrefix(response, "```")
	response = strings.TrimSuffix(response, "```")
	return strings.TrimSpace(response)
}
