package llm

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"google.golang.org/genai"

	svlog "survey-agent/internal/log"
)

// GenAIClient generates text through Google's genai SDK, against either Vertex AI or the
// Gemini API.
type GenAIClient struct {
	client      *genai.Client
	model       string
	temperature float32
	logger      zerolog.Logger
}

// NewVertexClient creates a client using Vertex AI with application default credentials.
func NewVertexClient(ctx context.Context, project, location, model string, temperature float64) (*GenAIClient, error) {
	if project == "" || location == "" || model == "" {
		return nil, fmt.Errorf("vertex AI requires project, location and model")
	}

	c, err := newGenAIClient(ctx, &genai.ClientConfig{
		Backend:  genai.BackendVertexAI,
		Project:  project,
		Location: location,
	}, model, temperature)
	if err != nil {
		return nil, fmt.Errorf("failed to create Vertex AI client: %w", err)
	}
	return c, nil
}

// NewGeminiClient creates a client for the Gemini API authenticated by API key.
func NewGeminiClient(ctx context.Context, apiKey, model string, temperature float64) (*GenAIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	c, err := newGenAIClient(ctx, &genai.ClientConfig{
		Backend: genai.BackendGeminiAPI,
		APIKey:  apiKey,
	}, model, temperature)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return c, nil
}

func newGenAIClient(ctx context.Context, cfg *genai.ClientConfig, model string, temperature float64) (*GenAIClient, error) {
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &GenAIClient{
		client:      client,
		model:       model,
		temperature: float32(temperature),
		logger:      svlog.WithComponent("llm"),
	}, nil
}

// ModelName returns the configured model.
func (c *GenAIClient) ModelName() string {
	return c.model
}

// Generate sends prompt as a single user turn and returns the reply text. A reply without text,
// such as a safety-blocked candidate, yields "" and no error; the caller's parser rejects it.
func (c *GenAIClient) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature: genai.Ptr(c.temperature),
	})
	if err != nil {
		return "", fmt.Errorf("genai generate failed: %w", err)
	}

	text := resp.Text()
	if text == "" {
		event := svlog.WithContext(ctx, c.logger).Warn().Str("model", c.model)
		if len(resp.Candidates) > 0 && resp.Candidates[0] != nil {
			event = event.Str("finish_reason", string(resp.Candidates[0].FinishReason))
		}
		if resp.PromptFeedback != nil {
			event = event.Str("block_reason", string(resp.PromptFeedback.BlockReason))
		}
		event.Msg("genai reply carried no text")
	}
	return cleanJSONResponse(text), nil
}
