package config

import (
	"strings"
	"time"

	"survey-agent/internal/survey"
)

// Model providers.
const (
	ProviderVertex = "vertex"
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

type LLMConfig struct {
	Provider    string
	Model       string
	Project     string // vertex only
	Region      string // vertex only
	APIKey      string // gemini and openai
	BaseURL     string // openai only
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// LoadLLMConfig reads model settings for the provider named by LLM_PROVIDER.
func LoadLLMConfig() LLMConfig {
	cfg := LLMConfig{
		Provider:    strings.ToLower(getEnv("LLM_PROVIDER", ProviderVertex)),
		Temperature: getEnvAsFloat("LLM_TEMPERATURE", 0.2),
		MaxTokens:   getEnvAsInt("LLM_MAX_TOKENS", 1024),
		Timeout:     getEnvAsDuration("LLM_TIMEOUT", 60*time.Second),
	}

	switch cfg.Provider {
	case ProviderVertex:
		cfg.Model = getEnv("VERTEX_MODEL", "")
		cfg.Project = getEnv("GCP_PROJECT", "")
		cfg.Region = getEnv("GCP_REGION", "")
	case ProviderGemini:
		cfg.Model = getEnv("GEMINI_MODEL", "gemini-2.0-flash")
		cfg.APIKey = getEnv("GEMINI_API_KEY", "")
	case ProviderOpenAI:
		cfg.Model = getEnv("OPENAI_MODEL", "gpt-4o-mini")
		cfg.APIKey = getEnv("OPENAI_API_KEY", "")
		cfg.BaseURL = getEnv("OPENAI_BASE_URL", "")
	}
	return cfg
}

// ValidateConfig reports missing or out-of-range model settings.
func (c *LLMConfig) ValidateConfig() error {
	switch c.Provider {
	case ProviderVertex:
		if c.Model == "" || c.Project == "" || c.Region == "" {
			return configError("VERTEX_MODEL, GCP_PROJECT and GCP_REGION are required")
		}
	case ProviderGemini:
		if c.APIKey == "" {
			return configError("GEMINI_API_KEY is required")
		}
	case ProviderOpenAI:
		if c.APIKey == "" {
			return configError("OPENAI_API_KEY is required")
		}
	default:
		return configError("LLM_PROVIDER must be one of vertex, gemini, openai")
	}

	if c.Temperature < 0 || c.Temperature > 2 {
		return configError("LLM_TEMPERATURE must be between 0 and 2")
	}
	if c.MaxTokens <= 0 {
		return configError("LLM_MAX_TOKENS must be positive")
	}
	return nil
}

// GetModelInfo describes the configured model for startup logs.
func (c *LLMConfig) GetModelInfo() map[string]interface{} {
	return map[string]interface{}{
		"provider":    c.Provider,
		"model":       c.Model,
		"temperature": c.Temperature,
		"timeout":     c.Timeout.String(),
	}
}

func configError(msg string) error {
	return survey.NewError(survey.CodeConfig, msg, nil)
}
