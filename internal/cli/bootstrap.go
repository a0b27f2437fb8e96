package cli

import (
	"context"
	"fmt"

	"survey-agent/internal/config"
	"survey-agent/internal/llm"
	svlog "survey-agent/internal/log"
	"survey-agent/internal/survey"
	"survey-agent/internal/turnguard"
)

// buildOrchestrator wires the configured model and catalog into an orchestrator.
func buildOrchestrator(ctx context.Context, cfg *config.AppConfig) (*survey.Orchestrator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cat, err := config.LoadCatalog(cfg.Survey.CatalogFile)
	if err != nil {
		return nil, err
	}

	client, err := llm.New(ctx, cfg.LLM)
	if err != nil {
		return nil, survey.NewError(survey.CodeConfig, "model client could not be created", err)
	}

	svlog.WithComponent("bootstrap").Info().
		Fields(cfg.LLM.GetModelInfo()).
		Int("questions", cat.Len()).
		Msg("survey agent configured")

	return survey.New(cat, llm.WithTimeout(client, cfg.LLM.Timeout)), nil
}

// buildGuard returns the configured turn guard and a function releasing its resources.
func buildGuard(ctx context.Context, cfg config.TurnGuardConfig) (turnguard.Guard, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Mode {
	case config.TurnGuardMemory:
		return turnguard.NewMemory(cfg.TTL), noop, nil
	case config.TurnGuardRedis:
		g, err := turnguard.NewRedis(ctx, turnguard.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TTL:      cfg.TTL,
		}, svlog.WithComponent("turnguard"))
		if err != nil {
			return nil, nil, survey.NewError(survey.CodeConfig, "turn guard could not connect to Redis", err)
		}
		return g, g.Close, nil
	case config.TurnGuardOff, "":
		return turnguard.Nop{}, noop, nil
	default:
		return nil, nil, fmt.Errorf("unknown turn guard mode %q", cfg.Mode)
	}
}
