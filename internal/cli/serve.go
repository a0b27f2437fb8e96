package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"survey-agent/internal/agent"
	"survey-agent/internal/api"
	svlog "survey-agent/internal/log"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP survey server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx)
		},
	}
}

func runServe(ctx context.Context) error {
	cfg := loadConfig()
	logger := svlog.WithComponent("server")

	orch, err := buildOrchestrator(ctx, cfg)
	if err != nil {
		return err
	}

	guard, closeGuard, err := buildGuard(ctx, cfg.TurnGuard)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeGuard(); err != nil {
			logger.Warn().Err(err).Msg("turn guard close failed")
		}
	}()

	registry := agent.NewRegistry()
	if err := registry.Register(cfg.Survey.Path, orch); err != nil {
		return err
	}

	srv := &http.Server{
		Addr: cfg.Server.Addr,
		Handler: api.NewRouter(api.Config{
			Registry: registry,
			Guard:    guard,
			RateLimit: api.RateLimitConfig{
				RequestLimit: cfg.RateLimit.Requests,
				WindowSize:   cfg.RateLimit.Window,
			},
			Logger: svlog.WithComponent("api"),
		}),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info().
			Str("addr", cfg.Server.Addr).
			Str("survey_path", cfg.Survey.Path).
			Str("turn_guard", cfg.TurnGuard.Mode).
			Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		logger.Info().Msg("shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
