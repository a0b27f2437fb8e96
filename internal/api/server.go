// Package api exposes survey agents over HTTP.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"survey-agent/internal/agent"
	svlog "survey-agent/internal/log"
	"survey-agent/internal/survey"
	"survey-agent/internal/turnguard"
)

const maxBodyBytes = 1 << 20

// RateLimitConfig limits requests per client IP. A zero RequestLimit disables limiting.
type RateLimitConfig struct {
	RequestLimit int
	WindowSize   time.Duration
}

// Config wires the router's collaborators.
type Config struct {
	Registry  *agent.Registry
	Guard     turnguard.Guard // nil disables the turn guard
	RateLimit RateLimitConfig
	Logger    zerolog.Logger
}

// Server serves survey turns for every path in the registry.
type Server struct {
	registry *agent.Registry
	guard    turnguard.Guard
	logger   zerolog.Logger
}

// NewRouter builds the HTTP handler: health, metrics and one POST route per registered agent.
func NewRouter(cfg Config) http.Handler {
	s := &Server{
		registry: cfg.Registry,
		guard:    cfg.Guard,
		logger:   cfg.Logger,
	}
	if s.guard == nil {
		s.guard = turnguard.Nop{}
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(svlog.Middleware())

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		if cfg.RateLimit.RequestLimit > 0 {
			r.Use(rateLimit(cfg.RateLimit))
		}
		for _, path := range s.registry.Paths() {
			r.Post(path, s.handleSurvey(path))
		}
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, "", survey.NewError(survey.CodeAgentNotFound, "Unknown agent: "+r.URL.Path, nil))
	})
	return r
}

// healthChecker is implemented by collaborators backed by an external service.
type healthChecker interface {
	HealthCheck(ctx context.Context) error
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if hc, ok := s.guard.(healthChecker); ok {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := hc.HealthCheck(ctx); err != nil {
			s.logger.Warn().Err(err).Msg("turn guard health check failed")
			writeJSON(w, http.StatusServiceUnavailable, map[string]bool{"ok": false})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func rateLimit(cfg RateLimitConfig) func(http.Handler) http.Handler {
	return httprate.Limit(
		cfg.RequestLimit,
		cfg.WindowSize,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Retry-After", fmt.Sprintf("%d", int(cfg.WindowSize.Seconds())))
			writeError(w, "", survey.NewError(survey.CodeRateLimited, "Too many requests. Please try again later.", nil))
		}),
	)
}
