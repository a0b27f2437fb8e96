// Package metrics exposes Prometheus collectors for survey traffic.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	surveysStarted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "survey",
		Name:      "started_total",
		Help:      "Surveys started (first-contact turns).",
	})

	surveysCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "survey",
		Name:      "completed_total",
		Help:      "Surveys finalized with a summary.",
	})

	turnsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "survey",
		Name:      "turns_total",
		Help:      "Survey turns by resulting status and decision branch.",
	}, []string{"status", "branch"})

	parseFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "survey",
		Name:      "parse_fallbacks_total",
		Help:      "Routing turns recovered locally after an unparseable model reply.",
	})

	parseErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "survey",
		Name:      "parse_errors_total",
		Help:      "Model replies that did not match the expected JSON shape, by prompt kind.",
	}, []string{"kind"})

	oracleCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "survey",
		Name:      "oracle_calls_total",
		Help:      "Model calls by prompt kind and outcome.",
	}, []string{"kind", "outcome"})

	oracleDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "survey",
		Name:      "oracle_duration_seconds",
		Help:      "Model call latency by prompt kind.",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
	}, []string{"kind"})

	staleTurns = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "survey",
		Name:      "stale_turns_total",
		Help:      "Turns rejected because their state was already committed.",
	})
)

// IncrementSurveysStarted counts a first-contact turn.
func IncrementSurveysStarted() {
	surveysStarted.Inc()
}

// IncrementSurveysCompleted counts a finalized survey.
func IncrementSurveysCompleted() {
	surveysCompleted.Inc()
}

// RecordTurn counts a finished turn.
func RecordTurn(status, branch string) {
	turnsTotal.WithLabelValues(status, branch).Inc()
}

// IncrementParseFallbacks counts a locally recovered routing parse failure.
func IncrementParseFallbacks() {
	parseFallbacks.Inc()
}

// IncrementParseErrors counts a malformed model reply.
func IncrementParseErrors(kind string) {
	parseErrors.WithLabelValues(kind).Inc()
}

// ObserveOracleCall records one model call. outcome is "ok" or "error".
func ObserveOracleCall(kind, outcome string, d time.Duration) {
	oracleCalls.WithLabelValues(kind, outcome).Inc()
	oracleDuration.WithLabelValues(kind).Observe(d.Seconds())
}

// IncrementStaleTurns counts a replayed state rejected by the turn guard.
func IncrementStaleTurns() {
	staleTurns.Inc()
}
