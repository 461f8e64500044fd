package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels for AnalysisRequests.
const (
	OutcomeCacheHit    = "cache_hit"
	OutcomeGenerated   = "generated"
	OutcomeRegenerated = "regenerated"
	OutcomeInvalid     = "invalid"
	OutcomeUnavailable = "unavailable"
	OutcomeTransient   = "transient"
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stressless_http_requests_total",
			Help: "HTTP requests by route, method and status code",
		},
		[]string{"route", "method", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "stressless_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	AnalysisRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stressless_analysis_requests_total",
			Help: "AI analysis requests by outcome",
		},
		[]string{"outcome"},
	)

	AnalysisPersistFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "stressless_analysis_persist_failures_total",
			Help: "Generated analyses that could not be written back to storage",
		},
	)

	GenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "stressless_llm_generation_duration_seconds",
			Help:    "Language model call latency by purpose",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60},
		},
		[]string{"purpose"},
	)

	AssessmentsScored = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stressless_assessments_scored_total",
			Help: "Completed assessments by overall stress level",
		},
		[]string{"level"},
	)

	QuestionHistoryResets = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stressless_question_history_resets_total",
			Help: "Times a category's question pool was exhausted and its history reset",
		},
		[]string{"category"},
	)
)

// Handler exposes the default registry for gin.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
