// Scentmatch - Fragrance Catalog Matching and Recommendation
// Copyright 2026 Scentmatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scentmatch/scentmatch

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// API metrics.
var (
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)
)

// Recommendation metrics.
var (
	RecommendRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_requests_total",
			Help: "Total number of recommendation requests",
		},
		[]string{"status"},
	)

	RecommendDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommend_duration_seconds",
			Help:    "End-to-end recommendation duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	RecommendResultCount = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommend_result_count",
			Help:    "Number of results returned per recommendation",
			Buckets: []float64{1, 5, 10, 20, 50},
		},
	)
)

// Engine model metrics.
var (
	EngineBuildsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_builds_total",
			Help: "Total number of catalog model builds",
		},
		[]string{"result"},
	)

	EngineBuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "engine_build_duration_seconds",
			Help:    "Catalog model build duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	EngineModelVersion = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "engine_model_version",
			Help: "Version counter of the active catalog model",
		},
	)

	EngineVocabularySize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "engine_vocabulary_size",
			Help: "Number of terms in the active model vocabulary",
		},
	)

	EngineDocuments = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "engine_documents",
			Help: "Number of catalog documents in the active model",
		},
	)
)

// Catalog store metrics.
var (
	CatalogItems = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_items",
			Help: "Current number of fragrances in the catalog store",
		},
	)

	CatalogMutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_mutations_total",
			Help: "Total number of catalog mutations",
		},
		[]string{"operation"},
	)
)

// Re-ranker metrics.
var (
	RerankRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rerank_requests_total",
			Help: "Total number of re-rank attempts by outcome",
		},
		[]string{"outcome"},
	)

	RerankDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "rerank_duration_seconds",
			Help:    "External re-rank call duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
)

// Circuit breaker metrics, labeled by breaker name.
var (
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"},
	)
)

// RecordAPIRequest records one completed HTTP request.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordRecommendation records one recommendation request outcome.
func RecordRecommendation(status string, results int, duration time.Duration) {
	RecommendRequestsTotal.WithLabelValues(status).Inc()
	RecommendDuration.Observe(duration.Seconds())
	if status == "ok" {
		RecommendResultCount.Observe(float64(results))
	}
}

// RecordEngineBuild records a model build attempt and, on success, the
// resulting model statistics.
func RecordEngineBuild(err error, duration time.Duration, version uint64, vocabulary, documents int) {
	if err != nil {
		EngineBuildsTotal.WithLabelValues("error").Inc()
		return
	}
	EngineBuildsTotal.WithLabelValues("ok").Inc()
	EngineBuildDuration.Observe(duration.Seconds())
	EngineModelVersion.Set(float64(version))
	EngineVocabularySize.Set(float64(vocabulary))
	EngineDocuments.Set(float64(documents))
}

// RecordRerank records one re-rank attempt. Outcome is "ok" or the
// fallback reason.
func RecordRerank(outcome string, duration time.Duration) {
	RerankRequestsTotal.WithLabelValues(outcome).Inc()
	RerankDuration.Observe(duration.Seconds())
}
