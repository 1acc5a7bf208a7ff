// Curator - Intelligent Content Curation Engine
// Copyright 2026 Feedlab
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/feedlab/curator

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus Metrics Integration for Production Observability
// This package provides instrumentation for:
// - Curation request latency and throughput
// - Per-algorithm scoring behavior and failure isolation
// - Quality filtering and diversification effects
// - Trending snapshot recomputation
// - Profile store and content cache sizes
// - API endpoint latency and throughput

var (
	// Curation Request Metrics
	CurationRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "curation_requests_total",
			Help: "Total number of curation requests",
		},
		[]string{"result"}, // "success", "source_error", "validation_error"
	)

	CurationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "curation_duration_seconds",
			Help:    "End-to-end duration of curation requests in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
	)

	CurationCandidatePoolSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "curation_candidate_pool_size",
			Help:    "Number of candidates fetched per curation request",
			Buckets: []float64{10, 25, 50, 100, 250, 500, 1000, 5000},
		},
	)

	CurationResultSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "curation_result_size",
			Help:    "Number of items returned per curation request",
			Buckets: []float64{1, 5, 10, 20, 50, 100},
		},
	)

	// Scoring Pipeline Metrics
	ScoringDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "scoring_duration_seconds",
			Help:    "Duration of the scoring pass over a candidate pool",
			Buckets: prometheus.DefBuckets,
		},
	)

	AlgorithmScores = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "algorithm_score",
			Help:    "Distribution of per-algorithm scores",
			Buckets: []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1},
		},
		[]string{"algorithm"},
	)

	AlgorithmFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "algorithm_failures_total",
			Help: "Total number of isolated per-algorithm scoring failures",
		},
		[]string{"algorithm", "kind"}, // kind: "error", "panic"
	)

	// Quality / Diversity Metrics
	QualityFilteredOut = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quality_filtered_out_total",
			Help: "Total number of candidates dropped by the quality filter",
		},
		[]string{"tier"},
	)

	DiversityDeferred = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "diversity_deferred_total",
			Help: "Total number of candidates deferred by diversification caps",
		},
	)

	// Trending Tracker Metrics
	TrendingRecomputeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "trending_recompute_duration_seconds",
			Help:    "Duration of trending snapshot recomputations",
			Buckets: prometheus.DefBuckets,
		},
	)

	TrendingRecomputesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trending_recomputes_total",
			Help: "Total number of trending snapshot recomputations",
		},
		[]string{"result"}, // "success", "error"
	)

	TrendingSnapshotSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "trending_snapshot_entries",
			Help: "Number of entries in the current trending snapshot",
		},
	)

	// Profile Store Metrics
	ProfilesTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "profiles_total",
			Help: "Current number of stored personalization profiles",
		},
	)

	ProfileUpdatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "profile_updates_total",
			Help: "Total number of profile mutations",
		},
		[]string{"action"}, // "view", "like", "share", "skip", "report", "preferences"
	)

	// Content Cache Metrics
	ContentCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "content_cache_hits_total",
			Help: "Total number of content cache hits",
		},
	)

	ContentCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "content_cache_misses_total",
			Help: "Total number of content cache misses",
		},
	)

	ContentCacheSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "content_cache_entries",
			Help: "Current number of cached content items",
		},
	)

	// Event Bus Metrics
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_published_total",
			Help: "Total number of events published to the bus",
		},
		[]string{"topic"},
	)

	EventPublishErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "event_publish_errors_total",
			Help: "Total number of event publish failures",
		},
		[]string{"topic"},
	)

	// Candidate Source / Circuit Breaker Metrics
	CandidateSourceRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "candidate_source_requests_total",
			Help: "Total number of candidate source requests",
		},
		[]string{"result"}, // "success", "failure", "rejected"
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)
)

// RecordCuration records the outcome of one curation request.
func RecordCuration(result string, duration time.Duration, poolSize, resultSize int) {
	CurationRequestsTotal.WithLabelValues(result).Inc()
	if result == "success" {
		CurationDuration.Observe(duration.Seconds())
		CurationCandidatePoolSize.Observe(float64(poolSize))
		CurationResultSize.Observe(float64(resultSize))
	}
}

// RecordAlgorithmScore records one algorithm's score for one candidate.
func RecordAlgorithmScore(algorithm string, score float64) {
	AlgorithmScores.WithLabelValues(algorithm).Observe(score)
}

// RecordAlgorithmFailure records an isolated algorithm failure.
func RecordAlgorithmFailure(algorithm, kind string) {
	AlgorithmFailures.WithLabelValues(algorithm, kind).Inc()
}

// RecordTrendingRecompute records a trending snapshot rebuild.
func RecordTrendingRecompute(duration time.Duration, entries int, err error) {
	if err != nil {
		TrendingRecomputesTotal.WithLabelValues("error").Inc()
		return
	}
	TrendingRecomputesTotal.WithLabelValues("success").Inc()
	TrendingRecomputeDuration.Observe(duration.Seconds())
	TrendingSnapshotSize.Set(float64(entries))
}

// RecordAPIRequest records an API request with its status and duration.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements the active request gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}
