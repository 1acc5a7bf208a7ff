// Curator - Intelligent Content Curation Engine
// Copyright 2026 Feedlab
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/feedlab/curator

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/feedlab/curator/internal/curation"
)

// Router builds the Chi routing tree for the curation API.
type Router struct {
	handler    *Handler
	middleware *Middleware
}

// NewRouter creates the router over the curation service.
func NewRouter(svc *curation.Service, config *MiddlewareConfig) *Router {
	return &Router{
		handler:    NewHandler(svc),
		middleware: NewMiddleware(config),
	}
}

// Setup builds the complete routing tree with middleware applied at the
// narrowest scope that still covers every matching route.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware. CORS must run before routing so OPTIONS
	// preflight requests are answered for every route.
	r.Use(RequestID())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(SecurityHeaders())
	r.Use(router.middleware.CORS())
	r.Use(AccessLog())

	// Health endpoints: permissive rate limit so probes are not starved.
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.middleware.RateLimitHealth())
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	// Read endpoints.
	r.Group(func(r chi.Router) {
		r.Use(router.middleware.RateLimit())

		r.With(PrometheusMetrics("/api/v1/trending")).
			Get("/api/v1/trending", router.handler.Trending)
		r.With(PrometheusMetrics("/api/v1/stats")).
			Get("/api/v1/stats", router.handler.Stats)
		r.With(PrometheusMetrics("/api/v1/algorithms")).
			Get("/api/v1/algorithms", router.handler.Algorithms)
		r.With(PrometheusMetrics("/api/v1/users/explanations")).
			Get("/api/v1/users/{userID}/explanations/{contentID}", router.handler.Explain)
	})

	// Write endpoints: stricter rate limit.
	r.Group(func(r chi.Router) {
		r.Use(router.middleware.RateLimitWrite())

		r.With(PrometheusMetrics("/api/v1/curate")).
			Post("/api/v1/curate", router.handler.Curate)
		r.With(PrometheusMetrics("/api/v1/personalize")).
			Post("/api/v1/personalize", router.handler.Personalize)
		r.With(PrometheusMetrics("/api/v1/quality/analyze")).
			Post("/api/v1/quality/analyze", router.handler.AnalyzeQuality)
		r.With(PrometheusMetrics("/api/v1/users/preferences")).
			Post("/api/v1/users/{userID}/preferences", router.handler.UpdatePreferences)
	})

	// Prometheus scrape endpoint, outside the /api/v1 envelope.
	r.Handle("/metrics", promhttp.Handler())

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		NewResponseWriter(w, req).NotFound("endpoint not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		NewResponseWriter(w, req).Error(http.StatusMethodNotAllowed, ErrCodeBadRequest, "method not allowed")
	})

	return r
}
