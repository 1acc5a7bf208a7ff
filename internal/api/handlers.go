// Curator - Intelligent Content Curation Engine
// Copyright 2026 Feedlab
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/feedlab/curator

package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sony/gobreaker/v2"

	"github.com/feedlab/curator/internal/curation"
	"github.com/feedlab/curator/internal/logging"
)

// Handler holds the curation service and implements all endpoint handlers.
type Handler struct {
	svc *curation.Service
}

// NewHandler creates the handler set over the curation service.
func NewHandler(svc *curation.Service) *Handler {
	return &Handler{svc: svc}
}

// Curate handles POST /api/v1/curate.
func (h *Handler) Curate(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req CurateRequest
	if !decodeAndValidate(rw, r, &req) {
		return
	}

	result, err := h.svc.Curate(r.Context(), req.UserID, req.Preferences, req.Limit, req.Options)
	if err != nil {
		h.respondServiceError(rw, r, err)
		return
	}
	rw.Success(result)
}

// Trending handles GET /api/v1/trending.
func (h *Handler) Trending(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		rw.BadRequest(err.Error())
		return
	}

	entries, err := h.svc.DiscoverTrending(
		r.URL.Query().Get("category"),
		curation.TrendingRange(r.URL.Query().Get("range")),
		limit,
	)
	if err != nil {
		h.respondServiceError(rw, r, err)
		return
	}

	rw.Success(map[string]interface{}{
		"entries": entries,
		"count":   len(entries),
	})
}

// AnalyzeQuality handles POST /api/v1/quality/analyze.
func (h *Handler) AnalyzeQuality(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req QualityAnalyzeRequest
	if !decodeAndValidate(rw, r, &req) {
		return
	}
	if req.Content.ID == "" {
		rw.BadRequest("content.id is required")
		return
	}

	rw.Success(h.svc.AnalyzeContentQuality(req.Content))
}

// Personalize handles POST /api/v1/personalize.
func (h *Handler) Personalize(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req PersonalizeRequest
	if !decodeAndValidate(rw, r, &req) {
		return
	}

	scored, err := h.svc.PersonalizeForUser(r.Context(), req.UserID, req.Content)
	if err != nil {
		h.respondServiceError(rw, r, err)
		return
	}

	rw.Success(map[string]interface{}{
		"user_id": req.UserID,
		"content": scored,
	})
}

// UpdatePreferences handles POST /api/v1/users/{userID}/preferences.
func (h *Handler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	userID := chi.URLParam(r, "userID")
	if userID == "" {
		rw.BadRequest("userID path parameter is required")
		return
	}

	var req PreferencesRequest
	if !decodeAndValidate(rw, r, &req) {
		return
	}

	if err := h.svc.UpdateUserPreferences(r.Context(), userID, req.Interactions); err != nil {
		h.respondServiceError(rw, r, err)
		return
	}

	rw.Accepted(map[string]interface{}{
		"user_id":      userID,
		"interactions": len(req.Interactions),
	})
}

// Explain handles GET /api/v1/users/{userID}/explanations/{contentID}.
func (h *Handler) Explain(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	userID := chi.URLParam(r, "userID")
	contentID := chi.URLParam(r, "contentID")
	if userID == "" || contentID == "" {
		rw.BadRequest("userID and contentID path parameters are required")
		return
	}

	explanation, err := h.svc.ExplainRecommendation(r.Context(), userID, contentID)
	if err != nil {
		h.respondServiceError(rw, r, err)
		return
	}
	rw.Success(explanation)
}

// Stats handles GET /api/v1/stats.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	stats, err := h.svc.Stats(r.Context())
	if err != nil {
		h.respondServiceError(rw, r, err)
		return
	}
	rw.Success(stats)
}

// Algorithms handles GET /api/v1/algorithms.
func (h *Handler) Algorithms(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	algorithms := h.svc.Registry().List()
	rw.Success(map[string]interface{}{
		"algorithms": algorithms,
		"count":      len(algorithms),
	})
}

// HealthLive handles GET /api/v1/health/live. Liveness only reports the
// process is up; it must never depend on downstream collaborators.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]string{"status": "ok"})
}

// HealthReady handles GET /api/v1/health/ready. Readiness requires the
// profile store to answer.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	if _, err := h.svc.Stats(r.Context()); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("readiness check failed")
		rw.ServiceUnavailable("profile store unavailable")
		return
	}
	rw.Success(map[string]string{"status": "ready"})
}

// respondServiceError maps curation service errors onto HTTP responses.
func (h *Handler) respondServiceError(rw *ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, curation.ErrValidation):
		rw.BadRequest(err.Error())
	case errors.Is(err, curation.ErrNotFound):
		rw.NotFound(err.Error())
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		rw.ServiceUnavailable("content source temporarily unavailable")
	case errors.Is(err, curation.ErrCandidateSource):
		rw.SourceError(err)
	default:
		logging.Ctx(r.Context()).Error().Err(err).Msg("unhandled service error")
		rw.InternalError("an internal error occurred")
	}
}
