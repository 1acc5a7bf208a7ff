// Curator - Intelligent Content Curation Engine
// Copyright 2026 Feedlab
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/feedlab/curator

package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/feedlab/curator/internal/curation"
	"github.com/feedlab/curator/internal/profile"
	"github.com/feedlab/curator/internal/validation"
)

// maxRequestBody bounds request body size to prevent memory exhaustion.
const maxRequestBody = 1 << 20 // 1 MiB

// CurateRequest is the body of POST /api/v1/curate.
type CurateRequest struct {
	UserID      string                   `json:"user_id" validate:"required,max=128"`
	Limit       int                      `json:"limit" validate:"min=0,max=200"`
	Preferences *profile.UserPreferences `json:"preferences,omitempty"`
	Options     curation.CurateOptions   `json:"options"`
}

// PersonalizeRequest is the body of POST /api/v1/personalize.
type PersonalizeRequest struct {
	UserID  string                 `json:"user_id" validate:"required,max=128"`
	Content []curation.ContentItem `json:"content" validate:"required,min=1,max=500"`
}

// PreferencesRequest is the body of POST /api/v1/users/{userID}/preferences.
type PreferencesRequest struct {
	Interactions []curation.Interaction `json:"interactions" validate:"required,min=1,max=100"`
}

// QualityAnalyzeRequest is the body of POST /api/v1/quality/analyze.
type QualityAnalyzeRequest struct {
	Content curation.ContentItem `json:"content" validate:"required"`
}

// decodeJSON decodes a bounded JSON request body into dst and rejects
// unknown fields, so client typos surface as 400s instead of silently
// dropped settings.
func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	// A second document after the first is also a malformed request.
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("request body must contain a single JSON object")
	}
	return nil
}

// decodeAndValidate decodes the body and runs struct validation, writing
// the error response itself. Returns false when the handler should stop.
func decodeAndValidate(rw *ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := decodeJSON(r, dst); err != nil {
		rw.BadRequest(err.Error())
		return false
	}
	if verr := validation.ValidateStruct(dst); verr != nil {
		apiErr := verr.ToAPIError()
		rw.ValidationError(apiErr.Message, apiErr.Details)
		return false
	}
	return true
}

// queryInt parses an integer query parameter, returning def when absent.
func queryInt(r *http.Request, key string, def int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", key)
	}
	return v, nil
}
