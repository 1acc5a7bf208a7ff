// Curator - Intelligent Content Curation Engine
// Copyright 2026 Feedlab
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/feedlab/curator

package curation

import (
	"errors"
	"fmt"
)

// Sentinel errors for the curation core. Callers branch on these with
// errors.Is; the API layer maps them to HTTP status codes.
var (
	// ErrCandidateSource wraps failures of the external candidate source.
	// No partial result is returned when this occurs.
	ErrCandidateSource = errors.New("candidate source failure")

	// ErrNotFound reports a missing profile or content item on lookup
	// and explanation calls.
	ErrNotFound = errors.New("not found")

	// ErrValidation reports malformed preferences or options, rejected
	// before any scoring work begins.
	ErrValidation = errors.New("validation failure")

	// ErrAlgorithm reports a failure inside a single scoring algorithm.
	// The pipeline recovers these locally; it is surfaced only through
	// logs and metrics.
	ErrAlgorithm = errors.New("algorithm failure")
)

// CandidateSourceError wraps the underlying fetch failure so callers can
// both match ErrCandidateSource and unwrap the cause.
func CandidateSourceError(err error) error {
	return fmt.Errorf("%w: %w", ErrCandidateSource, err)
}

// NotFoundError reports a missing entity of the given kind ("profile",
// "content") with its identifier.
func NotFoundError(kind, id string) error {
	return fmt.Errorf("%w: %s %q", ErrNotFound, kind, id)
}

// ValidationError reports an invalid field with a human-readable reason.
func ValidationError(field, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrValidation, field, reason)
}
