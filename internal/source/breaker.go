// Curator - Intelligent Content Curation Engine
// Copyright 2026 Feedlab
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/feedlab/curator

package source

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"

	"github.com/feedlab/curator/internal/curation"
	"github.com/feedlab/curator/internal/metrics"
	"github.com/feedlab/curator/internal/profile"
)

const breakerName = "candidate_source"

// Breaker wraps a candidate source with a circuit breaker so a failing
// source sheds load fast instead of stacking up timed-out requests.
type Breaker struct {
	inner    curation.CandidateSource
	poolCB   *gobreaker.CircuitBreaker[[]curation.ContentItem]
	lookupCB *gobreaker.CircuitBreaker[curation.ContentItem]
	logger   zerolog.Logger
}

// BreakerConfig tunes the circuit breaker.
type BreakerConfig struct {
	// ConsecutiveFailures before the breaker opens. Zero selects 5.
	ConsecutiveFailures uint32

	// OpenTimeout before a half-open probe. Zero selects 30s.
	OpenTimeout time.Duration
}

// NewBreaker wraps inner with a circuit breaker.
func NewBreaker(inner curation.CandidateSource, cfg BreakerConfig, logger zerolog.Logger) *Breaker {
	if cfg.ConsecutiveFailures == 0 {
		cfg.ConsecutiveFailures = 5
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 30 * time.Second
	}

	l := logger.With().Str("component", "source_breaker").Logger()

	settings := gobreaker.Settings{
		Name:    breakerName,
		Timeout: cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.ConsecutiveFailures
		},
		// A missing content item is a valid answer, not a source outage.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, curation.ErrNotFound)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateValue(to))
			l.Warn().
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("candidate source breaker state changed")
		},
	}

	return &Breaker{
		inner:    inner,
		poolCB:   gobreaker.NewCircuitBreaker[[]curation.ContentItem](settings),
		lookupCB: gobreaker.NewCircuitBreaker[curation.ContentItem](settings),
		logger:   l,
	}
}

// Candidates implements curation.CandidateSource.
func (b *Breaker) Candidates(ctx context.Context, p *profile.Profile, opts curation.CurateOptions) ([]curation.ContentItem, error) {
	pool, err := b.poolCB.Execute(func() ([]curation.ContentItem, error) {
		return b.inner.Candidates(ctx, p, opts)
	})
	recordOutcome(err)
	return pool, err
}

// Lookup implements curation.CandidateSource.
func (b *Breaker) Lookup(ctx context.Context, contentID string) (curation.ContentItem, error) {
	item, err := b.lookupCB.Execute(func() (curation.ContentItem, error) {
		return b.inner.Lookup(ctx, contentID)
	})
	recordOutcome(err)
	return item, err
}

func recordOutcome(err error) {
	switch {
	case err == nil:
		metrics.CandidateSourceRequests.WithLabelValues("success").Inc()
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.CandidateSourceRequests.WithLabelValues("rejected").Inc()
	default:
		metrics.CandidateSourceRequests.WithLabelValues("failure").Inc()
	}
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
