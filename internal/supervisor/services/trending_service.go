// Curator - Intelligent Content Curation Engine
// Copyright 2026 Feedlab
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/feedlab/curator

package services

import (
	"context"
)

// TrendingLoop is the tracker surface the service wraps; satisfied by
// *trending.Tracker.
type TrendingLoop interface {
	Serve(ctx context.Context) error
}

// TrendingService runs the trending tracker's recompute loop under
// supervision, so a panic during a recompute restarts the loop without
// losing the last served snapshot.
type TrendingService struct {
	tracker TrendingLoop
}

// NewTrendingService wraps the tracker as a supervised service.
func NewTrendingService(tracker TrendingLoop) *TrendingService {
	return &TrendingService{tracker: tracker}
}

// Serve implements suture.Service.
func (s *TrendingService) Serve(ctx context.Context) error {
	return s.tracker.Serve(ctx)
}

// String implements fmt.Stringer; suture uses it in log messages.
func (s *TrendingService) String() string {
	return "trending-tracker"
}
