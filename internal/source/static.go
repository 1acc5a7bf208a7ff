// Curator - Intelligent Content Curation Engine
// Copyright 2026 Feedlab
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/feedlab/curator

// Package source provides candidate source implementations: a static
// in-memory source as the minimum viable collaborator and a circuit
// breaker wrapper for unreliable remote sources.
package source

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/feedlab/curator/internal/curation"
	"github.com/feedlab/curator/internal/profile"
)

// Static serves candidates from an in-memory content list, optionally
// seeded from a JSON file. It implements both the candidate source and the
// trending provider contracts.
type Static struct {
	mu   sync.RWMutex
	list []curation.ContentItem
	byID map[string]curation.ContentItem
}

// NewStatic creates a static source over the given items.
func NewStatic(items []curation.ContentItem) *Static {
	s := &Static{byID: make(map[string]curation.ContentItem, len(items))}
	s.Add(items...)
	return s
}

// LoadFile creates a static source seeded from a JSON array of content
// items.
func LoadFile(path string) (*Static, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read content seed: %w", err)
	}

	var items []curation.ContentItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parse content seed %s: %w", path, err)
	}

	return NewStatic(items), nil
}

// Add appends items to the source. Items with duplicate IDs replace the
// earlier entry in lookups but not in the candidate list.
func (s *Static) Add(items ...curation.ContentItem) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range items {
		s.list = append(s.list, item)
		s.byID[item.ID] = item
	}
}

// Len returns the number of items in the source.
func (s *Static) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.list)
}

// Candidates implements curation.CandidateSource. The pool is filtered by
// the request's category and age restrictions before scoring ever sees it.
func (s *Static) Candidates(_ context.Context, _ *profile.Profile, opts curation.CurateOptions) ([]curation.ContentItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var categories map[string]struct{}
	if len(opts.Categories) > 0 {
		categories = make(map[string]struct{}, len(opts.Categories))
		for _, c := range opts.Categories {
			categories[c] = struct{}{}
		}
	}

	window := opts.TimeRange.Window()
	var cutoff time.Time
	if window > 0 {
		cutoff = time.Now().Add(-window)
	}

	out := make([]curation.ContentItem, 0, len(s.list))
	for _, item := range s.list {
		if categories != nil {
			if _, ok := categories[item.Category]; !ok {
				continue
			}
		}
		if window > 0 && item.CreatedAt.Before(cutoff) {
			continue
		}
		out = append(out, item)
	}

	return out, nil
}

// Lookup implements curation.CandidateSource.
func (s *Static) Lookup(_ context.Context, contentID string) (curation.ContentItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.byID[contentID]
	if !ok {
		return curation.ContentItem{}, curation.NotFoundError("content", contentID)
	}
	return item, nil
}

// TrendingCandidates implements trending.Provider: the full pool, with no
// per-user filtering.
func (s *Static) TrendingCandidates(_ context.Context) ([]curation.ContentItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]curation.ContentItem, len(s.list))
	copy(out, s.list)
	return out, nil
}
