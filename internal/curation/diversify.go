// Curator - Intelligent Content Curation Engine
// Copyright 2026 Feedlab
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/feedlab/curator

package curation

import (
	"math"

	"github.com/feedlab/curator/internal/metrics"
)

// Diversification caps: no category may fill more than 40% of the
// requested result size, no creator more than 30%.
const (
	categoryCapShare = 0.4
	creatorCapShare  = 0.3
)

// Diversify enforces per-category and per-creator representation caps over
// a scored pool. It greedily accepts candidates in input order while both
// caps hold, deferring the rest; deferred candidates then backfill the
// remaining slots in their original order so the result is never
// under-filled when the pool could satisfy the limit.
//
// Caps are proportional to limit, never the pool size, so a larger pool
// cannot loosen them.
func Diversify(pool []ScoredContent, limit int) []ScoredContent {
	if limit <= 0 || len(pool) == 0 {
		return []ScoredContent{}
	}

	categoryCap := int(math.Ceil(float64(limit) * categoryCapShare))
	creatorCap := int(math.Ceil(float64(limit) * creatorCapShare))

	categoryCounts := make(map[string]int)
	creatorCounts := make(map[string]int)

	selected := make([]ScoredContent, 0, limit)
	deferred := make([]ScoredContent, 0, len(pool))

	for _, sc := range pool {
		if len(selected) >= limit {
			break
		}
		if categoryCounts[sc.Content.Category] >= categoryCap ||
			creatorCounts[sc.Content.CreatorID] >= creatorCap {
			deferred = append(deferred, sc)
			metrics.DiversityDeferred.Inc()
			continue
		}
		categoryCounts[sc.Content.Category]++
		creatorCounts[sc.Content.CreatorID]++
		selected = append(selected, sc)
	}

	// Backfill: filling the limit outranks holding the caps when the pool
	// is not distinct enough.
	for _, sc := range deferred {
		if len(selected) >= limit {
			break
		}
		selected = append(selected, sc)
	}

	return selected
}
