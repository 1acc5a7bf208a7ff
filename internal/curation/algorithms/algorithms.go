// Curator - Intelligent Content Curation Engine
// Copyright 2026 Feedlab
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/feedlab/curator

// Package algorithms implements the scoring algorithms of the curation
// pipeline.
//
// Each scorer implements the curation.Scorer interface and is registered
// with the algorithm registry together with its descriptor.
//
// # Algorithm Categories
//
//   - Recommendation: Collaborative, ContentBased
//   - Discovery: Trending
//   - ML: MLRanker
//
// # Thread Safety
//
// All scorers are immutable after construction and safe for concurrent use.
package algorithms

import (
	"github.com/feedlab/curator/internal/curation"
)

// clamp bounds a score to [0, 1].
func clamp(v float64) float64 {
	if v > 1.0 {
		return 1.0
	}
	if v < 0.0 {
		return 0.0
	}
	return v
}

// tagOverlap returns the share of content tags that appear in the user's
// declared tag interests.
func tagOverlap(contentTags, userTags []string) float64 {
	if len(contentTags) == 0 {
		return 0
	}

	interests := make(map[string]struct{}, len(userTags))
	for _, t := range userTags {
		interests[t] = struct{}{}
	}

	matched := 0
	for _, t := range contentTags {
		if _, ok := interests[t]; ok {
			matched++
		}
	}

	return float64(matched) / float64(len(contentTags))
}

// Ensure all scorers implement the interface.
var (
	_ curation.Scorer = (*Collaborative)(nil)
	_ curation.Scorer = (*ContentBased)(nil)
	_ curation.Scorer = (*Trending)(nil)
	_ curation.Scorer = (*MLRanker)(nil)
)
