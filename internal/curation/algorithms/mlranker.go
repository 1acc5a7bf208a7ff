// Curator - Intelligent Content Curation Engine
// Copyright 2026 Feedlab
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/feedlab/curator

package algorithms

import (
	"time"

	"github.com/feedlab/curator/internal/curation"
	"github.com/feedlab/curator/internal/profile"
)

const (
	mlCategoryShare   = 0.4
	mlQualityShare    = 0.3
	mlEngagementShare = 0.3

	// Items above this raw quality earn the fixed quality bonus.
	mlQualityBonusFloor = 0.7
	mlQualityBonus      = 0.2
)

// MLRanker approximates a learned ranker with a fixed linear blend of
// category match, a stepped quality bonus, and normalized engagement.
type MLRanker struct{}

// NewMLRanker creates the ML ranking scorer.
func NewMLRanker() *MLRanker {
	return &MLRanker{}
}

// Score implements curation.Scorer.
func (a *MLRanker) Score(content curation.ContentItem, p *profile.Profile, _ time.Time) (float64, error) {
	var score float64

	if p.PrefersCategory(content.Category) {
		score += mlCategoryShare
	}
	if content.QualityScore > mlQualityBonusFloor {
		score += mlQualityShare * mlQualityBonus
	}
	score += mlEngagementShare * content.Engagement.Normalized()

	return clamp(score), nil
}
