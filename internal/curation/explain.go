// Curator - Intelligent Content Curation Engine
// Copyright 2026 Feedlab
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/feedlab/curator

package curation

import (
	"fmt"

	"github.com/feedlab/curator/internal/profile"
)

// Explanation factor names. These appear verbatim in API responses.
const (
	factorCategory   = "Similar content preferences"
	factorCreator    = "Creator following patterns"
	factorTrending   = "Trending in your interests"
	factorQuality    = "Quality score"
	factorEngagement = "Engagement similarity"
)

// Per-factor weights of the explanation breakdown.
const (
	explainCategoryWeight   = 0.3
	explainCreatorWeight    = 0.25
	explainTrendingWeight   = 0.2
	explainQualityWeight    = 0.15
	explainEngagementWeight = 0.1
)

// Factor contributions for binary matches. A miss still contributes a small
// baseline so the confidence never collapses to zero.
const (
	categoryMatchHit    = 0.9
	categoryMatchMiss   = 0.1
	creatorMatchHit     = 0.95
	creatorMatchMiss    = 0.2
	trendingMatchAbsent = 0.3
)

// reasonFloor is the minimum contribution for a factor to produce a reason.
const reasonFloor = 0.6

// TrendingLookup resolves the current trending score of a content item.
// Implemented by the trending tracker; absent items report ok=false.
type TrendingLookup interface {
	TrendingScore(contentID string) (float64, bool)
}

// Explain recomputes the fixed five-factor breakdown that tells a user why
// a content item ranks for them, with natural-language reasons for every
// factor whose contribution clears the reason floor.
func Explain(content ContentItem, p *profile.Profile, trending TrendingLookup) Explanation {
	factors := []Factor{
		{
			Factor:       factorCategory,
			Weight:       explainCategoryWeight,
			Contribution: categoryMatch(p, content),
		},
		{
			Factor:       factorCreator,
			Weight:       explainCreatorWeight,
			Contribution: creatorMatch(p, content),
		},
		{
			Factor:       factorTrending,
			Weight:       explainTrendingWeight,
			Contribution: trendingMatch(trending, content),
		},
		{
			Factor:       factorQuality,
			Weight:       explainQualityWeight,
			Contribution: content.QualityScore,
		},
		{
			Factor:       factorEngagement,
			Weight:       explainEngagementWeight,
			Contribution: content.Engagement.Normalized(),
		},
	}

	var confidence float64
	reasons := make([]string, 0, len(factors))
	for _, f := range factors {
		confidence += f.Weight * f.Contribution
		if f.Contribution > reasonFloor {
			reasons = append(reasons, reasonText(f.Factor, f.Contribution))
		}
	}

	return Explanation{
		Reasons:    reasons,
		Confidence: confidence,
		Factors:    factors,
	}
}

func categoryMatch(p *profile.Profile, content ContentItem) float64 {
	if p.PrefersCategory(content.Category) {
		return categoryMatchHit
	}
	return categoryMatchMiss
}

func creatorMatch(p *profile.Profile, content ContentItem) float64 {
	if p.FollowsCreator(content.CreatorID) {
		return creatorMatchHit
	}
	return creatorMatchMiss
}

func trendingMatch(trending TrendingLookup, content ContentItem) float64 {
	if trending != nil {
		if score, ok := trending.TrendingScore(content.ID); ok {
			return score
		}
	}
	return trendingMatchAbsent
}

func reasonText(factor string, contribution float64) string {
	intensity := "somewhat"
	switch {
	case contribution > 0.8:
		intensity = "highly"
	case contribution > 0.6:
		intensity = "moderately"
	}

	switch factor {
	case factorCategory:
		return fmt.Sprintf("This content is %s similar to content you've enjoyed before", intensity)
	case factorCreator:
		return fmt.Sprintf("You %s engage with content from this creator", intensity)
	case factorTrending:
		return fmt.Sprintf("This content is %s trending in your areas of interest", intensity)
	case factorQuality:
		return fmt.Sprintf("This content has %s high quality metrics", intensity)
	case factorEngagement:
		return fmt.Sprintf("This content has %s similar engagement to your preferences", intensity)
	}
	return fmt.Sprintf("This content %s matches your preferences", intensity)
}
