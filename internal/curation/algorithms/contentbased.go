// Curator - Intelligent Content Curation Engine
// Copyright 2026 Feedlab
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/feedlab/curator

package algorithms

import (
	"fmt"
	"time"

	"github.com/feedlab/curator/internal/curation"
	"github.com/feedlab/curator/internal/profile"
)

// Default feature weights for content-based matching.
const (
	defaultCategoryWeight = 0.4
	defaultCreatorWeight  = 0.3
	defaultTagWeight      = 0.2
	defaultQualityWeight  = 0.1
)

// Recognized configuration keys for the content-based scorer. Unknown keys
// are rejected at construction so typos surface at registration time, not
// as silently ignored options during scoring.
const (
	cfgCategoryWeight = "category_weight"
	cfgCreatorWeight  = "creator_weight"
	cfgTagWeight      = "tag_weight"
	cfgQualityWeight  = "quality_weight"
)

// ContentBased scores a candidate from per-feature matches against the
// user's declared preferences: category membership, creator follow, tag
// overlap, and the item's raw quality score, each weighted by the
// configured feature weights.
type ContentBased struct {
	categoryWeight float64
	creatorWeight  float64
	tagWeight      float64
	qualityWeight  float64
}

// NewContentBased creates a content-based scorer from an algorithm config
// map. A nil or empty config yields the default feature weights.
func NewContentBased(config map[string]any) (*ContentBased, error) {
	a := &ContentBased{
		categoryWeight: defaultCategoryWeight,
		creatorWeight:  defaultCreatorWeight,
		tagWeight:      defaultTagWeight,
		qualityWeight:  defaultQualityWeight,
	}

	for key, raw := range config {
		w, err := configWeight(key, raw)
		if err != nil {
			return nil, err
		}

		switch key {
		case cfgCategoryWeight:
			a.categoryWeight = w
		case cfgCreatorWeight:
			a.creatorWeight = w
		case cfgTagWeight:
			a.tagWeight = w
		case cfgQualityWeight:
			a.qualityWeight = w
		default:
			return nil, curation.ValidationError("algorithm.config", fmt.Sprintf("unrecognized option %q", key))
		}
	}

	return a, nil
}

func configWeight(key string, raw any) (float64, error) {
	var w float64
	switch v := raw.(type) {
	case float64:
		w = v
	case int:
		w = float64(v)
	default:
		return 0, curation.ValidationError("algorithm.config", fmt.Sprintf("%s: expected number, got %T", key, raw))
	}

	if w < 0 {
		return 0, curation.ValidationError("algorithm.config", fmt.Sprintf("%s: must be >= 0", key))
	}
	return w, nil
}

// Score implements curation.Scorer.
func (a *ContentBased) Score(content curation.ContentItem, p *profile.Profile, _ time.Time) (float64, error) {
	var score float64

	if p.PrefersCategory(content.Category) {
		score += a.categoryWeight
	}
	if p.FollowsCreator(content.CreatorID) {
		score += a.creatorWeight
	}
	score += a.tagWeight * tagOverlap(content.Tags, p.Preferences.Tags)
	score += a.qualityWeight * content.QualityScore

	return clamp(score), nil
}
