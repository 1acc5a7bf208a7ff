// Curator - Intelligent Content Curation Engine
// Copyright 2026 Feedlab
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/feedlab/curator

package algorithms

import (
	"fmt"

	"github.com/feedlab/curator/internal/curation"
)

// RegisterDefaults populates a registry with the standard algorithm set:
// collaborative filtering, content-based filtering, trending analysis, and
// the ML ranker, with their default weights and accuracy estimates.
func RegisterDefaults(registry *curation.Registry) error {
	contentBased, err := NewContentBased(nil)
	if err != nil {
		return fmt.Errorf("content-based defaults: %w", err)
	}
	trending, err := NewTrending(nil)
	if err != nil {
		return fmt.Errorf("trending defaults: %w", err)
	}

	set := []struct {
		desc   curation.Algorithm
		scorer curation.Scorer
	}{
		{
			desc: curation.Algorithm{
				ID:       "collaborative",
				Name:     "Collaborative Filtering",
				Type:     curation.TypeRecommendation,
				Weight:   0.3,
				Accuracy: 0.85,
				Active:   true,
			},
			scorer: NewCollaborative(),
		},
		{
			desc: curation.Algorithm{
				ID:       "content-based",
				Name:     "Content-Based Filtering",
				Type:     curation.TypeRecommendation,
				Weight:   0.25,
				Accuracy: 0.82,
				Active:   true,
				Config: map[string]any{
					cfgCategoryWeight: defaultCategoryWeight,
					cfgCreatorWeight:  defaultCreatorWeight,
					cfgTagWeight:      defaultTagWeight,
					cfgQualityWeight:  defaultQualityWeight,
				},
			},
			scorer: contentBased,
		},
		{
			desc: curation.Algorithm{
				ID:       "trending",
				Name:     "Trending Analysis",
				Type:     curation.TypeDiscovery,
				Weight:   0.2,
				Accuracy: 0.78,
				Active:   true,
				Config: map[string]any{
					cfgDecayHours: defaultDecayHours,
				},
			},
			scorer: trending,
		},
		{
			desc: curation.Algorithm{
				ID:       "ml-ranker",
				Name:     "ML-Enhanced Discovery",
				Type:     curation.TypeML,
				Weight:   0.25,
				Accuracy: 0.91,
				Active:   true,
			},
			scorer: NewMLRanker(),
		},
	}

	for _, entry := range set {
		if err := registry.Register(entry.desc, entry.scorer); err != nil {
			return fmt.Errorf("register %s: %w", entry.desc.ID, err)
		}
	}

	return nil
}
