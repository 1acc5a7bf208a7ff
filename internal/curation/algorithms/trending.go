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

const (
	engagementShare = 0.7
	freshnessShare  = 0.3

	defaultDecayHours = 24.0
)

// cfgDecayHours configures the linear age-decay window in hours.
const cfgDecayHours = "decay_hours"

// Trending scores a candidate purely from global signals: normalized
// engagement blended with a linear age decay. It ignores the profile, which
// makes it the discovery counterweight to the personalized scorers.
type Trending struct {
	decayHours float64
}

// NewTrending creates a trending scorer from an algorithm config map. A nil
// or empty config yields the default 24 hour decay window.
func NewTrending(config map[string]any) (*Trending, error) {
	a := &Trending{decayHours: defaultDecayHours}

	for key, raw := range config {
		switch key {
		case cfgDecayHours:
			hours, err := configWeight(key, raw)
			if err != nil {
				return nil, err
			}
			if hours == 0 {
				return nil, curation.ValidationError("algorithm.config", "decay_hours: must be > 0")
			}
			a.decayHours = hours
		default:
			return nil, curation.ValidationError("algorithm.config", fmt.Sprintf("unrecognized option %q", key))
		}
	}

	return a, nil
}

// Score implements curation.Scorer.
func (a *Trending) Score(content curation.ContentItem, _ *profile.Profile, now time.Time) (float64, error) {
	decay := 1.0 - content.AgeHours(now)/a.decayHours
	if decay < 0 {
		decay = 0
	}

	score := engagementShare*content.Engagement.Normalized() + freshnessShare*decay
	return clamp(score), nil
}
