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

// Weight split between the behavioral and the declared-follow signal.
const (
	affinityShare = 0.6
	creatorShare  = 0.4
)

// Collaborative scores a candidate from the user's observed category
// affinity blended with a binary followed-creator signal. It is the
// behavioral half of the recommendation pair: content the user's past
// interactions point at ranks higher.
type Collaborative struct{}

// NewCollaborative creates the collaborative filtering scorer.
func NewCollaborative() *Collaborative {
	return &Collaborative{}
}

// Score implements curation.Scorer.
func (a *Collaborative) Score(content curation.ContentItem, p *profile.Profile, _ time.Time) (float64, error) {
	score := affinityShare * p.CategoryAffinity(content.Category)
	if p.FollowsCreator(content.CreatorID) {
		score += creatorShare
	}
	return clamp(score), nil
}
