// Curator - Intelligent Content Curation Engine
// Copyright 2026 Feedlab
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/feedlab/curator

// Package profile owns per-user personalization state: declared preferences,
// observed behavior, and the interest vector that drives collaborative and
// content-based scoring.
package profile

import (
	"time"
)

// MaxHistoryEntries bounds the viewed-content history per profile.
// Older entries are dropped first when the bound is exceeded.
const MaxHistoryEntries = 1000

// InterestVectorSize is the fixed dimensionality of the interest vector.
const InterestVectorSize = 20

// Affinity adjustment applied per interaction action.
const (
	likeBoost     = 0.1
	skipPenalty   = 0.05
	reportPenalty = 0.2
)

// Action classifies an explicit user feedback event on a content item.
type Action string

const (
	// ActionView records consumption without an affinity signal.
	ActionView Action = "view"
	// ActionLike is a positive signal.
	ActionLike Action = "like"
	// ActionShare is a positive signal, weighted like a like.
	ActionShare Action = "share"
	// ActionSkip is a weak negative signal.
	ActionSkip Action = "skip"
	// ActionReport is a strong negative signal.
	ActionReport Action = "report"
)

// Valid reports whether the action is one of the recognized values.
func (a Action) Valid() bool {
	switch a {
	case ActionView, ActionLike, ActionShare, ActionSkip, ActionReport:
		return true
	}
	return false
}

// UserPreferences holds a user's declared content preferences.
type UserPreferences struct {
	// Categories the user wants to see.
	Categories []string `json:"categories"`

	// Creators the user follows.
	Creators []string `json:"creators"`

	// Tags the user is interested in.
	Tags []string `json:"tags"`

	// ContentTypes the user accepts (video, image, text, ...).
	ContentTypes []string `json:"content_types"`
}

// DefaultPreferences returns the preferences assigned to a profile created
// without any declared preferences.
func DefaultPreferences() UserPreferences {
	return UserPreferences{
		Categories:   []string{"lifestyle", "entertainment"},
		Creators:     []string{},
		Tags:         []string{},
		ContentTypes: []string{"video", "image"},
	}
}

// Merge overlays non-empty fields of other onto p.
func (p *UserPreferences) Merge(other UserPreferences) {
	if len(other.Categories) > 0 {
		p.Categories = other.Categories
	}
	if len(other.Creators) > 0 {
		p.Creators = other.Creators
	}
	if len(other.Tags) > 0 {
		p.Tags = other.Tags
	}
	if len(other.ContentTypes) > 0 {
		p.ContentTypes = other.ContentTypes
	}
}

// BehaviorHistory captures observed user behavior.
type BehaviorHistory struct {
	// ViewedContent is the ordered list of viewed content IDs,
	// oldest first, bounded by MaxHistoryEntries.
	ViewedContent []string `json:"viewed_content"`

	// CategoryAffinity maps category -> affinity in [0, 1].
	CategoryAffinity map[string]float64 `json:"category_affinity"`

	// SkipCounts maps category -> number of skips observed.
	SkipCounts map[string]int `json:"skip_counts"`

	// EngagementTimes records when interactions occurred.
	EngagementTimes []time.Time `json:"engagement_times"`
}

// Profile is the per-user personalization state.
// One profile exists per user; it is created lazily on first use.
type Profile struct {
	// UserID is the unique profile key.
	UserID string `json:"user_id"`

	// Preferences are the user's declared preferences.
	Preferences UserPreferences `json:"preferences"`

	// Behavior is the observed behavior history.
	Behavior BehaviorHistory `json:"behavior"`

	// InterestVector is a fixed-length topical affinity vector,
	// seeded from the initial preferences.
	InterestVector []float64 `json:"interest_vector"`

	// CreatedAt is when the profile was first created.
	CreatedAt time.Time `json:"created_at"`

	// LastUpdated is bumped on every mutation.
	LastUpdated time.Time `json:"last_updated"`
}

// New creates a profile for userID. Nil preferences get defaults.
func New(userID string, prefs *UserPreferences) *Profile {
	p := DefaultPreferences()
	if prefs != nil {
		p.Merge(*prefs)
	}

	now := time.Now()
	return &Profile{
		UserID:         userID,
		Preferences:    p,
		Behavior:       newBehaviorHistory(),
		InterestVector: seedInterestVector(p),
		CreatedAt:      now,
		LastUpdated:    now,
	}
}

func newBehaviorHistory() BehaviorHistory {
	return BehaviorHistory{
		ViewedContent:    []string{},
		CategoryAffinity: make(map[string]float64),
		SkipCounts:       make(map[string]int),
		EngagementTimes:  []time.Time{},
	}
}

// seedInterestVector builds the initial interest vector: a flat 0.1 baseline
// with the positions corresponding to declared categories boosted to 0.9.
func seedInterestVector(prefs UserPreferences) []float64 {
	vector := make([]float64, InterestVectorSize)
	for i := range vector {
		vector[i] = 0.1
	}
	for i := range prefs.Categories {
		if i >= len(vector) {
			break
		}
		vector[i] = 0.9
	}
	return vector
}

// CategoryAffinity returns the affinity for category, zero if unseen.
func (p *Profile) CategoryAffinity(category string) float64 {
	return p.Behavior.CategoryAffinity[category]
}

// FollowsCreator reports whether the user follows creatorID.
func (p *Profile) FollowsCreator(creatorID string) bool {
	for _, c := range p.Preferences.Creators {
		if c == creatorID {
			return true
		}
	}
	return false
}

// PrefersCategory reports whether category is among the declared preferences.
func (p *Profile) PrefersCategory(category string) bool {
	for _, c := range p.Preferences.Categories {
		if c == category {
			return true
		}
	}
	return false
}

// RecordView appends contentID to the behavior history, trimming the oldest
// entries beyond MaxHistoryEntries, and bumps LastUpdated.
func (p *Profile) RecordView(contentID string, at time.Time) {
	p.Behavior.ViewedContent = append(p.Behavior.ViewedContent, contentID)
	if excess := len(p.Behavior.ViewedContent) - MaxHistoryEntries; excess > 0 {
		p.Behavior.ViewedContent = p.Behavior.ViewedContent[excess:]
	}
	p.LastUpdated = at
}

// ApplyInteraction applies the affinity effect of an interaction with a
// content item in the given category. View interactions affect only the
// behavior history; like/share boost affinity, skip and report reduce it.
func (p *Profile) ApplyInteraction(contentID, category string, action Action, at time.Time) {
	switch action {
	case ActionView:
		p.RecordView(contentID, at)
		p.Behavior.EngagementTimes = append(p.Behavior.EngagementTimes, at)
		return
	case ActionLike, ActionShare:
		p.adjustAffinity(category, likeBoost)
	case ActionSkip:
		p.adjustAffinity(category, -skipPenalty)
		p.Behavior.SkipCounts[category]++
	case ActionReport:
		p.adjustAffinity(category, -reportPenalty)
	}

	p.Behavior.EngagementTimes = append(p.Behavior.EngagementTimes, at)
	p.LastUpdated = at
}

func (p *Profile) adjustAffinity(category string, delta float64) {
	v := p.Behavior.CategoryAffinity[category] + delta
	if v > 1.0 {
		v = 1.0
	}
	if v < 0.0 {
		v = 0.0
	}
	p.Behavior.CategoryAffinity[category] = v
}

// Clone returns a deep copy of the profile. Stores hand out clones so that
// scoring reads a stable snapshot while mutations are serialized per user.
func (p *Profile) Clone() *Profile {
	cp := *p

	cp.Preferences.Categories = append([]string(nil), p.Preferences.Categories...)
	cp.Preferences.Creators = append([]string(nil), p.Preferences.Creators...)
	cp.Preferences.Tags = append([]string(nil), p.Preferences.Tags...)
	cp.Preferences.ContentTypes = append([]string(nil), p.Preferences.ContentTypes...)

	cp.Behavior.ViewedContent = append([]string(nil), p.Behavior.ViewedContent...)
	cp.Behavior.EngagementTimes = append([]time.Time(nil), p.Behavior.EngagementTimes...)
	cp.Behavior.CategoryAffinity = make(map[string]float64, len(p.Behavior.CategoryAffinity))
	for k, v := range p.Behavior.CategoryAffinity {
		cp.Behavior.CategoryAffinity[k] = v
	}
	cp.Behavior.SkipCounts = make(map[string]int, len(p.Behavior.SkipCounts))
	for k, v := range p.Behavior.SkipCounts {
		cp.Behavior.SkipCounts[k] = v
	}

	cp.InterestVector = append([]float64(nil), p.InterestVector...)

	return &cp
}
