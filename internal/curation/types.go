// Curator - Intelligent Content Curation Engine
// Copyright 2026 Feedlab
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/feedlab/curator

// Package curation implements the content curation core: the algorithm
// registry, the weighted scoring pipeline, quality filtering,
// diversification, explanation generation, and the service facade that
// orchestrates them.
package curation

import (
	"context"
	"time"

	"github.com/feedlab/curator/internal/profile"
)

// EngagementMetrics holds the raw engagement counters of a content item.
type EngagementMetrics struct {
	Views    int64 `json:"views"`
	Likes    int64 `json:"likes"`
	Shares   int64 `json:"shares"`
	Comments int64 `json:"comments"`
}

// Normalized maps the raw counters onto [0, 1]. Comments weigh double
// because they indicate stronger engagement than likes or shares.
func (m EngagementMetrics) Normalized() float64 {
	views := m.Views
	if views < 1 {
		views = 1
	}
	rate := float64(m.Likes+m.Shares+2*m.Comments) / float64(views)
	score := rate * 10
	if score > 1.0 {
		score = 1.0
	}
	return score
}

// ContentItem is a scoreable piece of content supplied by the candidate
// source. Items are immutable once scoring of a request has begun.
type ContentItem struct {
	ID           string            `json:"id"`
	CreatorID    string            `json:"creator_id"`
	Title        string            `json:"title"`
	Description  string            `json:"description"`
	Category     string            `json:"category"`
	Tags         []string          `json:"tags"`
	ContentType  string            `json:"content_type"`
	QualityScore float64           `json:"quality_score"`
	Engagement   EngagementMetrics `json:"engagement"`
	CreatedAt    time.Time         `json:"created_at"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

// AgeHours returns the item age in hours relative to now, never negative.
func (c ContentItem) AgeHours(now time.Time) float64 {
	age := now.Sub(c.CreatedAt).Hours()
	if age < 0 {
		return 0
	}
	return age
}

// AlgorithmType groups scoring algorithms by the kind of signal they produce.
type AlgorithmType string

const (
	// TypeRecommendation covers collaborative and content-based scorers.
	TypeRecommendation AlgorithmType = "recommendation"
	// TypeDiscovery covers trending and freshness driven scorers.
	TypeDiscovery AlgorithmType = "discovery"
	// TypeML covers learned-ranking style scorers.
	TypeML AlgorithmType = "ml"
)

// Valid reports whether the type is one of the recognized values.
func (t AlgorithmType) Valid() bool {
	switch t {
	case TypeRecommendation, TypeDiscovery, TypeML:
		return true
	}
	return false
}

// Algorithm describes a registered scoring algorithm. Weight and Active are
// mutated administratively only; scoring reads them as-is.
type Algorithm struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Type     AlgorithmType  `json:"type"`
	Weight   float64        `json:"weight"`
	Accuracy float64        `json:"accuracy"`
	Active   bool           `json:"active"`
	Config   map[string]any `json:"config,omitempty"`
}

// ScoredContent pairs a content item with its composite score, the
// per-algorithm score breakdown, and a derived confidence.
type ScoredContent struct {
	Content    ContentItem        `json:"content"`
	Score      float64            `json:"score"`
	Breakdown  map[string]float64 `json:"breakdown"`
	Confidence float64            `json:"confidence"`
}

// QualityTier selects the minimum raw quality score candidates must meet.
type QualityTier string

const (
	QualityHigh   QualityTier = "high"
	QualityMedium QualityTier = "medium"
	QualityAll    QualityTier = "all"
)

// Threshold returns the minimum quality score for the tier. Unknown tiers
// fall back to the medium threshold.
func (q QualityTier) Threshold() float64 {
	switch q {
	case QualityHigh:
		return 0.8
	case QualityAll:
		return 0.0
	default:
		return 0.6
	}
}

// Valid reports whether the tier is one of the recognized values.
func (q QualityTier) Valid() bool {
	switch q {
	case QualityHigh, QualityMedium, QualityAll, "":
		return true
	}
	return false
}

// TimeRange restricts a curation candidate pool by item age.
type TimeRange string

const (
	RangeDay   TimeRange = "day"
	RangeWeek  TimeRange = "week"
	RangeMonth TimeRange = "month"
	RangeAll   TimeRange = "all"
)

// Window returns the age window for the range, or zero for RangeAll and the
// empty value, meaning no restriction.
func (r TimeRange) Window() time.Duration {
	switch r {
	case RangeDay:
		return 24 * time.Hour
	case RangeWeek:
		return 7 * 24 * time.Hour
	case RangeMonth:
		return 30 * 24 * time.Hour
	}
	return 0
}

// Valid reports whether the range is one of the recognized values.
func (r TimeRange) Valid() bool {
	switch r {
	case RangeDay, RangeWeek, RangeMonth, RangeAll, "":
		return true
	}
	return false
}

// TrendingRange selects the age window for trending discovery.
type TrendingRange string

const (
	TrendingHour TrendingRange = "hour"
	TrendingDay  TrendingRange = "day"
	TrendingWeek TrendingRange = "week"
)

// Window returns the maximum entry age for the range. Unknown ranges fall
// back to a day.
func (r TrendingRange) Window() time.Duration {
	switch r {
	case TrendingHour:
		return time.Hour
	case TrendingWeek:
		return 7 * 24 * time.Hour
	}
	return 24 * time.Hour
}

// Valid reports whether the range is one of the recognized values.
func (r TrendingRange) Valid() bool {
	switch r {
	case TrendingHour, TrendingDay, TrendingWeek, "":
		return true
	}
	return false
}

// TrendingEntry is one content item's position in the trending snapshot.
type TrendingEntry struct {
	ContentID     string            `json:"content_id"`
	Category      string            `json:"category"`
	TrendingScore float64           `json:"trending_score"`
	Velocity      float64           `json:"velocity"`
	Timestamp     time.Time         `json:"timestamp"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// CurateOptions tune a single curation request.
type CurateOptions struct {
	// IncludeExploration admits a small number of out-of-profile items.
	IncludeExploration bool `json:"include_exploration"`

	// Categories restricts the candidate pool when non-empty.
	Categories []string `json:"categories,omitempty"`

	// TimeRange restricts the candidate pool by item age.
	TimeRange TimeRange `json:"time_range,omitempty"`

	// Quality selects the quality tier; empty means medium.
	Quality QualityTier `json:"quality,omitempty"`
}

// CurationResult is the transient outcome of one curation request.
type CurationResult struct {
	UserID           string             `json:"user_id"`
	Content          []ScoredContent    `json:"content"`
	CandidateCount   int                `json:"candidate_count"`
	Duration         time.Duration      `json:"duration"`
	AlgorithmWeights map[string]float64 `json:"algorithm_weights"`

	// Aggregate quality of the returned list, all in [0, 1].
	PersonalizationScore float64 `json:"personalization_score"`
	DiversityScore       float64 `json:"diversity_score"`
	QualityScore         float64 `json:"quality_score"`
	FreshnessScore       float64 `json:"freshness_score"`

	Timestamp time.Time `json:"timestamp"`
}

// QualityMetrics is the multi-dimensional quality assessment of one item.
// Every dimension and the overall score are in [0, 1].
type QualityMetrics struct {
	Technical           float64 `json:"technical"`
	EngagementPotential float64 `json:"engagement_potential"`
	Originality         float64 `json:"originality"`
	Relevance           float64 `json:"relevance"`
	Safety              float64 `json:"safety"`
	Completeness        float64 `json:"completeness"`
	Overall             float64 `json:"overall"`
}

// Interaction is one explicit feedback event supplied to
// UpdateUserPreferences.
type Interaction struct {
	ContentID string         `json:"content_id"`
	Action    profile.Action `json:"action"`
	Duration  time.Duration  `json:"duration,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// Factor is one weighted component of a recommendation explanation.
type Factor struct {
	Factor       string  `json:"factor"`
	Weight       float64 `json:"weight"`
	Contribution float64 `json:"contribution"`
}

// Explanation tells a user why a content item was recommended to them.
type Explanation struct {
	Reasons    []string `json:"reasons"`
	Confidence float64  `json:"confidence"`
	Factors    []Factor `json:"factors"`
}

// Stats is a point-in-time operational summary of the curation service.
type Stats struct {
	AlgorithmsActive int     `json:"algorithms_active"`
	TotalProfiles    int     `json:"total_profiles"`
	TrendingItems    int     `json:"trending_items"`
	CacheSize        int     `json:"cache_size"`
	QualityThreshold float64 `json:"quality_threshold"`
}

// CandidateSource supplies scoreable content. Implemented outside the
// curation core; the service treats it as an external collaborator.
type CandidateSource interface {
	// Candidates returns the candidate pool for a profile and options.
	Candidates(ctx context.Context, p *profile.Profile, opts CurateOptions) ([]ContentItem, error)

	// Lookup resolves a single content item by ID.
	Lookup(ctx context.Context, contentID string) (ContentItem, error)
}
