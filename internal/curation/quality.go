// Curator - Intelligent Content Curation Engine
// Copyright 2026 Feedlab
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/feedlab/curator

package curation

import (
	"github.com/feedlab/curator/internal/metrics"
)

// FilterByQuality drops scored candidates whose raw quality score falls
// below the tier threshold. The composite score plays no role here; quality
// gating is about the content itself, not how well it matches the user.
func FilterByQuality(pool []ScoredContent, tier QualityTier) []ScoredContent {
	threshold := tier.Threshold()

	kept := make([]ScoredContent, 0, len(pool))
	for _, sc := range pool {
		if sc.Content.QualityScore >= threshold {
			kept = append(kept, sc)
			continue
		}
		metrics.QualityFilteredOut.WithLabelValues(string(tier)).Inc()
	}
	return kept
}

// Assessor produces one quality dimension for a content item.
// Implementations must return a value in [0, 1] and be deterministic for a
// given item; they are invoked synchronously during analysis.
type Assessor func(content ContentItem) float64

// Weights of the quality dimensions in the overall score.
const (
	technicalWeight    = 0.2
	engagementWeight   = 0.25
	originalityWeight  = 0.15
	relevanceWeight    = 0.2
	safetyWeight       = 0.1
	completenessWeight = 0.1
)

// Analyzer computes multi-dimensional quality metrics for content items.
// Each dimension is produced by a pluggable Assessor so deployments can
// swap in model-backed assessments without touching the combination logic.
type Analyzer struct {
	technical   Assessor
	engagement  Assessor
	originality Assessor
	relevance   Assessor
	safety      Assessor
}

// AnalyzerOption overrides one of the default assessors.
type AnalyzerOption func(*Analyzer)

// WithTechnicalAssessor overrides the technical quality assessor.
func WithTechnicalAssessor(a Assessor) AnalyzerOption {
	return func(an *Analyzer) { an.technical = a }
}

// WithEngagementAssessor overrides the engagement potential assessor.
func WithEngagementAssessor(a Assessor) AnalyzerOption {
	return func(an *Analyzer) { an.engagement = a }
}

// WithOriginalityAssessor overrides the originality assessor.
func WithOriginalityAssessor(a Assessor) AnalyzerOption {
	return func(an *Analyzer) { an.originality = a }
}

// WithRelevanceAssessor overrides the relevance assessor.
func WithRelevanceAssessor(a Assessor) AnalyzerOption {
	return func(an *Analyzer) { an.relevance = a }
}

// WithSafetyAssessor overrides the safety assessor.
func WithSafetyAssessor(a Assessor) AnalyzerOption {
	return func(an *Analyzer) { an.safety = a }
}

// NewAnalyzer creates a quality analyzer with deterministic heuristic
// defaults for every dimension.
func NewAnalyzer(opts ...AnalyzerOption) *Analyzer {
	a := &Analyzer{
		technical:   defaultTechnicalAssessor,
		engagement:  defaultEngagementAssessor,
		originality: defaultOriginalityAssessor,
		relevance:   defaultRelevanceAssessor,
		safety:      defaultSafetyAssessor,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze computes the quality metrics for one content item. Completeness
// is always derived structurally from the item itself.
func (a *Analyzer) Analyze(content ContentItem) QualityMetrics {
	m := QualityMetrics{
		Technical:           clampScore(a.technical(content)),
		EngagementPotential: clampScore(a.engagement(content)),
		Originality:         clampScore(a.originality(content)),
		Relevance:           clampScore(a.relevance(content)),
		Safety:              clampScore(a.safety(content)),
		Completeness:        completeness(content),
	}

	m.Overall = clampScore(
		technicalWeight*m.Technical +
			engagementWeight*m.EngagementPotential +
			originalityWeight*m.Originality +
			relevanceWeight*m.Relevance +
			safetyWeight*m.Safety +
			completenessWeight*m.Completeness)

	return m
}

// completeness is the share of descriptive fields the item populates.
func completeness(content ContentItem) float64 {
	fields := []bool{
		content.Title != "",
		content.Description != "",
		content.Category != "",
		len(content.Tags) > 0,
		content.ContentType != "",
		!content.CreatedAt.IsZero(),
	}

	populated := 0
	for _, ok := range fields {
		if ok {
			populated++
		}
	}
	return float64(populated) / float64(len(fields))
}

// Default assessors. These are deliberately simple heuristics keyed off the
// item's own signals; production deployments replace them per dimension.

func defaultTechnicalAssessor(content ContentItem) float64 {
	return content.QualityScore
}

func defaultEngagementAssessor(content ContentItem) float64 {
	return content.Engagement.Normalized()
}

func defaultOriginalityAssessor(content ContentItem) float64 {
	// More specific tagging correlates with more original content.
	score := 0.4 + 0.1*float64(len(content.Tags))
	return clampScore(score)
}

func defaultRelevanceAssessor(content ContentItem) float64 {
	if content.Category == "" {
		return 0.3
	}
	return 0.7
}

func defaultSafetyAssessor(content ContentItem) float64 {
	// Without a moderation signal every item is presumed safe; a reported
	// moderation verdict arrives through item metadata.
	if v, ok := content.Metadata["moderation"]; ok && v == "flagged" {
		return 0.2
	}
	return 0.95
}
