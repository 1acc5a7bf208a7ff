// Curator - Intelligent Content Curation Engine
// Copyright 2026 Feedlab
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/feedlab/curator

package curation

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/feedlab/curator/internal/events"
	"github.com/feedlab/curator/internal/metrics"
	"github.com/feedlab/curator/internal/profile"
)

// Default request parameters.
const (
	DefaultCurateLimit   = 20
	DefaultTrendingLimit = 50
	defaultCacheCapacity = 10000
)

// Aggregate personalization weights over a result list.
const (
	aggCategoryWeight = 0.4
	aggCreatorWeight  = 0.3
	aggTagWeight      = 0.3
)

// freshnessWindowHours maps an average result age onto [0, 1]; a list
// averaging a week old scores zero.
const freshnessWindowHours = 7 * 24.0

// TrendingIndex is the trending tracker surface the service consumes.
type TrendingIndex interface {
	TrendingLookup
	Discover(category string, r TrendingRange, limit int) []TrendingEntry
	Count() int
}

// EventPublisher publishes domain events. Implemented by events.Bus.
type EventPublisher interface {
	Publish(topic string, payload any) error
}

// ServiceConfig tunes the curation service.
type ServiceConfig struct {
	// Workers for the scoring pipeline. Zero selects one per CPU.
	Workers int

	// DefaultLimit is the result size when a request does not specify one.
	// Zero selects DefaultCurateLimit.
	DefaultLimit int

	// CacheCapacity bounds the content cache. Zero selects the default.
	CacheCapacity int

	// SyncProfileUpdates applies post-curation view recording before
	// Curate returns instead of in the background. Used by tests.
	SyncProfileUpdates bool
}

// Service is the curation facade: it orchestrates profile loading,
// candidate fetching, scoring, quality filtering, diversification, and
// ranking, and owns the explanation, personalization, and stats surfaces.
type Service struct {
	cfg       ServiceConfig
	store     profile.Store
	source    CandidateSource
	registry  *Registry
	pipeline  *Pipeline
	analyzer  *Analyzer
	trending  TrendingIndex
	publisher EventPublisher
	cache     *contentCache
	logger    zerolog.Logger
}

// NewService wires the curation facade. trending and publisher may be nil;
// trending lookups then report absent and events are dropped.
func NewService(
	cfg ServiceConfig,
	store profile.Store,
	source CandidateSource,
	registry *Registry,
	analyzer *Analyzer,
	trending TrendingIndex,
	publisher EventPublisher,
	logger zerolog.Logger,
) *Service {
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = DefaultCurateLimit
	}
	if cfg.CacheCapacity <= 0 {
		cfg.CacheCapacity = defaultCacheCapacity
	}

	return &Service{
		cfg:       cfg,
		store:     store,
		source:    source,
		registry:  registry,
		pipeline:  NewPipeline(registry, cfg.Workers, logger),
		analyzer:  analyzer,
		trending:  trending,
		publisher: publisher,
		cache:     newContentCache(cfg.CacheCapacity),
		logger:    logger.With().Str("component", "curation_service").Logger(),
	}
}

// Registry exposes the algorithm registry for administrative mutation.
func (s *Service) Registry() *Registry {
	return s.registry
}

// Curate produces a personalized, quality-filtered, diversified, ranked
// content list for a user. Candidate-source failures propagate with no
// partial result; the profile is only touched after a result is computed.
func (s *Service) Curate(ctx context.Context, userID string, prefs *profile.UserPreferences, limit int, opts CurateOptions) (*CurationResult, error) {
	if userID == "" {
		metrics.CurationRequestsTotal.WithLabelValues("validation_error").Inc()
		return nil, ValidationError("user_id", "must not be empty")
	}
	if err := validateOptions(opts); err != nil {
		metrics.CurationRequestsTotal.WithLabelValues("validation_error").Inc()
		return nil, err
	}
	if limit <= 0 {
		limit = s.cfg.DefaultLimit
	}

	start := time.Now()

	prof, err := s.store.GetOrCreate(ctx, userID, prefs)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}

	pool, err := s.source.Candidates(ctx, prof, opts)
	if err != nil {
		s.publish(events.TopicCurationFailed, events.CurationFailed{
			UserID:    userID,
			Error:     err.Error(),
			Timestamp: time.Now(),
		})
		metrics.RecordCuration("source_error", 0, 0, 0)
		return nil, CandidateSourceError(err)
	}

	for _, item := range pool {
		s.cache.put(item)
	}

	now := time.Now()
	scored, err := s.pipeline.ScoreAll(ctx, pool, prof, now)
	if err != nil {
		return nil, err
	}

	filtered := FilterByQuality(scored, opts.Quality)
	diversified := Diversify(filtered, limit)
	rankByScore(diversified)

	elapsed := time.Since(start)
	result := &CurationResult{
		UserID:               userID,
		Content:              diversified,
		CandidateCount:       len(pool),
		Duration:             elapsed,
		AlgorithmWeights:     s.registry.EffectiveWeights(),
		PersonalizationScore: personalizationScore(prof, diversified),
		DiversityScore:       diversityScore(diversified),
		QualityScore:         averageQuality(diversified),
		FreshnessScore:       freshnessScore(diversified, now),
		Timestamp:            now,
	}

	s.afterCurate(userID, result)
	metrics.RecordCuration("success", elapsed, len(pool), len(diversified))
	s.logger.Debug().
		Str("user_id", userID).
		Int("candidates", len(pool)).
		Int("results", len(diversified)).
		Dur("duration", elapsed).
		Msg("curation completed")

	return result, nil
}

// afterCurate records returned items as viewed and publishes the completion
// event. It runs asynchronously by default so response latency does not pay
// for profile persistence; the result is already computed, so a failure
// here can only lose a view record, never corrupt the result.
func (s *Service) afterCurate(userID string, result *CurationResult) {
	apply := func() {
		viewedAt := time.Now()
		err := s.store.Update(context.Background(), userID, func(p *profile.Profile) error {
			for _, sc := range result.Content {
				p.RecordView(sc.Content.ID, viewedAt)
			}
			return nil
		})
		if err != nil {
			s.logger.Warn().Err(err).Str("user_id", userID).Msg("post-curation profile update failed")
		} else {
			metrics.ProfileUpdatesTotal.WithLabelValues("view").Add(float64(len(result.Content)))
		}

		s.publish(events.TopicCurationCompleted, events.CurationCompleted{
			UserID:    userID,
			ItemCount: len(result.Content),
			Duration:  result.Duration,
			Timestamp: result.Timestamp,
		})
	}

	if s.cfg.SyncProfileUpdates {
		apply()
		return
	}
	go apply()
}

// DiscoverTrending returns the current trending entries for an optional
// category within the range's age window.
func (s *Service) DiscoverTrending(category string, r TrendingRange, limit int) ([]TrendingEntry, error) {
	if !r.Valid() {
		return nil, ValidationError("time_range", fmt.Sprintf("unknown range %q", r))
	}
	if limit <= 0 {
		limit = DefaultTrendingLimit
	}
	if s.trending == nil {
		return []TrendingEntry{}, nil
	}
	return s.trending.Discover(category, r, limit), nil
}

// AnalyzeContentQuality computes the multi-dimensional quality metrics for
// one content item.
func (s *Service) AnalyzeContentQuality(content ContentItem) QualityMetrics {
	m := s.analyzer.Analyze(content)

	s.publish(events.TopicQualityAnalyzed, events.QualityAnalyzed{
		ContentID: content.ID,
		Overall:   m.Overall,
		Timestamp: time.Now(),
	})
	return m
}

// PersonalizeForUser rescores an existing content list against the user's
// profile and returns it sorted by the personalized score. No candidates
// are fetched. A user without a profile gets the list back neutrally
// scored in its original order.
func (s *Service) PersonalizeForUser(ctx context.Context, userID string, content []ContentItem) ([]ScoredContent, error) {
	if userID == "" {
		return nil, ValidationError("user_id", "must not be empty")
	}

	prof, err := s.store.Get(ctx, userID)
	if err != nil && !errors.Is(err, profile.ErrNotFound) {
		return nil, fmt.Errorf("load profile: %w", err)
	}

	out := make([]ScoredContent, len(content))
	for i, item := range content {
		score := neutralScore
		if prof != nil {
			score = neutralScore * itemPersonalization(prof, item)
		}
		out[i] = ScoredContent{
			Content:    item,
			Score:      clampScore(score),
			Breakdown:  map[string]float64{},
			Confidence: clampScore(score + confidenceLift),
		}
	}

	if prof != nil {
		rankByScore(out)
	}
	return out, nil
}

// UpdateUserPreferences applies a batch of explicit feedback interactions
// to the user's profile, creating it if needed. Interactions referencing
// unknown content still record against the history by ID but carry no
// category affinity signal.
func (s *Service) UpdateUserPreferences(ctx context.Context, userID string, interactions []Interaction) error {
	if userID == "" {
		return ValidationError("user_id", "must not be empty")
	}
	for _, in := range interactions {
		if !in.Action.Valid() {
			return ValidationError("action", fmt.Sprintf("unknown action %q", in.Action))
		}
		if in.ContentID == "" {
			return ValidationError("content_id", "must not be empty")
		}
	}

	err := s.store.Update(ctx, userID, func(p *profile.Profile) error {
		for _, in := range interactions {
			ts := in.Timestamp
			if ts.IsZero() {
				ts = time.Now()
			}
			p.ApplyInteraction(in.ContentID, s.resolveCategory(ctx, in.ContentID), in.Action, ts)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("apply interactions: %w", err)
	}

	for _, in := range interactions {
		metrics.ProfileUpdatesTotal.WithLabelValues(string(in.Action)).Inc()
	}

	s.publish(events.TopicPreferencesUpdated, events.PreferencesUpdated{
		UserID:       userID,
		Interactions: len(interactions),
		Timestamp:    time.Now(),
	})
	return nil
}

// ExplainRecommendation tells the user why a content item ranks for them.
func (s *Service) ExplainRecommendation(ctx context.Context, userID, contentID string) (*Explanation, error) {
	prof, err := s.store.Get(ctx, userID)
	if errors.Is(err, profile.ErrNotFound) {
		return nil, NotFoundError("profile", userID)
	}
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}

	content, err := s.resolveContent(ctx, contentID)
	if err != nil {
		return nil, err
	}

	explanation := Explain(content, prof, s.trending)
	return &explanation, nil
}

// Stats returns a point-in-time operational summary.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	profiles, err := s.store.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count profiles: %w", err)
	}
	metrics.ProfilesTotal.Set(float64(profiles))

	trendingItems := 0
	if s.trending != nil {
		trendingItems = s.trending.Count()
	}

	return &Stats{
		AlgorithmsActive: s.registry.ActiveCount(),
		TotalProfiles:    profiles,
		TrendingItems:    trendingItems,
		CacheSize:        s.cache.len(),
		QualityThreshold: QualityMedium.Threshold(),
	}, nil
}

// resolveContent serves a content item from the cache, falling back to the
// source.
func (s *Service) resolveContent(ctx context.Context, contentID string) (ContentItem, error) {
	if item, ok := s.cache.get(contentID); ok {
		return item, nil
	}

	item, err := s.source.Lookup(ctx, contentID)
	if errors.Is(err, ErrNotFound) {
		return ContentItem{}, NotFoundError("content", contentID)
	}
	if err != nil {
		return ContentItem{}, CandidateSourceError(err)
	}

	s.cache.put(item)
	return item, nil
}

// resolveCategory resolves the category of an interaction's content.
// Unknown content yields an empty category, which carries no affinity.
func (s *Service) resolveCategory(ctx context.Context, contentID string) string {
	item, err := s.resolveContent(ctx, contentID)
	if err != nil {
		return ""
	}
	return item.Category
}

func (s *Service) publish(topic string, payload any) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(topic, payload); err != nil {
		s.logger.Warn().Err(err).Str("topic", topic).Msg("event publish failed")
	}
}

func validateOptions(opts CurateOptions) error {
	if !opts.Quality.Valid() {
		return ValidationError("quality", fmt.Sprintf("unknown tier %q", opts.Quality))
	}
	if !opts.TimeRange.Valid() {
		return ValidationError("time_range", fmt.Sprintf("unknown range %q", opts.TimeRange))
	}
	return nil
}

// rankByScore sorts descending by composite score with content ID as the
// tiebreak, keeping equal-scored rankings deterministic.
func rankByScore(items []ScoredContent) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		return items[i].Content.ID < items[j].Content.ID
	})
}

// itemPersonalization is the per-item personalization blend: declared
// category, followed creator, and tag overlap.
func itemPersonalization(p *profile.Profile, item ContentItem) float64 {
	var score float64
	if p.PrefersCategory(item.Category) {
		score += aggCategoryWeight
	}
	if p.FollowsCreator(item.CreatorID) {
		score += aggCreatorWeight
	}

	if len(item.Tags) > 0 {
		matched := 0
		for _, tag := range item.Tags {
			for _, pref := range p.Preferences.Tags {
				if tag == pref {
					matched++
					break
				}
			}
		}
		score += aggTagWeight * float64(matched) / float64(len(item.Tags))
	}
	return score
}

func personalizationScore(p *profile.Profile, content []ScoredContent) float64 {
	if len(content) == 0 {
		return 0
	}

	var sum float64
	for _, sc := range content {
		sum += itemPersonalization(p, sc.Content)
	}
	return sum / float64(len(content))
}

func diversityScore(content []ScoredContent) float64 {
	if len(content) == 0 {
		return 0
	}

	categories := make(map[string]struct{})
	creators := make(map[string]struct{})
	types := make(map[string]struct{})
	for _, sc := range content {
		categories[sc.Content.Category] = struct{}{}
		creators[sc.Content.CreatorID] = struct{}{}
		types[sc.Content.ContentType] = struct{}{}
	}

	n := float64(len(content))
	return (float64(len(categories))/n + float64(len(creators))/n + float64(len(types))/n) / 3
}

func averageQuality(content []ScoredContent) float64 {
	if len(content) == 0 {
		return 0
	}

	var sum float64
	for _, sc := range content {
		sum += sc.Content.QualityScore
	}
	return sum / float64(len(content))
}

func freshnessScore(content []ScoredContent, now time.Time) float64 {
	if len(content) == 0 {
		return 0
	}

	var sum float64
	for _, sc := range content {
		sum += sc.Content.AgeHours(now)
	}
	avgAge := sum / float64(len(content))

	fresh := 1 - avgAge/freshnessWindowHours
	if fresh < 0 {
		return 0
	}
	return fresh
}
