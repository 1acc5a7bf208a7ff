// Curator - Intelligent Content Curation Engine
// Copyright 2026 Feedlab
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/feedlab/curator

package curation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/feedlab/curator/internal/events"
	"github.com/feedlab/curator/internal/profile"
)

type stubSource struct {
	pool []ContentItem
	err  error
}

func (s *stubSource) Candidates(_ context.Context, _ *profile.Profile, _ CurateOptions) ([]ContentItem, error) {
	if s.err != nil {
		return nil, s.err
	}
	return append([]ContentItem(nil), s.pool...), nil
}

func (s *stubSource) Lookup(_ context.Context, contentID string) (ContentItem, error) {
	for _, item := range s.pool {
		if item.ID == contentID {
			return item, nil
		}
	}
	return ContentItem{}, ErrNotFound
}

type stubPublisher struct {
	mu     sync.Mutex
	topics []string
}

func (p *stubPublisher) Publish(topic string, _ any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
	return nil
}

func (p *stubPublisher) has(topic string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, t := range p.topics {
		if t == topic {
			return true
		}
	}
	return false
}

type stubTrendingIndex struct {
	scores  map[string]float64
	entries []TrendingEntry
}

func (s *stubTrendingIndex) TrendingScore(contentID string) (float64, bool) {
	score, ok := s.scores[contentID]
	return score, ok
}

func (s *stubTrendingIndex) Discover(_ string, _ TrendingRange, limit int) []TrendingEntry {
	if limit > len(s.entries) {
		limit = len(s.entries)
	}
	return s.entries[:limit]
}

func (s *stubTrendingIndex) Count() int {
	return len(s.entries)
}

// mixedPool is 4 high-quality fitness items and 6 medium lifestyle items,
// all recent, with distinct creators.
func mixedPool(now time.Time) []ContentItem {
	pool := make([]ContentItem, 0, 10)
	for i := 0; i < 4; i++ {
		pool = append(pool, ContentItem{
			ID:           "fit" + string(rune('1'+i)),
			CreatorID:    "cf" + string(rune('1'+i)),
			Category:     "fitness",
			ContentType:  "video",
			QualityScore: 0.9,
			CreatedAt:    now.Add(-1 * time.Hour),
		})
	}
	for i := 0; i < 6; i++ {
		pool = append(pool, ContentItem{
			ID:           "life" + string(rune('1'+i)),
			CreatorID:    "cl" + string(rune('1'+i)),
			Category:     "lifestyle",
			ContentType:  "article",
			QualityScore: 0.5,
			CreatedAt:    now.Add(-2 * time.Hour),
		})
	}
	return pool
}

func newTestService(t *testing.T, source CandidateSource, trending TrendingIndex, publisher EventPublisher) (*Service, *profile.MemoryStore) {
	t.Helper()

	r := NewRegistry()
	qualityEcho := scorerFunc(func(c ContentItem, _ *profile.Profile, _ time.Time) (float64, error) {
		return c.QualityScore, nil
	})
	if err := r.Register(testAlgorithm("quality-echo", 1, true), qualityEcho); err != nil {
		t.Fatalf("Register: %v", err)
	}

	store := profile.NewMemoryStore()
	svc := NewService(
		ServiceConfig{Workers: 2, SyncProfileUpdates: true},
		store, source, r, NewAnalyzer(), trending, publisher, zerolog.Nop(),
	)
	return svc, store
}

func TestCurateHighQualityTier(t *testing.T) {
	t.Parallel()

	now := time.Now()
	publisher := &stubPublisher{}
	svc, _ := newTestService(t, &stubSource{pool: mixedPool(now)}, nil, publisher)

	result, err := svc.Curate(context.Background(), "u1", nil, 5, CurateOptions{Quality: QualityHigh})
	if err != nil {
		t.Fatalf("Curate: %v", err)
	}

	// Only the four fitness items clear the high tier; the category cap
	// defers two of them but the backfill restores the full set.
	if len(result.Content) != 4 {
		t.Fatalf("got %d items, want 4: %+v", len(result.Content), result.Content)
	}
	for _, sc := range result.Content {
		if sc.Content.Category != "fitness" {
			t.Errorf("item %q category %q, want fitness", sc.Content.ID, sc.Content.Category)
		}
		if sc.Content.QualityScore < 0.8 {
			t.Errorf("item %q quality %v below high threshold", sc.Content.ID, sc.Content.QualityScore)
		}
	}

	if result.CandidateCount != 10 {
		t.Errorf("CandidateCount = %d, want 10", result.CandidateCount)
	}
	if absDiff(result.QualityScore, 0.9) > 1e-9 {
		t.Errorf("QualityScore = %v, want 0.9", result.QualityScore)
	}
	if _, ok := result.AlgorithmWeights["quality-echo"]; !ok {
		t.Errorf("AlgorithmWeights = %v, missing quality-echo", result.AlgorithmWeights)
	}
	if !publisher.has(events.TopicCurationCompleted) {
		t.Error("curation.completed event not published")
	}
}

func TestCurateRespectsLimitAndIsDeterministic(t *testing.T) {
	t.Parallel()

	now := time.Now()
	svc, _ := newTestService(t, &stubSource{pool: mixedPool(now)}, nil, nil)

	first, err := svc.Curate(context.Background(), "u1", nil, 3, CurateOptions{})
	if err != nil {
		t.Fatalf("Curate: %v", err)
	}
	if len(first.Content) > 3 {
		t.Fatalf("got %d items, want at most 3", len(first.Content))
	}

	second, err := svc.Curate(context.Background(), "u1", nil, 3, CurateOptions{})
	if err != nil {
		t.Fatalf("Curate: %v", err)
	}
	if len(second.Content) != len(first.Content) {
		t.Fatalf("result sizes differ: %d vs %d", len(first.Content), len(second.Content))
	}
	for i := range first.Content {
		if first.Content[i].Content.ID != second.Content[i].Content.ID {
			t.Errorf("result[%d] differs: %q vs %q", i, first.Content[i].Content.ID, second.Content[i].Content.ID)
		}
	}
}

func TestCurateRanksByCompositeScore(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t, &stubSource{pool: mixedPool(time.Now())}, nil, nil)

	result, err := svc.Curate(context.Background(), "u1", nil, 10, CurateOptions{Quality: QualityAll})
	if err != nil {
		t.Fatalf("Curate: %v", err)
	}
	for i := 1; i < len(result.Content); i++ {
		if result.Content[i].Score > result.Content[i-1].Score {
			t.Fatalf("ranking not descending at %d: %v after %v",
				i, result.Content[i].Score, result.Content[i-1].Score)
		}
	}
}

func TestCurateSourceFailure(t *testing.T) {
	t.Parallel()

	publisher := &stubPublisher{}
	svc, _ := newTestService(t, &stubSource{err: errors.New("upstream timeout")}, nil, publisher)

	result, err := svc.Curate(context.Background(), "u1", nil, 5, CurateOptions{})
	if !errors.Is(err, ErrCandidateSource) {
		t.Fatalf("err = %v, want ErrCandidateSource", err)
	}
	if result != nil {
		t.Errorf("result = %+v, want nil on source failure", result)
	}
	if !publisher.has(events.TopicCurationFailed) {
		t.Error("curation.failed event not published")
	}
}

func TestCurateValidation(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t, &stubSource{}, nil, nil)

	tests := []struct {
		name   string
		userID string
		opts   CurateOptions
	}{
		{name: "empty user", userID: "", opts: CurateOptions{}},
		{name: "unknown quality tier", userID: "u1", opts: CurateOptions{Quality: "supreme"}},
		{name: "unknown time range", userID: "u1", opts: CurateOptions{TimeRange: "fortnight"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := svc.Curate(context.Background(), tt.userID, nil, 5, tt.opts); !errors.Is(err, ErrValidation) {
				t.Errorf("err = %v, want ErrValidation", err)
			}
		})
	}
}

func TestCurateRecordsViews(t *testing.T) {
	t.Parallel()

	svc, store := newTestService(t, &stubSource{pool: mixedPool(time.Now())}, nil, nil)

	result, err := svc.Curate(context.Background(), "u1", nil, 3, CurateOptions{})
	if err != nil {
		t.Fatalf("Curate: %v", err)
	}

	prof, err := store.Get(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got, want := len(prof.Behavior.ViewedContent), len(result.Content); got != want {
		t.Fatalf("recorded %d views, want %d", got, want)
	}
}

func TestUpdateUserPreferencesReport(t *testing.T) {
	t.Parallel()

	pool := mixedPool(time.Now())
	publisher := &stubPublisher{}
	svc, store := newTestService(t, &stubSource{pool: pool}, nil, publisher)

	// Build some affinity first, then report content in the same category.
	likes := []Interaction{
		{ContentID: "fit1", Action: profile.ActionLike},
		{ContentID: "fit2", Action: profile.ActionLike},
	}
	if err := svc.UpdateUserPreferences(context.Background(), "u1", likes); err != nil {
		t.Fatalf("UpdateUserPreferences: %v", err)
	}

	before, err := store.Get(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	baseline := before.CategoryAffinity("fitness")

	report := []Interaction{{ContentID: "fit3", Action: profile.ActionReport}}
	if err := svc.UpdateUserPreferences(context.Background(), "u1", report); err != nil {
		t.Fatalf("UpdateUserPreferences: %v", err)
	}

	after, err := store.Get(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got, want := after.CategoryAffinity("fitness"), baseline-0.2; absDiff(got, want) > 1e-9 {
		t.Errorf("affinity after report = %v, want %v", got, want)
	}
	if !publisher.has(events.TopicPreferencesUpdated) {
		t.Error("preferences.updated event not published")
	}
}

func TestUpdateUserPreferencesValidation(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t, &stubSource{}, nil, nil)

	tests := []struct {
		name         string
		userID       string
		interactions []Interaction
	}{
		{name: "empty user", userID: "", interactions: nil},
		{name: "unknown action", userID: "u1", interactions: []Interaction{{ContentID: "c1", Action: "poke"}}},
		{name: "empty content id", userID: "u1", interactions: []Interaction{{Action: profile.ActionLike}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := svc.UpdateUserPreferences(context.Background(), tt.userID, tt.interactions)
			if !errors.Is(err, ErrValidation) {
				t.Errorf("err = %v, want ErrValidation", err)
			}
		})
	}
}

func TestExplainRecommendation(t *testing.T) {
	t.Parallel()

	pool := mixedPool(time.Now())
	trending := &stubTrendingIndex{scores: map[string]float64{"fit1": 0.9}}
	svc, _ := newTestService(t, &stubSource{pool: pool}, trending, nil)

	if _, err := svc.ExplainRecommendation(context.Background(), "ghost", "fit1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown user err = %v, want ErrNotFound", err)
	}

	prefs := &profile.UserPreferences{Categories: []string{"fitness"}}
	if _, err := svc.Curate(context.Background(), "u1", prefs, 5, CurateOptions{}); err != nil {
		t.Fatalf("Curate: %v", err)
	}

	if _, err := svc.ExplainRecommendation(context.Background(), "u1", "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown content err = %v, want ErrNotFound", err)
	}

	exp, err := svc.ExplainRecommendation(context.Background(), "u1", "fit1")
	if err != nil {
		t.Fatalf("ExplainRecommendation: %v", err)
	}
	if len(exp.Factors) != 5 {
		t.Fatalf("got %d factors, want 5", len(exp.Factors))
	}
	if exp.Confidence <= 0 || exp.Confidence > 1 {
		t.Errorf("confidence %v out of (0, 1]", exp.Confidence)
	}
	// Declared fitness preference and a trending hit both clear the floor.
	if len(exp.Reasons) < 2 {
		t.Errorf("got reasons %v, want at least 2", exp.Reasons)
	}
}

func TestPersonalizeForUserMissingProfile(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t, &stubSource{}, nil, nil)

	content := []ContentItem{{ID: "b"}, {ID: "a"}, {ID: "c"}}
	got, err := svc.PersonalizeForUser(context.Background(), "ghost", content)
	if err != nil {
		t.Fatalf("PersonalizeForUser: %v", err)
	}

	// No profile: neutral scores, original order preserved.
	for i, sc := range got {
		if sc.Score != 0.5 {
			t.Errorf("score = %v, want neutral 0.5", sc.Score)
		}
		if sc.Content.ID != content[i].ID {
			t.Errorf("got[%d] = %q, want %q (order must be preserved)", i, sc.Content.ID, content[i].ID)
		}
	}
}

func TestPersonalizeForUserRanksByAffinity(t *testing.T) {
	t.Parallel()

	svc, store := newTestService(t, &stubSource{}, nil, nil)

	prefs := &profile.UserPreferences{Categories: []string{"fitness"}, Creators: []string{"c1"}}
	if _, err := store.GetOrCreate(context.Background(), "u1", prefs); err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}

	content := []ContentItem{
		{ID: "cold", Category: "finance", CreatorID: "cx"},
		{ID: "warm", Category: "fitness", CreatorID: "c1"},
	}
	got, err := svc.PersonalizeForUser(context.Background(), "u1", content)
	if err != nil {
		t.Fatalf("PersonalizeForUser: %v", err)
	}

	if got[0].Content.ID != "warm" {
		t.Fatalf("got[0] = %q, want warm ranked first", got[0].Content.ID)
	}
	// 0.5 * (0.4 category + 0.3 creator)
	if want := 0.5 * 0.7; absDiff(got[0].Score, want) > 1e-9 {
		t.Errorf("warm score = %v, want %v", got[0].Score, want)
	}
	if got[1].Score != 0 {
		t.Errorf("cold score = %v, want 0", got[1].Score)
	}
}

func TestDiscoverTrending(t *testing.T) {
	t.Parallel()

	entries := []TrendingEntry{{ContentID: "t1"}, {ContentID: "t2"}, {ContentID: "t3"}}
	svc, _ := newTestService(t, &stubSource{}, &stubTrendingIndex{entries: entries}, nil)

	got, err := svc.DiscoverTrending("", TrendingDay, 2)
	if err != nil {
		t.Fatalf("DiscoverTrending: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("got %d entries, want 2", len(got))
	}

	if _, err := svc.DiscoverTrending("", "fortnight", 10); !errors.Is(err, ErrValidation) {
		t.Errorf("err = %v, want ErrValidation", err)
	}
}

func TestDiscoverTrendingWithoutTracker(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t, &stubSource{}, nil, nil)

	got, err := svc.DiscoverTrending("", TrendingWeek, 0)
	if err != nil {
		t.Fatalf("DiscoverTrending: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d entries, want none without a tracker", len(got))
	}
}

func TestAnalyzeContentQualityPublishes(t *testing.T) {
	t.Parallel()

	publisher := &stubPublisher{}
	svc, _ := newTestService(t, &stubSource{}, nil, publisher)

	m := svc.AnalyzeContentQuality(ContentItem{ID: "c1", Title: "t", QualityScore: 0.8})
	if m.Overall < 0 || m.Overall > 1 {
		t.Errorf("Overall %v out of [0,1]", m.Overall)
	}
	if !publisher.has(events.TopicQualityAnalyzed) {
		t.Error("quality.analyzed event not published")
	}
}

func TestServiceStats(t *testing.T) {
	t.Parallel()

	trending := &stubTrendingIndex{entries: []TrendingEntry{{ContentID: "t1"}}}
	svc, _ := newTestService(t, &stubSource{pool: mixedPool(time.Now())}, trending, nil)

	if _, err := svc.Curate(context.Background(), "u1", nil, 5, CurateOptions{}); err != nil {
		t.Fatalf("Curate: %v", err)
	}

	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.AlgorithmsActive != 1 {
		t.Errorf("AlgorithmsActive = %d, want 1", stats.AlgorithmsActive)
	}
	if stats.TotalProfiles != 1 {
		t.Errorf("TotalProfiles = %d, want 1", stats.TotalProfiles)
	}
	if stats.TrendingItems != 1 {
		t.Errorf("TrendingItems = %d, want 1", stats.TrendingItems)
	}
	if stats.CacheSize != 10 {
		t.Errorf("CacheSize = %d, want 10 (curate caches the candidate pool)", stats.CacheSize)
	}
	if stats.QualityThreshold != 0.6 {
		t.Errorf("QualityThreshold = %v, want 0.6", stats.QualityThreshold)
	}
}

func absDiff(a, b float64) float64 {
	if a > b {
		return a - b
	}
	return b - a
}
