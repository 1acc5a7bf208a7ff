// Curator - Intelligent Content Curation Engine
// Copyright 2026 Feedlab
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/feedlab/curator

package trending

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"

	"github.com/feedlab/curator/internal/curation"
)

type stubProvider struct {
	items []curation.ContentItem
	err   error
}

func (s *stubProvider) TrendingCandidates(_ context.Context) ([]curation.ContentItem, error) {
	return s.items, s.err
}

func viralItem(id, category string, age time.Duration) curation.ContentItem {
	return curation.ContentItem{
		ID:        id,
		Category:  category,
		CreatedAt: time.Now().Add(-age),
		Engagement: curation.EngagementMetrics{
			Views: 1000, Likes: 400, Shares: 200, Comments: 200,
		},
	}
}

func quietItem(id, category string, age time.Duration) curation.ContentItem {
	return curation.ContentItem{
		ID:        id,
		Category:  category,
		CreatedAt: time.Now().Add(-age),
		Engagement: curation.EngagementMetrics{
			Views: 1000, Likes: 5,
		},
	}
}

func TestRecomputeOrdersByScore(t *testing.T) {
	t.Parallel()

	provider := &stubProvider{items: []curation.ContentItem{
		quietItem("quiet", "fitness", 2*time.Hour),
		viralItem("viral", "fitness", 2*time.Hour),
	}}

	tracker := NewTracker(provider, nil, Config{}, zerolog.Nop())
	if err := tracker.Recompute(context.Background()); err != nil {
		t.Fatalf("Recompute: %v", err)
	}

	got := tracker.Discover("", curation.TrendingDay, 10)
	if len(got) != 2 {
		t.Fatalf("entries = %d, want 2", len(got))
	}
	if got[0].ContentID != "viral" {
		t.Errorf("top entry = %q, want viral", got[0].ContentID)
	}
	if got[0].TrendingScore <= got[1].TrendingScore {
		t.Errorf("scores not strictly descending: %v, %v", got[0].TrendingScore, got[1].TrendingScore)
	}
}

func TestRecomputeReplacesSnapshot(t *testing.T) {
	t.Parallel()

	provider := &stubProvider{items: []curation.ContentItem{
		viralItem("a", "fitness", time.Hour),
		viralItem("b", "fitness", time.Hour),
	}}

	tracker := NewTracker(provider, nil, Config{}, zerolog.Nop())
	ctx := context.Background()

	if err := tracker.Recompute(ctx); err != nil {
		t.Fatalf("Recompute: %v", err)
	}

	// Full replacement: the old entries must not survive a recompute.
	provider.items = []curation.ContentItem{viralItem("c", "fitness", time.Hour)}
	if err := tracker.Recompute(ctx); err != nil {
		t.Fatalf("Recompute: %v", err)
	}

	got := tracker.Discover("", curation.TrendingDay, 10)
	if len(got) != 1 || got[0].ContentID != "c" {
		t.Errorf("entries = %v, want only c", got)
	}
}

func TestRecomputeProviderFailureKeepsSnapshot(t *testing.T) {
	t.Parallel()

	provider := &stubProvider{items: []curation.ContentItem{viralItem("a", "fitness", time.Hour)}}
	tracker := NewTracker(provider, nil, Config{}, zerolog.Nop())
	ctx := context.Background()

	if err := tracker.Recompute(ctx); err != nil {
		t.Fatalf("Recompute: %v", err)
	}

	provider.err = errors.New("source down")
	if err := tracker.Recompute(ctx); err == nil {
		t.Fatal("expected recompute error")
	}

	if tracker.Count() != 1 {
		t.Errorf("Count = %d, want 1 (snapshot kept on failure)", tracker.Count())
	}
}

func TestDiscoverFilters(t *testing.T) {
	t.Parallel()

	provider := &stubProvider{items: []curation.ContentItem{
		viralItem("fit-new", "fitness", 30*time.Minute),
		viralItem("fit-old", "fitness", 3*time.Hour),
		viralItem("cook-new", "cooking", 30*time.Minute),
		viralItem("fit-stale", "fitness", 10*24*time.Hour),
	}}

	tracker := NewTracker(provider, nil, Config{}, zerolog.Nop())
	if err := tracker.Recompute(context.Background()); err != nil {
		t.Fatalf("Recompute: %v", err)
	}

	tests := []struct {
		name     string
		category string
		r        curation.TrendingRange
		limit    int
		wantIDs  map[string]bool
	}{
		{
			name:    "hour window",
			r:       curation.TrendingHour,
			limit:   10,
			wantIDs: map[string]bool{"fit-new": true, "cook-new": true},
		},
		{
			name:     "category filter",
			category: "fitness",
			r:        curation.TrendingDay,
			limit:    10,
			wantIDs:  map[string]bool{"fit-new": true, "fit-old": true},
		},
		{
			name:    "week window drops stale",
			r:       curation.TrendingWeek,
			limit:   10,
			wantIDs: map[string]bool{"fit-new": true, "fit-old": true, "cook-new": true},
		},
		{
			name:    "limit truncates",
			r:       curation.TrendingDay,
			limit:   1,
			wantIDs: nil, // checked by length only
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := tracker.Discover(tt.category, tt.r, tt.limit)
			if tt.wantIDs == nil {
				if len(got) != tt.limit {
					t.Fatalf("len = %d, want %d", len(got), tt.limit)
				}
				return
			}
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("len = %d, want %d (%v)", len(got), len(tt.wantIDs), got)
			}
			for _, e := range got {
				if !tt.wantIDs[e.ContentID] {
					t.Errorf("unexpected entry %q", e.ContentID)
				}
			}
			for i := 1; i < len(got); i++ {
				if got[i].TrendingScore > got[i-1].TrendingScore {
					t.Error("entries not sorted descending by score")
				}
			}
		})
	}
}

func TestTrendingScoreLookup(t *testing.T) {
	t.Parallel()

	provider := &stubProvider{items: []curation.ContentItem{viralItem("a", "fitness", time.Hour)}}
	tracker := NewTracker(provider, nil, Config{}, zerolog.Nop())
	if err := tracker.Recompute(context.Background()); err != nil {
		t.Fatalf("Recompute: %v", err)
	}

	if _, ok := tracker.TrendingScore("a"); !ok {
		t.Error("expected lookup hit for a")
	}
	if _, ok := tracker.TrendingScore("missing"); ok {
		t.Error("expected lookup miss for missing")
	}
}

func TestMaxEntriesBound(t *testing.T) {
	t.Parallel()

	items := make([]curation.ContentItem, 10)
	for i := range items {
		items[i] = viralItem(string(rune('a'+i)), "fitness", time.Hour)
	}

	tracker := NewTracker(&stubProvider{items: items}, nil, Config{MaxEntries: 3}, zerolog.Nop())
	if err := tracker.Recompute(context.Background()); err != nil {
		t.Fatalf("Recompute: %v", err)
	}

	if tracker.Count() != 3 {
		t.Errorf("Count = %d, want 3", tracker.Count())
	}
}

func TestStateTransitions(t *testing.T) {
	t.Parallel()

	tracker := NewTracker(&stubProvider{}, nil, Config{}, zerolog.Nop())

	if got := tracker.State(); got != StateIdle {
		t.Errorf("State = %q, want idle", got)
	}

	if err := tracker.Recompute(context.Background()); err != nil {
		t.Fatalf("Recompute: %v", err)
	}

	if got := tracker.State(); got != StateIdle {
		t.Errorf("State after recompute = %q, want idle", got)
	}
}

func TestOnUpdatedCallback(t *testing.T) {
	t.Parallel()

	provider := &stubProvider{items: []curation.ContentItem{viralItem("a", "fitness", time.Hour)}}
	tracker := NewTracker(provider, nil, Config{}, zerolog.Nop())

	var gotCount int
	tracker.OnUpdated = func(count int) { gotCount = count }

	if err := tracker.Recompute(context.Background()); err != nil {
		t.Fatalf("Recompute: %v", err)
	}
	if gotCount != 1 {
		t.Errorf("OnUpdated count = %d, want 1", gotCount)
	}
}

func TestSnapshotStoreRoundTrip(t *testing.T) {
	t.Parallel()

	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		t.Fatalf("open badger: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	stores := map[string]SnapshotStore{
		"memory": NewMemorySnapshotStore(),
		"badger": NewBadgerSnapshotStore(db),
	}

	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			if _, err := store.Load(ctx); !errors.Is(err, ErrNoSnapshot) {
				t.Errorf("Load err = %v, want ErrNoSnapshot", err)
			}

			want := &Snapshot{
				Entries:     []curation.TrendingEntry{{ContentID: "a", Category: "fitness", TrendingScore: 0.9}},
				GeneratedAt: time.Now().UTC(),
			}
			if err := store.Save(ctx, want); err != nil {
				t.Fatalf("Save: %v", err)
			}

			got, err := store.Load(ctx)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if len(got.Entries) != 1 || got.Entries[0].ContentID != "a" {
				t.Errorf("Load = %+v, want %+v", got, want)
			}
		})
	}
}

func TestRestoreServesPersistedSnapshot(t *testing.T) {
	t.Parallel()

	store := NewMemorySnapshotStore()
	ctx := context.Background()

	err := store.Save(ctx, &Snapshot{
		Entries:     []curation.TrendingEntry{{ContentID: "persisted", Category: "fitness", TrendingScore: 0.8, Timestamp: time.Now()}},
		GeneratedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	tracker := NewTracker(&stubProvider{}, store, Config{}, zerolog.Nop())
	tracker.restore(ctx)

	if _, ok := tracker.TrendingScore("persisted"); !ok {
		t.Error("expected persisted entry to be served after restore")
	}
}
