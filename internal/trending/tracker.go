// Curator - Intelligent Content Curation Engine
// Copyright 2026 Feedlab
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/feedlab/curator

package trending

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/feedlab/curator/internal/curation"
	"github.com/feedlab/curator/internal/metrics"
)

// Tracker states. The tracker is idle between ticks and recomputing while a
// snapshot rebuild is in progress.
const (
	StateIdle        = "idle"
	StateRecomputing = "recomputing"
)

const (
	// DefaultInterval between snapshot recomputations.
	DefaultInterval = time.Hour

	// DefaultMaxEntries bounds the snapshot size.
	DefaultMaxEntries = 100

	// decayWindowHours is the linear age-decay window of the trending score.
	decayWindowHours = 24.0

	engagementShare = 0.7
	freshnessShare  = 0.3
)

// Provider supplies the content pool a snapshot is computed from.
type Provider interface {
	TrendingCandidates(ctx context.Context) ([]curation.ContentItem, error)
}

// Config tunes the tracker.
type Config struct {
	// Interval between recomputations. Zero selects DefaultInterval.
	Interval time.Duration

	// MaxEntries bounds the snapshot. Zero selects DefaultMaxEntries.
	MaxEntries int
}

// Tracker periodically recomputes the trending snapshot and serves reads
// from an atomically swapped pointer, so readers never block a recompute
// and never observe a partially built list.
type Tracker struct {
	provider   Provider
	store      SnapshotStore
	interval   time.Duration
	maxEntries int
	logger     zerolog.Logger

	snapshot    atomic.Pointer[Snapshot]
	recomputing atomic.Bool

	// OnUpdated, when set, is called after every successful recompute with
	// the new snapshot size. Used to publish trending.updated events.
	OnUpdated func(count int)
}

// NewTracker creates a tracker. store may be nil when persistence across
// restarts is not needed.
func NewTracker(provider Provider, store SnapshotStore, cfg Config, logger zerolog.Logger) *Tracker {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.MaxEntries <= 0 {
		cfg.MaxEntries = DefaultMaxEntries
	}

	t := &Tracker{
		provider:   provider,
		store:      store,
		interval:   cfg.Interval,
		maxEntries: cfg.MaxEntries,
		logger:     logger.With().Str("component", "trending_tracker").Logger(),
	}
	t.snapshot.Store(&Snapshot{Entries: []curation.TrendingEntry{}})
	return t
}

// State returns the current tracker state.
func (t *Tracker) State() string {
	if t.recomputing.Load() {
		return StateRecomputing
	}
	return StateIdle
}

// Count returns the size of the current snapshot.
func (t *Tracker) Count() int {
	return len(t.snapshot.Load().Entries)
}

// TrendingScore implements curation.TrendingLookup.
func (t *Tracker) TrendingScore(contentID string) (float64, bool) {
	for _, e := range t.snapshot.Load().Entries {
		if e.ContentID == contentID {
			return e.TrendingScore, true
		}
	}
	return 0, false
}

// Discover returns trending entries within the range's age window,
// optionally restricted to one category, sorted descending by trending
// score and truncated to limit.
func (t *Tracker) Discover(category string, r curation.TrendingRange, limit int) []curation.TrendingEntry {
	if limit <= 0 {
		return []curation.TrendingEntry{}
	}

	window := r.Window()
	cutoff := time.Now().Add(-window)

	out := make([]curation.TrendingEntry, 0, limit)
	for _, e := range t.snapshot.Load().Entries {
		if category != "" && e.Category != category {
			continue
		}
		if e.Timestamp.Before(cutoff) {
			continue
		}
		out = append(out, e)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].TrendingScore != out[j].TrendingScore {
			return out[i].TrendingScore > out[j].TrendingScore
		}
		return out[i].ContentID < out[j].ContentID
	})

	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Recompute rebuilds the snapshot from the provider's content pool and
// publishes it atomically. Overlapping recomputes are coalesced: a call
// while another rebuild is in flight returns immediately.
func (t *Tracker) Recompute(ctx context.Context) error {
	if !t.recomputing.CompareAndSwap(false, true) {
		return nil
	}
	defer t.recomputing.Store(false)

	start := time.Now()

	pool, err := t.provider.TrendingCandidates(ctx)
	if err != nil {
		metrics.RecordTrendingRecompute(0, 0, err)
		return fmt.Errorf("trending candidates: %w", err)
	}

	now := time.Now()
	entries := make([]curation.TrendingEntry, 0, len(pool))
	for _, item := range pool {
		entries = append(entries, buildEntry(item, now))
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].TrendingScore != entries[j].TrendingScore {
			return entries[i].TrendingScore > entries[j].TrendingScore
		}
		return entries[i].ContentID < entries[j].ContentID
	})
	if len(entries) > t.maxEntries {
		entries = entries[:t.maxEntries]
	}

	snap := &Snapshot{Entries: entries, GeneratedAt: now}
	t.snapshot.Store(snap)

	if t.store != nil {
		if err := t.store.Save(ctx, snap); err != nil {
			t.logger.Warn().Err(err).Msg("failed to persist trending snapshot")
		}
	}

	metrics.RecordTrendingRecompute(time.Since(start), len(entries), nil)
	t.logger.Info().
		Int("entries", len(entries)).
		Dur("duration", time.Since(start)).
		Msg("trending snapshot recomputed")

	if t.OnUpdated != nil {
		t.OnUpdated(len(entries))
	}
	return nil
}

// buildEntry derives one trending entry from an item's engagement and age.
// The entry keeps the item's creation time so discovery age windows filter
// on how recent the content is, not on when the snapshot was built.
func buildEntry(item curation.ContentItem, now time.Time) curation.TrendingEntry {
	ageHours := item.AgeHours(now)

	decay := 1.0 - ageHours/decayWindowHours
	if decay < 0 {
		decay = 0
	}

	score := engagementShare*item.Engagement.Normalized() + freshnessShare*decay
	if score > 1.0 {
		score = 1.0
	}

	velocityHours := ageHours
	if velocityHours < 1 {
		velocityHours = 1
	}
	raw := float64(item.Engagement.Likes + item.Engagement.Shares + 2*item.Engagement.Comments)

	return curation.TrendingEntry{
		ContentID:     item.ID,
		Category:      item.Category,
		TrendingScore: score,
		Velocity:      raw / velocityHours,
		Timestamp:     item.CreatedAt,
		Metadata: map[string]string{
			"reason": "High engagement velocity",
		},
	}
}

// Serve runs the tracker loop: restore any persisted snapshot, recompute
// once at startup, then on every tick until the context is cancelled.
// It satisfies the suture service contract.
func (t *Tracker) Serve(ctx context.Context) error {
	t.restore(ctx)

	if err := t.Recompute(ctx); err != nil {
		t.logger.Error().Err(err).Msg("initial trending recompute failed")
	}

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := t.Recompute(ctx); err != nil {
				t.logger.Error().Err(err).Msg("trending recompute failed")
			}
		}
	}
}

// restore loads the persisted snapshot so reads work before the first
// recompute finishes.
func (t *Tracker) restore(ctx context.Context) {
	if t.store == nil {
		return
	}

	snap, err := t.store.Load(ctx)
	if errors.Is(err, ErrNoSnapshot) {
		return
	}
	if err != nil {
		t.logger.Warn().Err(err).Msg("failed to restore trending snapshot")
		return
	}

	t.snapshot.Store(snap)
	t.logger.Info().
		Int("entries", len(snap.Entries)).
		Time("generated_at", snap.GeneratedAt).
		Msg("trending snapshot restored")
}
