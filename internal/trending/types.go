// Curator - Intelligent Content Curation Engine
// Copyright 2026 Feedlab
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/feedlab/curator

// Package trending maintains the global trending-content index: a bounded,
// periodically recomputed snapshot of time-decayed, velocity-weighted
// content scores, fully decoupled from request-serving paths.
package trending

import (
	"time"

	"github.com/feedlab/curator/internal/curation"
)

// Snapshot is one complete trending list. Snapshots are immutable once
// published; a recompute always replaces the whole snapshot.
type Snapshot struct {
	Entries     []curation.TrendingEntry `json:"entries"`
	GeneratedAt time.Time                `json:"generated_at"`
}
