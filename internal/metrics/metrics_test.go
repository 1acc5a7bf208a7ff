// Curator - Intelligent Content Curation Engine
// Copyright 2026 Feedlab
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/feedlab/curator

package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

// Metric tests share the package-global collectors, so they read deltas
// rather than absolute values and must not run in parallel with each other.

func TestRecordCuration(t *testing.T) {
	before := testutil.ToFloat64(CurationRequestsTotal.WithLabelValues("success"))

	RecordCuration("success", 25*time.Millisecond, 120, 20)

	after := testutil.ToFloat64(CurationRequestsTotal.WithLabelValues("success"))
	if after != before+1 {
		t.Errorf("success counter = %v, want %v", after, before+1)
	}
}

func TestRecordCurationFailureSkipsHistograms(t *testing.T) {
	before := testutil.ToFloat64(CurationRequestsTotal.WithLabelValues("source_error"))

	RecordCuration("source_error", 0, 0, 0)

	after := testutil.ToFloat64(CurationRequestsTotal.WithLabelValues("source_error"))
	if after != before+1 {
		t.Errorf("source_error counter = %v, want %v", after, before+1)
	}
}

func TestRecordAlgorithmFailure(t *testing.T) {
	tests := []struct {
		name      string
		algorithm string
		kind      string
	}{
		{name: "error failure", algorithm: "trending", kind: "error"},
		{name: "panic failure", algorithm: "ml-ranker", kind: "panic"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := testutil.ToFloat64(AlgorithmFailures.WithLabelValues(tt.algorithm, tt.kind))

			RecordAlgorithmFailure(tt.algorithm, tt.kind)

			after := testutil.ToFloat64(AlgorithmFailures.WithLabelValues(tt.algorithm, tt.kind))
			if after != before+1 {
				t.Errorf("failure counter = %v, want %v", after, before+1)
			}
		})
	}
}

func TestRecordTrendingRecompute(t *testing.T) {
	RecordTrendingRecompute(100*time.Millisecond, 42, nil)

	if got := testutil.ToFloat64(TrendingSnapshotSize); got != 42 {
		t.Errorf("snapshot size gauge = %v, want 42", got)
	}

	// A failed recompute must leave the size gauge untouched.
	RecordTrendingRecompute(0, 0, errors.New("source down"))

	if got := testutil.ToFloat64(TrendingSnapshotSize); got != 42 {
		t.Errorf("snapshot size gauge after error = %v, want 42", got)
	}
}

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("POST", "/api/v1/curate", "200"))

	RecordAPIRequest("POST", "/api/v1/curate", "200", 15*time.Millisecond)

	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("POST", "/api/v1/curate", "200"))
	if after != before+1 {
		t.Errorf("request counter = %v, want %v", after, before+1)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)

	TrackActiveRequest(true)
	if got := testutil.ToFloat64(APIActiveRequests); got != before+1 {
		t.Errorf("active gauge = %v, want %v", got, before+1)
	}

	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests); got != before {
		t.Errorf("active gauge = %v, want %v", got, before)
	}
}
