// Curator - Intelligent Content Curation Engine
// Copyright 2026 Feedlab
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/feedlab/curator

package curation

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/feedlab/curator/internal/metrics"
	"github.com/feedlab/curator/internal/profile"
)

// neutralScore is the composite when no active algorithm carries weight.
const neutralScore = 0.5

// confidenceLift is added to the composite to derive the confidence.
const confidenceLift = 0.1

// Pipeline scores candidate pools against a profile with every active
// algorithm and combines the outputs into weighted composite scores.
//
// Scoring one candidate is pure computation with no shared mutable state,
// so candidates are distributed over a bounded worker pool. Results are
// index-addressed: the output order always matches the input order
// regardless of worker scheduling.
type Pipeline struct {
	registry *Registry
	workers  int
	logger   zerolog.Logger
}

// NewPipeline creates a scoring pipeline. workers <= 0 selects one worker
// per CPU.
func NewPipeline(registry *Registry, workers int, logger zerolog.Logger) *Pipeline {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Pipeline{
		registry: registry,
		workers:  workers,
		logger:   logger.With().Str("component", "scoring_pipeline").Logger(),
	}
}

// ScoreAll scores every item in the pool against the profile. It checks for
// cancellation once before scoring begins; the scoring pass itself is
// bounded and I/O-free, so it runs to completion rather than being
// interrupted mid-batch.
func (pl *Pipeline) ScoreAll(ctx context.Context, items []ContentItem, p *profile.Profile, now time.Time) ([]ScoredContent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	active := pl.registry.Active()
	results := make([]ScoredContent, len(items))

	workers := pl.workers
	if workers > len(items) {
		workers = len(items)
	}
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = pl.scoreOne(items[i], p, active, now)
			}
		}()
	}

	for i := range items {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	metrics.ScoringDuration.Observe(time.Since(start).Seconds())
	return results, nil
}

// scoreOne runs every active algorithm over one candidate and combines the
// outputs. Zero-weight active algorithms still appear in the breakdown but
// contribute nothing to the composite.
func (pl *Pipeline) scoreOne(content ContentItem, p *profile.Profile, active []ActiveAlgorithm, now time.Time) ScoredContent {
	breakdown := make(map[string]float64, len(active))

	var weighted, weightSum float64
	for _, alg := range active {
		score := pl.runScorer(alg, content, p, now)
		breakdown[alg.Algorithm.ID] = score
		weighted += score * alg.Algorithm.Weight
		weightSum += alg.Algorithm.Weight
		metrics.RecordAlgorithmScore(alg.Algorithm.ID, score)
	}

	composite := neutralScore
	if weightSum > 0 {
		composite = clampScore(weighted / weightSum)
	}

	confidence := composite + confidenceLift
	if confidence > 1.0 {
		confidence = 1.0
	}

	return ScoredContent{
		Content:    content,
		Score:      composite,
		Breakdown:  breakdown,
		Confidence: confidence,
	}
}

// runScorer invokes one scorer with full fault isolation: an error or a
// panic is logged, counted, and treated as score 0 for that algorithm only.
func (pl *Pipeline) runScorer(alg ActiveAlgorithm, content ContentItem, p *profile.Profile, now time.Time) (score float64) {
	defer func() {
		if r := recover(); r != nil {
			pl.logger.Error().
				Str("algorithm", alg.Algorithm.ID).
				Str("content_id", content.ID).
				Interface("panic", r).
				Msg("scoring algorithm panicked")
			metrics.RecordAlgorithmFailure(alg.Algorithm.ID, "panic")
			score = 0
		}
	}()

	s, err := alg.Scorer.Score(content, p, now)
	if err != nil {
		pl.logger.Warn().
			Err(err).
			Str("algorithm", alg.Algorithm.ID).
			Str("content_id", content.ID).
			Msg("scoring algorithm failed")
		metrics.RecordAlgorithmFailure(alg.Algorithm.ID, "error")
		return 0
	}

	return clampScore(s)
}

func clampScore(v float64) float64 {
	if v > 1.0 {
		return 1.0
	}
	if v < 0.0 {
		return 0.0
	}
	return v
}
