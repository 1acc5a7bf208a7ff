// Curator - Intelligent Content Curation Engine
// Copyright 2026 Feedlab
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/feedlab/curator

package curation

import (
	"fmt"
	"sync"
	"time"

	"github.com/feedlab/curator/internal/profile"
)

// Scorer produces one algorithm's score for a candidate against a profile.
//
// Implementations must be pure with respect to their inputs: no shared
// mutable state per call, safe for concurrent use, and deterministic for a
// fixed (content, profile, now) triple. Scores outside [0, 1] are clamped
// by the pipeline.
type Scorer interface {
	Score(content ContentItem, p *profile.Profile, now time.Time) (float64, error)
}

// ActiveAlgorithm pairs an algorithm descriptor with its scorer, as handed
// to the scoring pipeline.
type ActiveAlgorithm struct {
	Algorithm Algorithm
	Scorer    Scorer
}

type registeredAlgorithm struct {
	desc   Algorithm
	scorer Scorer
}

// Registry holds the named scoring algorithms. Registration order is
// preserved for enumeration so score breakdowns and weight maps are stable.
type Registry struct {
	mu         sync.RWMutex
	order      []string
	algorithms map[string]*registeredAlgorithm
}

// NewRegistry creates an empty algorithm registry.
func NewRegistry() *Registry {
	return &Registry{
		algorithms: make(map[string]*registeredAlgorithm),
	}
}

// Register adds an algorithm with its scorer. The descriptor is validated
// here so scoring never has to re-check it.
func (r *Registry) Register(desc Algorithm, scorer Scorer) error {
	if desc.ID == "" {
		return ValidationError("algorithm.id", "must not be empty")
	}
	if !desc.Type.Valid() {
		return ValidationError("algorithm.type", fmt.Sprintf("unknown type %q", desc.Type))
	}
	if desc.Weight < 0 {
		return ValidationError("algorithm.weight", "must be >= 0")
	}
	if scorer == nil {
		return ValidationError("algorithm.scorer", "must not be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.algorithms[desc.ID]; exists {
		return ValidationError("algorithm.id", fmt.Sprintf("%q already registered", desc.ID))
	}

	r.order = append(r.order, desc.ID)
	r.algorithms[desc.ID] = &registeredAlgorithm{desc: desc, scorer: scorer}
	return nil
}

// Get returns the descriptor for id.
func (r *Registry) Get(id string) (Algorithm, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reg, ok := r.algorithms[id]
	if !ok {
		return Algorithm{}, false
	}
	return reg.desc, true
}

// List returns all descriptors in registration order.
func (r *Registry) List() []Algorithm {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Algorithm, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.algorithms[id].desc)
	}
	return out
}

// Active returns the active algorithms with their scorers, in registration
// order. Zero-weight active algorithms are included: they still execute for
// their breakdown value even though they contribute nothing to the
// composite.
func (r *Registry) Active() []ActiveAlgorithm {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]ActiveAlgorithm, 0, len(r.order))
	for _, id := range r.order {
		reg := r.algorithms[id]
		if !reg.desc.Active {
			continue
		}
		out = append(out, ActiveAlgorithm{Algorithm: reg.desc, Scorer: reg.scorer})
	}
	return out
}

// ActiveCount returns the number of active algorithms.
func (r *Registry) ActiveCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, reg := range r.algorithms {
		if reg.desc.Active {
			n++
		}
	}
	return n
}

// EffectiveWeights returns id -> weight restricted to active algorithms.
// The map is empty, never nil, when no algorithm is active.
func (r *Registry) EffectiveWeights() map[string]float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	weights := make(map[string]float64)
	for _, id := range r.order {
		reg := r.algorithms[id]
		if reg.desc.Active {
			weights[id] = reg.desc.Weight
		}
	}
	return weights
}

// SetActive flips the active flag of an algorithm.
func (r *Registry) SetActive(id string, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	reg, ok := r.algorithms[id]
	if !ok {
		return NotFoundError("algorithm", id)
	}
	reg.desc.Active = active
	return nil
}

// SetWeight changes the weight of an algorithm. Weights are only mutated
// administratively; scoring reads a snapshot via Active().
func (r *Registry) SetWeight(id string, weight float64) error {
	if weight < 0 {
		return ValidationError("algorithm.weight", "must be >= 0")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	reg, ok := r.algorithms[id]
	if !ok {
		return NotFoundError("algorithm", id)
	}
	reg.desc.Weight = weight
	return nil
}
