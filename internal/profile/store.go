// Curator - Intelligent Content Curation Engine
// Copyright 2026 Feedlab
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/feedlab/curator

package profile

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrNotFound is returned when a profile does not exist for a user.
var ErrNotFound = errors.New("profile not found")

// Store is the persistence contract for personalization profiles.
//
// Implementations must serialize mutations per user key: two concurrent
// Update calls for the same user are applied one after the other, while
// updates for different users proceed independently. Reads return stable
// snapshots that are never mutated by subsequent updates.
type Store interface {
	// Get returns a snapshot of the profile for userID, or ErrNotFound.
	Get(ctx context.Context, userID string) (*Profile, error)

	// GetOrCreate returns the existing profile, merging any newly supplied
	// preferences, or lazily creates one with defaults.
	GetOrCreate(ctx context.Context, userID string, prefs *UserPreferences) (*Profile, error)

	// Update applies fn to the profile under the user's write lock.
	// The profile is created first if it does not exist. If fn returns an
	// error no changes are persisted.
	Update(ctx context.Context, userID string, fn func(*Profile) error) error

	// Count returns the number of stored profiles.
	Count(ctx context.Context) (int, error)
}

// MemoryStore is the in-memory Store implementation. It keeps one mutex per
// profile so updates for different users never contend.
type MemoryStore struct {
	mu       sync.RWMutex
	profiles map[string]*lockedProfile
}

type lockedProfile struct {
	mu      sync.Mutex
	profile *Profile
}

// NewMemoryStore creates an empty in-memory profile store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		profiles: make(map[string]*lockedProfile),
	}
}

// Get implements Store.
func (s *MemoryStore) Get(ctx context.Context, userID string) (*Profile, error) {
	s.mu.RLock()
	entry, ok := s.profiles[userID]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrNotFound
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return entry.profile.Clone(), nil
}

// GetOrCreate implements Store.
func (s *MemoryStore) GetOrCreate(ctx context.Context, userID string, prefs *UserPreferences) (*Profile, error) {
	entry := s.entryFor(userID, prefs)

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if prefs != nil {
		entry.profile.Preferences.Merge(*prefs)
		entry.profile.LastUpdated = time.Now()
	}

	return entry.profile.Clone(), nil
}

// Update implements Store.
func (s *MemoryStore) Update(ctx context.Context, userID string, fn func(*Profile) error) error {
	entry := s.entryFor(userID, nil)

	entry.mu.Lock()
	defer entry.mu.Unlock()

	// Apply to a scratch copy so a failing fn leaves no partial write.
	scratch := entry.profile.Clone()
	if err := fn(scratch); err != nil {
		return err
	}
	entry.profile = scratch

	return nil
}

// Count implements Store.
func (s *MemoryStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.profiles), nil
}

// entryFor returns the locked entry for userID, creating it if needed.
func (s *MemoryStore) entryFor(userID string, prefs *UserPreferences) *lockedProfile {
	s.mu.RLock()
	entry, ok := s.profiles[userID]
	s.mu.RUnlock()
	if ok {
		return entry
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, ok = s.profiles[userID]; ok {
		return entry
	}

	entry = &lockedProfile{profile: New(userID, prefs)}
	s.profiles[userID] = entry
	return entry
}
