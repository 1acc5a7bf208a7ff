// Curator - Intelligent Content Curation Engine
// Copyright 2026 Feedlab
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/feedlab/curator

package profile

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

const profileKeyPrefix = "profile:"

// BadgerStore implements Store using BadgerDB for durable storage.
// Profiles survive restarts; it is a drop-in replacement for MemoryStore.
//
// BadgerDB transactions give atomicity per write, but read-modify-write
// cycles still need per-user serialization, which the store provides with
// in-process per-key mutexes.
type BadgerStore struct {
	db *badger.DB

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewBadgerStore creates a BadgerDB-backed profile store.
func NewBadgerStore(db *badger.DB) *BadgerStore {
	return &BadgerStore{
		db:    db,
		locks: make(map[string]*sync.Mutex),
	}
}

// Get implements Store.
func (s *BadgerStore) Get(ctx context.Context, userID string) (*Profile, error) {
	var p Profile

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(profileKey(userID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get profile: %w", err)
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &p)
		})
	})
	if err != nil {
		return nil, err
	}

	return &p, nil
}

// GetOrCreate implements Store.
func (s *BadgerStore) GetOrCreate(ctx context.Context, userID string, prefs *UserPreferences) (*Profile, error) {
	lock := s.lockFor(userID)
	lock.Lock()
	defer lock.Unlock()

	p, err := s.Get(ctx, userID)
	switch {
	case errors.Is(err, ErrNotFound):
		p = New(userID, prefs)
	case err != nil:
		return nil, err
	case prefs != nil:
		p.Preferences.Merge(*prefs)
	}

	if err := s.put(p); err != nil {
		return nil, err
	}

	return p, nil
}

// Update implements Store.
func (s *BadgerStore) Update(ctx context.Context, userID string, fn func(*Profile) error) error {
	lock := s.lockFor(userID)
	lock.Lock()
	defer lock.Unlock()

	p, err := s.Get(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		p = New(userID, nil)
	} else if err != nil {
		return err
	}

	if err := fn(p); err != nil {
		return err
	}

	return s.put(p)
}

// Count implements Store.
func (s *BadgerStore) Count(ctx context.Context) (int, error) {
	count := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(profileKeyPrefix)

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			count++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("count profiles: %w", err)
	}

	return count, nil
}

func (s *BadgerStore) put(p *Profile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(profileKey(p.UserID), data)
	})
}

func (s *BadgerStore) lockFor(userID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[userID] = lock
	}
	return lock
}

func profileKey(userID string) []byte {
	return []byte(profileKeyPrefix + userID)
}
