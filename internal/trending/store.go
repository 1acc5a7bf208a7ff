// Curator - Intelligent Content Curation Engine
// Copyright 2026 Feedlab
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/feedlab/curator

package trending

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

// ErrNoSnapshot is returned when no snapshot has been persisted yet.
var ErrNoSnapshot = errors.New("no trending snapshot")

// SnapshotStore persists trending snapshots so a restart can serve trending
// results before the first recompute completes.
type SnapshotStore interface {
	// Save persists the snapshot, replacing any previous one.
	Save(ctx context.Context, snap *Snapshot) error

	// Load returns the most recently saved snapshot, or ErrNoSnapshot.
	Load(ctx context.Context) (*Snapshot, error)
}

// MemorySnapshotStore keeps the last snapshot in memory only.
type MemorySnapshotStore struct {
	mu   sync.Mutex
	snap *Snapshot
}

// NewMemorySnapshotStore creates an empty in-memory snapshot store.
func NewMemorySnapshotStore() *MemorySnapshotStore {
	return &MemorySnapshotStore{}
}

// Save implements SnapshotStore.
func (s *MemorySnapshotStore) Save(_ context.Context, snap *Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = snap
	return nil
}

// Load implements SnapshotStore.
func (s *MemorySnapshotStore) Load(_ context.Context) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snap == nil {
		return nil, ErrNoSnapshot
	}
	return s.snap, nil
}

const snapshotKey = "trending:snapshot"

// BadgerSnapshotStore persists snapshots in BadgerDB as a single JSON value.
type BadgerSnapshotStore struct {
	db *badger.DB
}

// NewBadgerSnapshotStore creates a BadgerDB-backed snapshot store.
func NewBadgerSnapshotStore(db *badger.DB) *BadgerSnapshotStore {
	return &BadgerSnapshotStore{db: db}
}

// Save implements SnapshotStore.
func (s *BadgerSnapshotStore) Save(_ context.Context, snap *Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(snapshotKey), data)
	})
}

// Load implements SnapshotStore.
func (s *BadgerSnapshotStore) Load(_ context.Context) (*Snapshot, error) {
	var snap Snapshot

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(snapshotKey))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNoSnapshot
		}
		if err != nil {
			return fmt.Errorf("get snapshot: %w", err)
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &snap)
		})
	})
	if err != nil {
		return nil, err
	}

	return &snap, nil
}
