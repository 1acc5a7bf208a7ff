// Curator - Intelligent Content Curation Engine
// Copyright 2026 Feedlab
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/feedlab/curator

package curation

import (
	"sync"

	"github.com/feedlab/curator/internal/metrics"
)

// contentCache keeps recently curated content items addressable by ID so
// explanation and preference-update calls can resolve content without
// another source round trip. Bounded with FIFO eviction.
type contentCache struct {
	mu       sync.Mutex
	capacity int
	order    []string
	items    map[string]ContentItem
}

func newContentCache(capacity int) *contentCache {
	return &contentCache{
		capacity: capacity,
		items:    make(map[string]ContentItem, capacity),
	}
}

func (c *contentCache) get(id string) (ContentItem, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, ok := c.items[id]
	if ok {
		metrics.ContentCacheHits.Inc()
	} else {
		metrics.ContentCacheMisses.Inc()
	}
	return item, ok
}

func (c *contentCache) put(item ContentItem) {
	if item.ID == "" {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.items[item.ID]; !exists {
		c.order = append(c.order, item.ID)
		for len(c.order) > c.capacity {
			oldest := c.order[0]
			c.order = c.order[1:]
			delete(c.items, oldest)
		}
	}
	c.items[item.ID] = item
	metrics.ContentCacheSize.Set(float64(len(c.items)))
}

func (c *contentCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}
