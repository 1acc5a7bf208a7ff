// Curator - Intelligent Content Curation Engine
// Copyright 2026 Feedlab
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/feedlab/curator

package curation

import "testing"

func TestContentCachePutGet(t *testing.T) {
	t.Parallel()

	c := newContentCache(4)
	c.put(ContentItem{ID: "a", Title: "first"})
	c.put(ContentItem{ID: "a", Title: "updated"})

	got, ok := c.get("a")
	if !ok || got.Title != "updated" {
		t.Errorf("get(a) = %+v,%v, want updated item", got, ok)
	}
	if c.len() != 1 {
		t.Errorf("len = %d, want 1 (re-put must not duplicate)", c.len())
	}
	if _, ok := c.get("missing"); ok {
		t.Error("get(missing) reported a hit")
	}
}

func TestContentCacheEvictsOldestFirst(t *testing.T) {
	t.Parallel()

	c := newContentCache(3)
	for _, id := range []string{"a", "b", "c", "d"} {
		c.put(ContentItem{ID: id})
	}

	if _, ok := c.get("a"); ok {
		t.Error("oldest entry survived eviction")
	}
	for _, id := range []string{"b", "c", "d"} {
		if _, ok := c.get(id); !ok {
			t.Errorf("entry %q missing", id)
		}
	}
	if c.len() != 3 {
		t.Errorf("len = %d, want 3", c.len())
	}
}
