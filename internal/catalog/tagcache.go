package catalog

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// tagCache caches the remote tag list with a fixed freshness window. Tags
// hold identities, not item-tag associations, so writes do not invalidate
// it. Concurrent misses share one upstream fetch via singleflight.
type tagCache struct {
	mu        sync.RWMutex
	value     []Tag
	fetchedAt time.Time
	ttl       time.Duration
	group     singleflight.Group
}

func newTagCache(ttl time.Duration) *tagCache {
	return &tagCache{ttl: ttl}
}

func (c *tagCache) get(ctx context.Context, fetch func(context.Context) ([]Tag, error)) []Tag {
	c.mu.RLock()
	if c.value != nil && time.Since(c.fetchedAt) < c.ttl {
		v := c.value
		c.mu.RUnlock()
		return v
	}
	c.mu.RUnlock()

	v, err, _ := c.group.Do("tags", func() (any, error) {
		tags, err := fetch(ctx)
		if err != nil {
			return []Tag{}, nil // advisory data: failure degrades to empty, uncached
		}
		c.mu.Lock()
		c.value = tags
		c.fetchedAt = time.Now()
		c.mu.Unlock()
		return tags, nil
	})
	if err != nil || v == nil {
		return []Tag{}
	}
	return v.([]Tag)
}

// invalidate drops the cached value. Used by tests and by operators forcing
// a refresh.
func (c *tagCache) invalidate() {
	c.mu.Lock()
	c.value = nil
	c.mu.Unlock()
}
