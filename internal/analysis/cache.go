// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analysis

import (
	"container/list"
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/pdiddy/citation-engine/internal/metrics"
	"github.com/pdiddy/citation-engine/pkg/types"
)

// DefaultCacheSize is the number of completed reports kept by an Engine.
const DefaultCacheSize = 16

// reportCache is an LRU of completed reports keyed by graph and config hash.
// Concurrent misses on one key share a single computation.
type reportCache struct {
	mu      sync.Mutex
	max     int
	entries map[string]*list.Element
	lru     *list.List
	flight  singleflight.Group
}

type cacheEntry struct {
	key    string
	report *Report
}

func newReportCache(max int) *reportCache {
	if max <= 0 {
		max = DefaultCacheSize
	}
	return &reportCache{max: max, entries: make(map[string]*list.Element), lru: list.New()}
}

func (c *reportCache) get(key string) (*Report, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	c.lru.MoveToFront(el)
	return el.Value.(*cacheEntry).report, true
}

func (c *reportCache) put(key string, r *Report) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.entries[key]; ok {
		el.Value.(*cacheEntry).report = r
		c.lru.MoveToFront(el)
		return
	}
	c.entries[key] = c.lru.PushFront(&cacheEntry{key: key, report: r})
	for c.lru.Len() > c.max {
		oldest := c.lru.Back()
		c.lru.Remove(oldest)
		delete(c.entries, oldest.Value.(*cacheEntry).key)
	}
}

func (c *reportCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

// do returns the cached report for key or computes it with fn. Callers that
// arrive while a computation is in flight wait for it. A computation that
// was cancelled is never cached, and a waiter whose own context is still
// live starts a fresh one. The second return value is one of the
// metrics.Cache* lookup results.
func (c *reportCache) do(ctx context.Context, key string, fn func(context.Context) (*Report, error)) (*Report, string, error) {
	for {
		if r, ok := c.get(key); ok {
			return r, metrics.CacheHit, nil
		}
		ch := c.flight.DoChan(key, func() (any, error) {
			r, err := fn(ctx)
			if err != nil {
				return nil, err
			}
			c.put(key, r)
			return r, nil
		})
		select {
		case <-ctx.Done():
			return nil, "", types.ErrCancelled
		case res := <-ch:
			if res.Err != nil {
				if errors.Is(res.Err, types.ErrCancelled) && ctx.Err() == nil {
					continue
				}
				return nil, "", res.Err
			}
			lookup := metrics.CacheMiss
			if res.Shared {
				lookup = metrics.CacheShared
			}
			return res.Val.(*Report), lookup, nil
		}
	}
}
