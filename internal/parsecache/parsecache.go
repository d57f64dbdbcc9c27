// Package parsecache holds ParseResult values behind a TTL-bearing handle so
// that MCP tools can split a single parse into multiple paginated listing
// calls (list_blocks, list_constructs, get_construct) without re-running
// internal/spatial.Parse per page. Grounded on internal/grid.Manager's
// handle-cache shape, applied to an in-memory value instead of a file.
package parsecache

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/textrux/spatial/config"
	"github.com/textrux/spatial/internal/spatial"
)

type entry struct {
	result    *spatial.ParseResult
	expiresAt time.Time
}

// Cache is a concurrency-safe TTL store of ParseResult values keyed by a
// generated parse ID.
type Cache struct {
	mu           sync.RWMutex
	items        map[string]*entry
	ttl          time.Duration
	cleanupEvery time.Duration
	clock        func() time.Time
	stopCh       chan struct{}
	wg           sync.WaitGroup
}

// New constructs a Cache. ttl/cleanupEvery <= 0 fall back to config
// defaults; a nil clock defaults to time.Now.
func New(ttl, cleanupEvery time.Duration, clock func() time.Time) *Cache {
	if ttl <= 0 {
		ttl = config.DefaultParseResultTTL
	}
	if cleanupEvery <= 0 {
		cleanupEvery = config.DefaultParseCleanupPeriod
	}
	if clock == nil {
		clock = time.Now
	}
	return &Cache{
		items:        make(map[string]*entry),
		ttl:          ttl,
		cleanupEvery: cleanupEvery,
		clock:        clock,
		stopCh:       make(chan struct{}),
	}
}

// Start launches periodic eviction of expired entries.
func (c *Cache) Start() {
	c.wg.Add(1)
	ticker := time.NewTicker(c.cleanupEvery)
	go func() {
		defer c.wg.Done()
		defer ticker.Stop()
		for {
			select {
			case <-c.stopCh:
				return
			case <-ticker.C:
				c.evictExpired()
			}
		}
	}()
}

// Close stops the background eviction goroutine.
func (c *Cache) Close() {
	close(c.stopCh)
	c.wg.Wait()
}

// Store assigns a new parse ID to result and returns it, refreshed for ttl.
func (c *Cache) Store(result *spatial.ParseResult) string {
	id := uuid.NewString()
	c.StoreWithID(id, result)
	return id
}

// NewID generates a parse ID without storing anything, so a caller can
// label stage-progress events emitted while Parse is still running and
// then store the finished result under the same ID via StoreWithID.
func (c *Cache) NewID() string {
	return uuid.NewString()
}

// StoreWithID stores result under an explicit, caller-generated id.
func (c *Cache) StoreWithID(id string, result *spatial.ParseResult) {
	c.mu.Lock()
	c.items[id] = &entry{result: result, expiresAt: c.clock().Add(c.ttl)}
	c.mu.Unlock()
}

// Get returns the cached result for id, refreshing its TTL on hit.
func (c *Cache) Get(id string) (*spatial.ParseResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.items[id]
	if !ok {
		return nil, false
	}
	e.expiresAt = c.clock().Add(c.ttl)
	return e.result, true
}

// Count returns the number of cached parse results.
func (c *Cache) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

func (c *Cache) evictExpired() {
	now := c.clock()
	c.mu.Lock()
	defer c.mu.Unlock()
	for id, e := range c.items {
		if now.After(e.expiresAt) {
			delete(c.items, id)
		}
	}
}
