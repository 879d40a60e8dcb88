package sentiment

import (
	"strings"
	"sync"
	"time"

	"stock-sentiment/internal/types"
)

// resultCache stores aggregation results temporarily so repeated
// lookups for the same ticker and source do not re-run the pipeline.
type resultCache struct {
	mu   sync.RWMutex
	data map[string]*cacheEntry
	ttl  time.Duration
}

type cacheEntry struct {
	result    types.AggregateResult
	timestamp time.Time
}

func newResultCache(ttl time.Duration) *resultCache {
	cache := &resultCache{
		data: make(map[string]*cacheEntry),
		ttl:  ttl,
	}
	go cache.cleanupLoop()
	return cache
}

// cacheKey builds the lookup key for one ticker and source selector.
func cacheKey(ticker, source string) string {
	return strings.ToUpper(ticker) + "|" + source
}

func (c *resultCache) get(key string) (types.AggregateResult, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.data[key]
	if !exists {
		return types.AggregateResult{}, false
	}
	if time.Since(entry.timestamp) > c.ttl {
		return types.AggregateResult{}, false
	}
	return entry.result, true
}

func (c *resultCache) set(key string, res types.AggregateResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data[key] = &cacheEntry{
		result:    res,
		timestamp: time.Now(),
	}
}

func (c *resultCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data = make(map[string]*cacheEntry)
}

func (c *resultCache) keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys := make([]string, 0, len(c.data))
	for key := range c.data {
		keys = append(keys, key)
	}
	return keys
}

// cleanup removes expired entries.
func (c *resultCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, entry := range c.data {
		if time.Since(entry.timestamp) > c.ttl {
			delete(c.data, key)
		}
	}
}

func (c *resultCache) cleanupLoop() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		c.cleanup()
	}
}
