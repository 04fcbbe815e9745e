// Package cache provides in-memory caching for chart payloads.
package cache

import (
	"strings"
	"sync"
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/yourusername/bayes-bet/internal/metrics"
)

const keySeparator = "|"

// Key identifies one cached chart payload
type Key struct {
	Kind   string
	League string
	// Date is the prediction date the payload was built from. Empty for
	// payloads spanning several dates.
	Date  string
	Extra string
}

// String returns string representation of cache key
func (k Key) String() string {
	return strings.Join([]string{k.Kind, k.League, k.Date, k.Extra}, keySeparator)
}

func parseKey(s string) (Key, bool) {
	parts := strings.Split(s, keySeparator)
	if len(parts) != 4 {
		return Key{}, false
	}
	return Key{Kind: parts[0], League: parts[1], Date: parts[2], Extra: parts[3]}, true
}

// ChartCache provides in-memory caching for chart payloads
type ChartCache struct {
	cache   *gocache.Cache
	ttl     time.Duration
	maxSize int

	// mu serialises writers so the size check and insert are atomic
	mu sync.Mutex
	// epoch is bumped by every invalidation so builds that started
	// before it are not stored
	epoch     uint64
	hitCount  atomic.Uint64
	missCount atomic.Uint64
}

// NewChartCache creates a new chart cache
func NewChartCache(ttl time.Duration, maxSize int) *ChartCache {
	return &ChartCache{
		cache:   gocache.New(ttl, ttl*2),
		ttl:     ttl,
		maxSize: maxSize,
	}
}

// Get retrieves a cached payload
func (c *ChartCache) Get(key Key) (interface{}, bool) {
	value, found := c.cache.Get(key.String())
	if found {
		c.hitCount.Add(1)
	} else {
		c.missCount.Add(1)
	}
	c.updateMetrics()
	return value, found
}

// Set stores a payload in cache. When the cache is full expired items are
// dropped first, then the entry closest to expiry.
func (c *ChartCache) Set(key Key, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.set(key, value)
}

func (c *ChartCache) set(key Key, value interface{}) {
	if c.maxSize > 0 && c.cache.ItemCount() >= c.maxSize {
		c.cache.DeleteExpired()
		if c.cache.ItemCount() >= c.maxSize {
			c.evictOldest()
		}
	}

	c.cache.Set(key.String(), value, c.ttl)
	c.updateMetrics()
}

// GetOrBuild returns the cached payload for key or builds and caches it.
// Build errors are not cached.
func (c *ChartCache) GetOrBuild(key Key, build func() (interface{}, error)) (interface{}, error) {
	if value, ok := c.Get(key); ok {
		return value, nil
	}
	started := c.currentEpoch()
	value, err := build()
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	// an invalidation during the build means value may be stale
	if c.epoch == started {
		c.set(key, value)
	}
	return value, nil
}

func (c *ChartCache) currentEpoch() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.epoch
}

// Invalidate removes every entry built from the league's run on date,
// plus the league's multi-date entries.
func (c *ChartCache) Invalidate(league, date string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.epoch++
	removed := 0
	for k := range c.cache.Items() {
		key, ok := parseKey(k)
		if !ok || key.League != league {
			continue
		}
		if key.Date == date || key.Date == "" {
			c.cache.Delete(k)
			removed++
		}
	}
	c.updateMetrics()
	return removed
}

// Clear flushes the entire cache
func (c *ChartCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.epoch++
	c.cache.Flush()
	c.hitCount.Store(0)
	c.missCount.Store(0)
	c.updateMetrics()
}

// Stats returns cache statistics
func (c *ChartCache) Stats() (hits, misses uint64, ratio float64) {
	hits = c.hitCount.Load()
	misses = c.missCount.Load()
	if total := hits + misses; total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return hits, misses, ratio
}

// ItemCount returns the number of items in cache
func (c *ChartCache) ItemCount() int {
	return c.cache.ItemCount()
}

func (c *ChartCache) evictOldest() {
	var (
		oldestKey string
		oldestExp int64
	)
	for k, item := range c.cache.Items() {
		if oldestKey == "" || item.Expiration < oldestExp {
			oldestKey, oldestExp = k, item.Expiration
		}
	}
	if oldestKey != "" {
		c.cache.Delete(oldestKey)
	}
}

func (c *ChartCache) updateMetrics() {
	_, _, ratio := c.Stats()
	metrics.UpdateCacheStats(ratio, c.cache.ItemCount())
}
