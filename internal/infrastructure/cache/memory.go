package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/mealmetric/backend/internal/domain"
)

// cacheItem is a stored value with its expiry instant.
type cacheItem struct {
	value      interface{}
	expiration time.Time
}

// TierTTLs configures the lifetime of each cache tier.
type TierTTLs struct {
	Result  time.Duration // computed calorie results
	Search  time.Duration // raw search-result lists
	Details time.Duration // food-detail lookups
}

// DefaultTierTTLs returns the standard tier lifetimes.
func DefaultTierTTLs() TierTTLs {
	return TierTTLs{
		Result:  time.Hour,
		Search:  15 * time.Minute,
		Details: 24 * time.Hour,
	}
}

// TieredCache is a thread-safe in-memory cache with per-tier TTLs and
// hit/miss accounting. Expiry is strictly by TTL; access never extends an
// entry's lifetime.
type TieredCache struct {
	mu     sync.RWMutex
	data   map[string]cacheItem
	ttls   TierTTLs
	hits   uint64
	misses uint64
	stop   chan struct{}
}

// New creates a tiered cache and starts its cleanup goroutine. Call Close
// at shutdown to stop the janitor.
func New(ttls TierTTLs) *TieredCache {
	if ttls.Result <= 0 {
		ttls.Result = time.Hour
	}
	if ttls.Search <= 0 {
		ttls.Search = 15 * time.Minute
	}
	if ttls.Details <= 0 {
		ttls.Details = 24 * time.Hour
	}

	c := &TieredCache{
		data: make(map[string]cacheItem),
		ttls: ttls,
		stop: make(chan struct{}),
	}
	go c.cleanupExpired()
	return c
}

// Get retrieves a live value. Expired entries count as misses.
func (c *TieredCache) Get(ctx context.Context, key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, exists := c.data[key]
	if !exists || time.Now().After(item.expiration) {
		c.misses++
		cacheMisses.Inc()
		return nil, false
	}

	c.hits++
	cacheHits.Inc()
	return item.value, true
}

// Set stores a value under the tier's default TTL.
func (c *TieredCache) Set(ctx context.Context, key string, value interface{}, tier domain.CacheTier) {
	c.SetWithTTL(ctx, key, value, c.ttlFor(tier))
}

// SetWithTTL stores a value with an explicit lifetime.
func (c *TieredCache) SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data[key] = cacheItem{
		value:      value,
		expiration: time.Now().Add(ttl),
	}
}

// FlushAll removes every entry and returns the number removed.
func (c *TieredCache) FlushAll() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := len(c.data)
	c.data = make(map[string]cacheItem)
	return n
}

// FlushByPattern removes every key containing the given substring and
// returns the number removed.
func (c *TieredCache) FlushByPattern(substring string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for key := range c.data {
		if strings.Contains(key, substring) {
			delete(c.data, key)
			n++
		}
	}
	return n
}

// Stats reports hit/miss counters and the current key count. Expired but
// not yet swept entries are included in the key count.
func (c *TieredCache) Stats() domain.CacheStats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return domain.CacheStats{
		Hits:   c.hits,
		Misses: c.misses,
		Keys:   len(c.data),
	}
}

// Close stops the cleanup goroutine.
func (c *TieredCache) Close() {
	close(c.stop)
}

func (c *TieredCache) ttlFor(tier domain.CacheTier) time.Duration {
	switch tier {
	case domain.TierSearch:
		return c.ttls.Search
	case domain.TierDetails:
		return c.ttls.Details
	default:
		return c.ttls.Result
	}
}

// cleanupExpired sweeps expired entries every minute.
func (c *TieredCache) cleanupExpired() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.mu.Lock()
			now := time.Now()
			for key, item := range c.data {
				if now.After(item.expiration) {
					delete(c.data, key)
				}
			}
			c.mu.Unlock()
		}
	}
}
