package cache

import (
	"context"
	"sync"
	"time"

	"github.com/outfitplanner/backend/internal/domain"
	"github.com/outfitplanner/backend/internal/metrics"
)

// defaultSweepInterval is used when NewMemoryCache receives a non-positive interval
const defaultSweepInterval = 10 * time.Minute

// cacheItem represents a single result set in the cache with expiration
type cacheItem struct {
	Listings   []domain.Listing
	Expiration time.Time
}

// MemoryCache is a thread-safe in-memory result cache with TTL support.
// Expired entries are removed both by a periodic sweep and by the read that observes them.
type MemoryCache struct {
	data  map[string]cacheItem
	mutex sync.RWMutex
	now   func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

// NewMemoryCache creates a new in-memory cache and starts its sweep goroutine
func NewMemoryCache(sweepInterval time.Duration) *MemoryCache {
	if sweepInterval <= 0 {
		sweepInterval = defaultSweepInterval
	}

	cache := &MemoryCache{
		data: make(map[string]cacheItem),
		now:  time.Now,
		stop: make(chan struct{}),
	}

	go cache.sweepLoop(sweepInterval)

	return cache
}

// Get retrieves a result set from the cache
func (c *MemoryCache) Get(ctx context.Context, fingerprint string) ([]domain.Listing, error) {
	c.mutex.RLock()
	item, exists := c.data[fingerprint]
	c.mutex.RUnlock()

	if !exists {
		return nil, domain.ErrCacheMiss
	}

	if c.now().After(item.Expiration) {
		c.evictIfExpired(fingerprint)
		return nil, domain.ErrCacheMiss
	}

	return copyListings(item.Listings), nil
}

// Set stores a result set in the cache with TTL, replacing any previous entry
func (c *MemoryCache) Set(ctx context.Context, fingerprint string, listings []domain.Listing, ttl time.Duration) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.data[fingerprint] = cacheItem{
		Listings:   copyListings(listings),
		Expiration: c.now().Add(ttl),
	}

	return nil
}

// Delete removes a result set from the cache
func (c *MemoryCache) Delete(ctx context.Context, fingerprint string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.data, fingerprint)
	return nil
}

// evictIfExpired re-checks under the write lock so a concurrent Set is not lost
func (c *MemoryCache) evictIfExpired(fingerprint string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if item, ok := c.data[fingerprint]; ok && c.now().After(item.Expiration) {
		delete(c.data, fingerprint)
		metrics.CacheEvictions.Inc()
	}
}

// Sweep removes every expired entry and returns how many were removed
func (c *MemoryCache) Sweep() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	now := c.now()
	removed := 0
	for key, item := range c.data {
		if now.After(item.Expiration) {
			delete(c.data, key)
			removed++
		}
	}
	metrics.CacheEvictions.Add(float64(removed))
	return removed
}

func (c *MemoryCache) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.Sweep()
		case <-c.stop:
			return
		}
	}
}

// Close stops the sweep goroutine
func (c *MemoryCache) Close() error {
	c.stopOnce.Do(func() { close(c.stop) })
	return nil
}

// Size returns the current number of entries, expired or not (for debugging/monitoring)
func (c *MemoryCache) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.data)
}

// Clear removes all entries from the cache
func (c *MemoryCache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.data = make(map[string]cacheItem)
}

func copyListings(in []domain.Listing) []domain.Listing {
	out := make([]domain.Listing, len(in))
	copy(out, in)
	return out
}
