package metadata

import (
	"context"
	"sync"
	"time"
)

// DefaultTTL is how long a cached pod lookup stays valid.
const DefaultTTL = 300 * time.Second

// Resolver looks up pod metadata. Client implements it; the interface
// exists so the cache can be tested without a live endpoint.
type Resolver interface {
	Lookup(ctx context.Context, podName string) (PodInfo, error)
}

type cacheEntry struct {
	info    PodInfo
	expires time.Time
}

// Cache wraps a Resolver with per-pod TTL caching. Safe for concurrent use.
// Failed lookups are not cached, so transient endpoint errors are retried
// on the next request.
type Cache struct {
	resolver Resolver
	ttl      time.Duration

	mu      sync.RWMutex
	entries map[string]cacheEntry
}

// NewCache wraps resolver with a TTL cache. A non-positive ttl falls back
// to DefaultTTL.
func NewCache(resolver Resolver, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		resolver: resolver,
		ttl:      ttl,
		entries:  make(map[string]cacheEntry),
	}
}

// Lookup returns cached metadata for podName, resolving and caching it on
// a miss or after expiry.
func (c *Cache) Lookup(ctx context.Context, podName string) (PodInfo, error) {
	c.mu.RLock()
	entry, ok := c.entries[podName]
	c.mu.RUnlock()

	if ok && time.Now().Before(entry.expires) {
		return entry.info, nil
	}

	info, err := c.resolver.Lookup(ctx, podName)
	if err != nil {
		return PodInfo{}, err
	}

	c.mu.Lock()
	c.entries[podName] = cacheEntry{info: info, expires: time.Now().Add(c.ttl)}
	c.mu.Unlock()

	return info, nil
}

// Invalidate drops the cached entry for podName, if present.
func (c *Cache) Invalidate(podName string) {
	c.mu.Lock()
	delete(c.entries, podName)
	c.mu.Unlock()
}
