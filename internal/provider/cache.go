package provider

import (
	"context"
	"sync"
	"time"

	"options-sentinel/internal/logger"
	"options-sentinel/internal/types"
)

// CachingFetcher memoizes snapshots by (ticker, expiry). The engine is
// deterministic, so serving a repeated request from cache changes nothing
// except load on the upstream.
type CachingFetcher struct {
	inner SnapshotFetcher
	cache *snapshotCache
}

// NewCachingFetcher wraps a fetcher with a TTL cache.
func NewCachingFetcher(inner SnapshotFetcher, ttl time.Duration) *CachingFetcher {
	return &CachingFetcher{
		inner: inner,
		cache: newSnapshotCache(ttl),
	}
}

// FetchSnapshot returns a cached snapshot when fresh, otherwise delegates and
// stores the result.
func (f *CachingFetcher) FetchSnapshot(ctx context.Context, ticker, expiry string) (*types.MarketSnapshot, error) {
	key := ticker + "|" + expiry
	if snap, found := f.cache.get(key); found {
		logger.Debug(ctx, "Snapshot served from cache", "ticker", ticker, "expiry", expiry)
		return snap, nil
	}

	snap, err := f.inner.FetchSnapshot(ctx, ticker, expiry)
	if err != nil {
		return nil, err
	}
	f.cache.set(key, snap)
	return snap, nil
}

// ClearCache drops all cached snapshots.
func (f *CachingFetcher) ClearCache() {
	f.cache.clear()
}

// CachedKeys returns the keys currently held, fresh or not.
func (f *CachingFetcher) CachedKeys() []string {
	return f.cache.keys()
}

type cachedSnapshot struct {
	snapshot  *types.MarketSnapshot
	expiresAt time.Time
}

type snapshotCache struct {
	mu   sync.RWMutex
	data map[string]cachedSnapshot
	ttl  time.Duration
}

func newSnapshotCache(ttl time.Duration) *snapshotCache {
	return &snapshotCache{
		data: make(map[string]cachedSnapshot),
		ttl:  ttl,
	}
}

func (c *snapshotCache) get(key string) (*types.MarketSnapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, found := c.data[key]
	if !found || time.Now().After(entry.expiresAt) {
		return nil, false
	}
	return entry.snapshot, true
}

func (c *snapshotCache) set(key string, snap *types.MarketSnapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = cachedSnapshot{
		snapshot:  snap,
		expiresAt: time.Now().Add(c.ttl),
	}
}

func (c *snapshotCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now()
	for key, entry := range c.data {
		if now.After(entry.expiresAt) {
			delete(c.data, key)
		}
	}
}

func (c *snapshotCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string]cachedSnapshot)
}

func (c *snapshotCache) keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	keys := make([]string, 0, len(c.data))
	for key := range c.data {
		keys = append(keys, key)
	}
	return keys
}
