package cache

import (
	"context"
	"sync"
	"time"

	"github.com/acadreg/backend/internal/domain/tuition"
)

// InMemorySettingsCache caches the regulation settings singleton with a TTL.
// The settings row is read on every tuition query, so even a short TTL
// removes most of the read load from the database. Writers invalidate
// after every successful settings update.
type InMemorySettingsCache struct {
	mu        sync.RWMutex
	settings  *tuition.RegulationSettings
	expiresAt time.Time
	ttl       time.Duration

	// Stats for monitoring
	hits   int64
	misses int64
}

// NewInMemorySettingsCache creates a settings cache with the given TTL.
// A zero or negative TTL disables caching entirely (every Get is a miss).
func NewInMemorySettingsCache(ttl time.Duration) *InMemorySettingsCache {
	return &InMemorySettingsCache{ttl: ttl}
}

// Get returns a snapshot of the cached settings, or false on a miss or
// expired entry. Callers receive their own copy so mutating the result
// cannot corrupt the cached value for concurrent readers.
func (c *InMemorySettingsCache) Get(ctx context.Context) (*tuition.RegulationSettings, bool) {
	c.mu.RLock()
	settings, expiresAt := c.settings, c.expiresAt
	c.mu.RUnlock()

	if settings == nil || time.Now().After(expiresAt) {
		c.mu.Lock()
		c.misses++
		c.mu.Unlock()
		return nil, false
	}

	c.mu.Lock()
	c.hits++
	c.mu.Unlock()

	snapshot := *settings
	return &snapshot, true
}

// Set stores a snapshot of the settings with a fresh TTL. The cache keeps
// its own copy so later mutations through the caller's pointer do not
// leak into cached reads.
func (c *InMemorySettingsCache) Set(ctx context.Context, settings *tuition.RegulationSettings) {
	if c.ttl <= 0 || settings == nil {
		return
	}
	snapshot := *settings
	c.mu.Lock()
	c.settings = &snapshot
	c.expiresAt = time.Now().Add(c.ttl)
	c.mu.Unlock()
}

// Invalidate drops the cached settings
func (c *InMemorySettingsCache) Invalidate(ctx context.Context) {
	c.mu.Lock()
	c.settings = nil
	c.expiresAt = time.Time{}
	c.mu.Unlock()
}

// Stats returns hit and miss counts (for testing/monitoring)
func (c *InMemorySettingsCache) Stats() (hits, misses int64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}
