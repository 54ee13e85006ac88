package service

import (
	"context"
	"sync"
	"time"

	"github.com/set-night/gratax/internal/domain"
)

// CachedStats keeps the last statistics fetched from a source for ttl.
// Failed fetches are not cached.
type CachedStats struct {
	source StatsSource
	ttl    time.Duration
	now    func() time.Time

	mu       sync.Mutex
	stats    *domain.Stats
	cachedAt time.Time
}

func NewCachedStats(source StatsSource, ttl time.Duration) *CachedStats {
	return &CachedStats{source: source, ttl: ttl, now: time.Now}
}

func (c *CachedStats) Stats(ctx context.Context) (*domain.Stats, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stats != nil && c.now().Sub(c.cachedAt) < c.ttl {
		return c.stats, nil
	}

	stats, err := c.source.Stats(ctx)
	if err != nil {
		return nil, err
	}
	c.stats = stats
	c.cachedAt = c.now()
	return stats, nil
}
