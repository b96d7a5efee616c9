package cache

import (
	"context"
	"sync"
	"time"

	"github.com/dafibh/fortuna/fortuna-coach/internal/domain"
)

// MemoryRateCache is a process-local domain.RateCache used when redis is not configured
type MemoryRateCache struct {
	mu        sync.RWMutex
	rates     *domain.MarketRates
	expiresAt time.Time
	now       func() time.Time
}

var _ domain.RateCache = (*MemoryRateCache)(nil)

// NewMemoryRateCache creates an empty cache
func NewMemoryRateCache() *MemoryRateCache {
	return &MemoryRateCache{now: time.Now}
}

// Get returns the cached rates if they have not expired
func (c *MemoryRateCache) Get(_ context.Context) (*domain.MarketRates, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.rates == nil || !c.now().Before(c.expiresAt) {
		return nil, false, nil
	}
	return c.rates, true, nil
}

// Set stores rates for ttl
func (c *MemoryRateCache) Set(_ context.Context, rates *domain.MarketRates, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.rates = rates
	c.expiresAt = c.now().Add(ttl)
	return nil
}
