package pricing

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tetstore/guestcart-backend/pkg/logger"
)

// DiscountFetcher is the remote surface CachedDiscount refreshes from.
type DiscountFetcher interface {
	FetchDiscount(ctx context.Context) (float64, error)
}

// CachedDiscount caches the backend discount percent for a TTL. Refresh
// failures are non-fatal: the last known value is served, zero before the
// first successful fetch (no discount applied).
type CachedDiscount struct {
	fetcher DiscountFetcher
	ttl     time.Duration
	logg    *logger.Logger
	now     func() time.Time

	mu        sync.Mutex
	percent   decimal.Decimal
	fetchedAt time.Time
}

// NewCachedDiscount builds a TTL-cached discount source.
func NewCachedDiscount(fetcher DiscountFetcher, ttl time.Duration, logg *logger.Logger) *CachedDiscount {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CachedDiscount{
		fetcher: fetcher,
		ttl:     ttl,
		logg:    logg,
		now:     time.Now,
	}
}

// Percent returns the cached discount percent, refreshing when stale.
func (c *CachedDiscount) Percent(ctx context.Context) decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.fetcher == nil {
		return c.percent
	}
	if !c.fetchedAt.IsZero() && c.now().Sub(c.fetchedAt) < c.ttl {
		return c.percent
	}

	value, err := c.fetcher.FetchDiscount(ctx)
	if err != nil {
		if c.logg != nil {
			c.logg.Warn(ctx, "discount refresh failed, keeping cached value: "+err.Error())
		}
		// A failed refresh still advances fetchedAt; the next attempt
		// waits a full TTL.
		c.fetchedAt = c.now()
		return c.percent
	}

	c.percent = decimal.NewFromFloat(value)
	c.fetchedAt = c.now()
	return c.percent
}
