package app

import (
	"context"
	"strings"
	"time"

	"github.com/example/wealthdesk/internal/ports/secondary"
)

// rateCache memoizes FX lookups for a single reconciliation or valuation pass.
// Lookup satisfies allocation.RateFunc; the first repository error is kept in err
// and every later lookup reports a miss.
type rateCache struct {
	ctx   context.Context
	repo  secondary.ExchangeRateRepository
	base  string
	upTo  time.Time
	rates map[string]cachedRate
	err   error
}

type cachedRate struct {
	rate  float64
	found bool
}

func newRateCache(ctx context.Context, repo secondary.ExchangeRateRepository, base string, upTo time.Time) *rateCache {
	return &rateCache{
		ctx:   ctx,
		repo:  repo,
		base:  strings.ToUpper(strings.TrimSpace(base)),
		upTo:  upTo,
		rates: make(map[string]cachedRate),
	}
}

// Lookup returns the rate converting one unit of currency into the base currency.
func (c *rateCache) Lookup(currency string) (float64, bool) {
	code := strings.ToUpper(strings.TrimSpace(currency))
	if code == c.base {
		return 1, true
	}
	if cached, ok := c.rates[code]; ok {
		return cached.rate, cached.found
	}
	if c.err != nil {
		return 0, false
	}

	rate, found, err := c.repo.LatestRate(c.ctx, code, c.upTo)
	if err != nil {
		c.err = err
		return 0, false
	}
	c.rates[code] = cachedRate{rate: rate, found: found}
	return rate, found
}
