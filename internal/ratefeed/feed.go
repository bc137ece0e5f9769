// Package ratefeed caches the display-only USD reference rate.
//
// The feed is refreshed on its own schedule and read without blocking, so an
// upstream outage degrades the display (stale or fallback rate) and never
// touches the settlement path.
package ratefeed

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/go-petr/nft-market/internal/domain"
)

// Source fetches the current reference rate from the upstream provider.
//
//go:generate mockgen -source feed.go -destination feed_mock.go -package ratefeed
type Source interface {
	Fetch(ctx context.Context) (decimal.Decimal, error)
}

// Feed holds the last good rate behind a read-write lock.
type Feed struct {
	source   Source
	ttl      time.Duration
	fallback decimal.Decimal
	now      func() time.Time

	mu      sync.RWMutex
	last    decimal.Decimal
	fetched time.Time
	hasRate bool
}

// New returns a feed that serves fallback until the first successful refresh
// and marks a cached rate stale once it is older than ttl.
func New(source Source, ttl time.Duration, fallback decimal.Decimal) *Feed {
	return &Feed{
		source:   source,
		ttl:      ttl,
		fallback: fallback,
		now:      time.Now,
	}
}

// Get returns the cached rate tagged with its freshness. It never blocks on
// the upstream provider.
func (f *Feed) Get() domain.CachedRate {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if !f.hasRate {
		return domain.CachedRate{
			Rate:   f.fallback,
			Status: domain.RateFallback,
		}
	}

	status := domain.RateFresh
	if f.now().Sub(f.fetched) > f.ttl {
		status = domain.RateStale
	}

	return domain.CachedRate{
		Rate:      f.last,
		Status:    status,
		FetchedAt: f.fetched,
	}
}

// Refresh fetches the upstream rate and replaces the cache on success.
// On failure the previous cache entry stays as is and ages into stale.
func (f *Feed) Refresh(ctx context.Context) error {
	l := zerolog.Ctx(ctx)

	rate, err := f.source.Fetch(ctx)
	if err != nil {
		l.Warn().Err(err).Msg("rate refresh failed, keeping last known rate")
		return err
	}

	f.mu.Lock()
	f.last = rate
	f.fetched = f.now()
	f.hasRate = true
	f.mu.Unlock()

	l.Debug().Str("rate", rate.String()).Msg("reference rate refreshed")

	return nil
}
