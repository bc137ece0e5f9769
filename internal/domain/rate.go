package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RateStatus tags how trustworthy a cached reference rate is.
type RateStatus string

// Reference rate freshness states.
const (
	RateFresh    RateStatus = "fresh"
	RateStale    RateStatus = "stale"
	RateFallback RateStatus = "fallback"
)

// CachedRate is the display-only USD reference rate.
//
// It never participates in settlement math; a fallback rate is a degraded
// display, not an error.
type CachedRate struct {
	Rate      decimal.Decimal `json:"rate"`
	Status    RateStatus      `json:"status"`
	FetchedAt time.Time       `json:"fetched_at"`
}
