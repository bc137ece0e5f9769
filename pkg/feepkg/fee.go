// Package feepkg provides the pure platform fee policy.
package feepkg

import (
	"github.com/shopspring/decimal"

	"github.com/go-petr/nft-market/internal/domain"
)

// DefaultRate is the platform fee rate applied when none is configured.
var DefaultRate = decimal.RequireFromString("0.025")

// Quote is the fee breakdown for one purchase at a given gross price.
//
// The platform takes the fee from both sides: the buyer is charged
// GrossPrice + PlatformFee while the seller receives GrossPrice - PlatformFee,
// so the platform margin per trade is twice the nominal rate.
type Quote struct {
	GrossPrice     decimal.Decimal
	PlatformFee    decimal.Decimal
	SellerProceeds decimal.Decimal
	TotalCharged   decimal.Decimal
}

// Policy computes fee quotes at a fixed rate. The zero value is unusable;
// construct with New.
type Policy struct {
	rate decimal.Decimal
}

// New returns a fee policy with the given rate, e.g. 0.025 for 2.5%.
func New(rate decimal.Decimal) Policy {
	return Policy{rate: rate}
}

// Rate returns the configured fee rate.
func (p Policy) Rate() decimal.Decimal {
	return p.rate
}

// QuoteFor computes the fee breakdown for price.
//
// The arithmetic is exact: decimal multiplication carries all digits, so
// SellerProceeds + PlatformFee always equals GrossPrice even for dust prices.
// A non-positive price is a caller bug and is rejected.
func (p Policy) QuoteFor(price decimal.Decimal) (Quote, error) {
	if price.LessThanOrEqual(decimal.Zero) {
		return Quote{}, domain.ErrInvalidPrice
	}

	fee := price.Mul(p.rate)

	return Quote{
		GrossPrice:     price,
		PlatformFee:    fee,
		SellerProceeds: price.Sub(fee),
		TotalCharged:   price.Add(fee),
	}, nil
}
