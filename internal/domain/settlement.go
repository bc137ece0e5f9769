package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrBuyerNotFound indicates that the buyer account is not found.
	ErrBuyerNotFound = errors.New("buyer account not found")
	// ErrSellerNotFound indicates that the seller account is not found.
	// A listed asset always has an owning account, so this is a data
	// integrity fault rather than a user error.
	ErrSellerNotFound = errors.New("seller account not found")
	// ErrAlreadyOwned indicates that the buyer already owns the asset.
	ErrAlreadyOwned = errors.New("asset already owned by buyer")
	// ErrPurchaseConflict indicates that a concurrent purchase won the asset.
	ErrPurchaseConflict = errors.New("asset was sold concurrently")
	// ErrInsufficientFunds indicates that the buyer cannot cover the total charge.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrSettlementNotFound indicates that the settlement record is not found.
	ErrSettlementNotFound = errors.New("settlement not found")
)

// InsufficientFundsError reports how short the buyer is of the total charge.
type InsufficientFundsError struct {
	Required  decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: required %s, available %s", e.Required, e.Available)
}

// Is makes errors.Is(err, ErrInsufficientFunds) match.
func (e *InsufficientFundsError) Is(target error) bool {
	return target == ErrInsufficientFunds
}

// StatusCompleted is the only status a settlement record is ever written with.
// Failed attempts are returned as errors and never logged as records.
const StatusCompleted = "completed"

// Settlement is the immutable audit record of one completed purchase.
//
// Amounts are a snapshot of the price and fee at the moment of sale:
// TotalCharged = GrossPrice + PlatformFee, SellerProceeds = GrossPrice - PlatformFee.
type Settlement struct {
	ID             int64     `json:"id"`
	AssetID        int64     `json:"asset_id"`
	BuyerID        int32     `json:"buyer_id"`
	SellerID       int32     `json:"seller_id"`
	GrossPrice     string    `json:"gross_price"`
	PlatformFee    string    `json:"platform_fee"`
	SellerProceeds string    `json:"seller_proceeds"`
	TotalCharged   string    `json:"total_charged"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

// SettleTxParams is the input data for the settlement transaction.
//
// The amounts are precomputed by the fee policy; the transaction applies them
// verbatim so the record matches the balance mutations exactly.
type SettleTxParams struct {
	AssetID        int64
	BuyerID        int32
	SellerID       int32
	GrossPrice     string
	PlatformFee    string
	SellerProceeds string
	TotalCharged   string
	Delist         bool
}

// SettleTxResult is the result of the settlement transaction.
type SettleTxResult struct {
	Settlement Settlement `json:"settlement"`
	Buyer      Account    `json:"buyer"`
	Seller     Account    `json:"seller"`
	Asset      Asset      `json:"asset"`
}

// ListSettlementsParams is the input data to list settlement records.
type ListSettlementsParams struct {
	AssetID   int64 `json:"asset_id"`
	AccountID int32 `json:"account_id"`
	Limit     int32 `json:"limit"`
	Offset    int32 `json:"offset"`
}
