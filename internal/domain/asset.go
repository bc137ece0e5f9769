package domain

import (
	"errors"
	"time"
)

var (
	// ErrAssetNotFound indicates that the asset is not found.
	ErrAssetNotFound = errors.New("asset not found")
	// ErrAssetNotListed indicates that the asset is not currently for sale.
	ErrAssetNotListed = errors.New("asset not listed for sale")
	// ErrInvalidPrice indicates a non-positive asset price.
	ErrInvalidPrice = errors.New("price must be positive")
	// ErrCreatorNotFound indicates that the minting account is not found.
	ErrCreatorNotFound = errors.New("creator not found")
	// ErrInvalidOwner indicates that the user does not own the asset.
	ErrInvalidOwner = errors.New("unauthorized owner")
)

// Asset holds a unique sellable item.
//
// CreatorID is set once at mint time. OwnerID and IsListed are mutated by
// settlement; Views is engagement metadata with no bearing on settlement.
type Asset struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Price     string    `json:"price"` // must be positive
	CreatorID int32     `json:"creator_id"`
	OwnerID   int32     `json:"owner_id"`
	IsListed  bool      `json:"is_listed"`
	Views     int64     `json:"views"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateAssetParams is the input data for minting an asset.
type CreateAssetParams struct {
	Title     string `json:"title"`
	Price     string `json:"price"`
	CreatorID int32  `json:"creator_id"`
}

// ListAssetsParams is the input data to list assets.
type ListAssetsParams struct {
	ListedOnly bool  `json:"listed_only"`
	Limit      int32 `json:"limit"`
	Offset     int32 `json:"offset"`
}
