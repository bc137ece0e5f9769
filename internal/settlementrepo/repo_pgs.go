// Package settlementrepo manages repository layer of settlements.
//
// Besides the append-only settlement log it owns SettleTx, the single atomic
// unit of a purchase: asset re-validation under a row lock, both balance
// mutations, the ownership transfer, the optional delisting and the record
// insert either all commit together or none of them are visible.
package settlementrepo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"github.com/rs/zerolog"

	"github.com/go-petr/nft-market/internal/accountrepo"
	"github.com/go-petr/nft-market/internal/assetrepo"
	"github.com/go-petr/nft-market/internal/domain"
	"github.com/go-petr/nft-market/pkg/dbpkg"
	"github.com/go-petr/nft-market/pkg/errorspkg"
)

// RepoPGS facilitates settlement repository layer logic.
type RepoPGS struct {
	db   dbpkg.SQLInterface
	conn *sql.DB
}

// NewTxRepoPGS returns settlement RepoPGS scoped to an existing transaction.
func NewTxRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

// NewRepoPGS returns settlement RepoPGS with a connection to start transactions.
func NewRepoPGS(db *sql.DB) *RepoPGS {
	return &RepoPGS{
		db:   db,
		conn: db,
	}
}

const createQuery = `
INSERT INTO
    settlements (asset_id, buyer_id, seller_id, gross_price, platform_fee, seller_proceeds, total_charged, status)
VALUES
    ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id, asset_id, buyer_id, seller_id, gross_price, platform_fee, seller_proceeds, total_charged, status, created_at
`

// Create appends the settlement record and then returns it.
func (r *RepoPGS) Create(ctx context.Context, arg domain.SettleTxParams) (domain.Settlement, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createQuery,
		arg.AssetID,
		arg.BuyerID,
		arg.SellerID,
		arg.GrossPrice,
		arg.PlatformFee,
		arg.SellerProceeds,
		arg.TotalCharged,
		domain.StatusCompleted,
	)

	var s domain.Settlement

	err := row.Scan(
		&s.ID,
		&s.AssetID,
		&s.BuyerID,
		&s.SellerID,
		&s.GrossPrice,
		&s.PlatformFee,
		&s.SellerProceeds,
		&s.TotalCharged,
		&s.Status,
		&s.CreatedAt,
	)

	if err != nil {
		l.Error().Err(err).Msgf("Create(ctx, %+v)", arg)

		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Constraint {
			case "settlements_asset_id_fkey":
				return s, domain.ErrAssetNotFound
			case "settlements_buyer_id_fkey":
				return s, domain.ErrBuyerNotFound
			case "settlements_seller_id_fkey":
				return s, domain.ErrSellerNotFound
			}
		}

		return s, errorspkg.ErrInternal
	}

	return s, nil
}

const getQuery = `
SELECT
	id, asset_id, buyer_id, seller_id, gross_price, platform_fee, seller_proceeds, total_charged, status, created_at
FROM settlements
WHERE id = $1
`

// Get returns the settlement with the given id.
func (r *RepoPGS) Get(ctx context.Context, id int64) (domain.Settlement, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, getQuery, id)

	var s domain.Settlement

	err := row.Scan(
		&s.ID,
		&s.AssetID,
		&s.BuyerID,
		&s.SellerID,
		&s.GrossPrice,
		&s.PlatformFee,
		&s.SellerProceeds,
		&s.TotalCharged,
		&s.Status,
		&s.CreatedAt,
	)

	if err != nil {
		l.Error().Err(err).Send()

		if err == sql.ErrNoRows {
			return s, domain.ErrSettlementNotFound
		}

		return s, errorspkg.ErrInternal
	}

	return s, nil
}

const listByAssetQuery = `
SELECT
	id, asset_id, buyer_id, seller_id, gross_price, platform_fee, seller_proceeds, total_charged, status, created_at
FROM settlements
WHERE asset_id = $1
ORDER BY id
LIMIT $2 OFFSET $3
`

// ListByAsset returns the settlement history of the asset.
func (r *RepoPGS) ListByAsset(ctx context.Context, arg domain.ListSettlementsParams) ([]domain.Settlement, error) {
	return r.list(ctx, listByAssetQuery, arg.AssetID, arg.Limit, arg.Offset)
}

const listByAccountQuery = `
SELECT
	id, asset_id, buyer_id, seller_id, gross_price, platform_fee, seller_proceeds, total_charged, status, created_at
FROM settlements
WHERE buyer_id = $1 OR seller_id = $1
ORDER BY id
LIMIT $2 OFFSET $3
`

// ListByAccount returns settlements the account took part in as buyer or seller.
func (r *RepoPGS) ListByAccount(ctx context.Context, arg domain.ListSettlementsParams) ([]domain.Settlement, error) {
	return r.list(ctx, listByAccountQuery, arg.AccountID, arg.Limit, arg.Offset)
}

func (r *RepoPGS) list(ctx context.Context, query string, args ...interface{}) ([]domain.Settlement, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.Settlement{}

	for rows.Next() {
		var s domain.Settlement
		if err := rows.Scan(
			&s.ID,
			&s.AssetID,
			&s.BuyerID,
			&s.SellerID,
			&s.GrossPrice,
			&s.PlatformFee,
			&s.SellerProceeds,
			&s.TotalCharged,
			&s.Status,
			&s.CreatedAt,
		); err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, s)
	}

	if err := rows.Close(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return items, nil
}

// SettleTx performs one purchase settlement as a single database transaction.
//
// It re-reads the asset under a row lock and re-validates the listing and the
// seller before mutating anything, so of two concurrent attempts on the same
// asset exactly one commits; the other fails with ErrAssetNotListed or
// ErrPurchaseConflict.
func (r *RepoPGS) SettleTx(ctx context.Context, arg domain.SettleTxParams) (domain.SettleTxResult, error) {
	l := zerolog.Ctx(ctx)

	var result domain.SettleTxResult

	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		l.Error().Err(err).Send()
		return result, mapTxError(ctx, err)
	}

	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			l.Error().Err(err).Send()
		}
	}()

	assetRepo := assetrepo.NewRepoPGS(tx)
	accountRepo := accountrepo.NewRepoPGS(tx)
	recordRepo := NewTxRepoPGS(tx)

	// Commit-time re-validation under the asset row lock. Validation before
	// SettleTx ran without the lock and may be stale by now.
	asset, err := assetRepo.GetForUpdate(ctx, arg.AssetID)
	if err != nil {
		return result, mapTxError(ctx, err)
	}

	if !asset.IsListed {
		return result, domain.ErrAssetNotListed
	}

	if asset.OwnerID == arg.BuyerID {
		return result, domain.ErrAlreadyOwned
	}

	if asset.OwnerID != arg.SellerID {
		// Ownership moved between validation and commit.
		return result, domain.ErrPurchaseConflict
	}

	var buyer, seller domain.Account
	// To avoid deadlocks execute statements in consistent id order
	if arg.BuyerID < arg.SellerID {
		buyer, err = accountRepo.AddBalance(ctx, "-"+arg.TotalCharged, arg.BuyerID)
		if err == nil {
			seller, err = accountRepo.AddBalance(ctx, arg.SellerProceeds, arg.SellerID)
		}
	} else {
		seller, err = accountRepo.AddBalance(ctx, arg.SellerProceeds, arg.SellerID)
		if err == nil {
			buyer, err = accountRepo.AddBalance(ctx, "-"+arg.TotalCharged, arg.BuyerID)
		}
	}

	if err != nil {
		l.Info().Err(err).Msgf("SettleTx(ctx, %+v) balance update", arg)
		return result, mapTxError(ctx, err)
	}

	result.Buyer, result.Seller = buyer, seller

	result.Asset, err = assetRepo.TransferOwnership(ctx, arg.AssetID, arg.BuyerID)
	if err != nil {
		return result, mapTxError(ctx, err)
	}

	if arg.Delist {
		result.Asset, err = assetRepo.SetListed(ctx, arg.AssetID, false)
		if err != nil {
			return result, mapTxError(ctx, err)
		}
	}

	result.Settlement, err = recordRepo.Create(ctx, arg)
	if err != nil {
		return result, mapTxError(ctx, err)
	}

	if err := tx.Commit(); err != nil {
		l.Error().Err(err).Send()
		return domain.SettleTxResult{}, mapTxError(ctx, err)
	}

	return result, nil
}

// mapTxError keeps domain sentinels intact and classifies infrastructure
// failures so callers can tell a retryable fault from a user error.
func mapTxError(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(ctx.Err(), context.DeadlineExceeded):
		return errorspkg.ErrTimeout
	case errors.Is(err, domain.ErrInsufficientBalance),
		errors.Is(err, domain.ErrAssetNotFound),
		errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrBuyerNotFound),
		errors.Is(err, domain.ErrSellerNotFound):
		return err
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Class() == "08" { // connection exceptions
		return errorspkg.ErrStoreUnavailable
	}

	if errors.Is(err, errorspkg.ErrInternal) {
		return err
	}

	return errorspkg.ErrInternal
}
