// Package assetrepo manages repository layer of assets.
package assetrepo

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
	"github.com/rs/zerolog"

	"github.com/go-petr/nft-market/internal/domain"
	"github.com/go-petr/nft-market/pkg/dbpkg"
	"github.com/go-petr/nft-market/pkg/errorspkg"
)

// RepoPGS facilitates asset repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns asset RepoPGS.
//
// Pass a *sql.Tx to scope every statement to that transaction.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

const createQuery = `
INSERT INTO
    assets (title, price, creator_id, owner_id, is_listed)
VALUES
    ($1, $2, $3, $3, false)
RETURNING id, title, price, creator_id, owner_id, is_listed, views, created_at
`

// Create mints the asset owned by its creator and then returns it.
func (r *RepoPGS) Create(ctx context.Context, arg domain.CreateAssetParams) (domain.Asset, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createQuery, arg.Title, arg.Price, arg.CreatorID)

	var a domain.Asset

	err := row.Scan(
		&a.ID,
		&a.Title,
		&a.Price,
		&a.CreatorID,
		&a.OwnerID,
		&a.IsListed,
		&a.Views,
		&a.CreatedAt,
	)

	if err != nil {
		l.Error().Err(err).Msgf("Create(ctx, %+v)", arg)

		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Constraint {
			case "assets_creator_id_fkey", "assets_owner_id_fkey":
				return a, domain.ErrCreatorNotFound
			case "assets_price_check":
				return a, domain.ErrInvalidPrice
			}
		}

		return a, errorspkg.ErrInternal
	}

	return a, nil
}

const getQuery = `
SELECT
	id, title, price, creator_id, owner_id, is_listed, views, created_at
FROM assets
WHERE id = $1
`

// Get returns the asset with the given id.
func (r *RepoPGS) Get(ctx context.Context, id int64) (domain.Asset, error) {
	return r.get(ctx, getQuery, id)
}

const getForUpdateQuery = getQuery + `
FOR UPDATE
`

// GetForUpdate returns the asset with the given id while holding its row lock
// until the enclosing transaction ends.
//
// The lock is what serializes concurrent purchases of the same asset: the
// loser blocks here and then observes the winner's committed state.
func (r *RepoPGS) GetForUpdate(ctx context.Context, id int64) (domain.Asset, error) {
	return r.get(ctx, getForUpdateQuery, id)
}

func (r *RepoPGS) get(ctx context.Context, query string, id int64) (domain.Asset, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, query, id)

	var a domain.Asset

	err := row.Scan(
		&a.ID,
		&a.Title,
		&a.Price,
		&a.CreatorID,
		&a.OwnerID,
		&a.IsListed,
		&a.Views,
		&a.CreatedAt,
	)

	if err != nil {
		l.Error().Err(err).Send()

		if err == sql.ErrNoRows {
			return a, domain.ErrAssetNotFound
		}

		return a, errorspkg.ErrInternal
	}

	return a, nil
}

const transferOwnershipQuery = `
UPDATE assets
SET owner_id = $1
WHERE id = $2
RETURNING id, title, price, creator_id, owner_id, is_listed, views, created_at
`

// TransferOwnership reassigns the asset to the new owner and returns it.
func (r *RepoPGS) TransferOwnership(ctx context.Context, id int64, newOwnerID int32) (domain.Asset, error) {
	return r.update(ctx, transferOwnershipQuery, newOwnerID, id)
}

const setListedQuery = `
UPDATE assets
SET is_listed = $1
WHERE id = $2
RETURNING id, title, price, creator_id, owner_id, is_listed, views, created_at
`

// SetListed flips the for-sale flag and returns the asset.
func (r *RepoPGS) SetListed(ctx context.Context, id int64, listed bool) (domain.Asset, error) {
	return r.update(ctx, setListedQuery, listed, id)
}

const setPriceQuery = `
UPDATE assets
SET price = $1
WHERE id = $2
RETURNING id, title, price, creator_id, owner_id, is_listed, views, created_at
`

// SetPrice changes the asking price and returns the asset.
func (r *RepoPGS) SetPrice(ctx context.Context, id int64, price string) (domain.Asset, error) {
	return r.update(ctx, setPriceQuery, price, id)
}

const addViewQuery = `
UPDATE assets
SET views = views + 1
WHERE id = $1
RETURNING id, title, price, creator_id, owner_id, is_listed, views, created_at
`

// AddView bumps the engagement counter and returns the asset.
func (r *RepoPGS) AddView(ctx context.Context, id int64) (domain.Asset, error) {
	return r.update(ctx, addViewQuery, id)
}

func (r *RepoPGS) update(ctx context.Context, query string, args ...interface{}) (domain.Asset, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, query, args...)

	var a domain.Asset

	err := row.Scan(
		&a.ID,
		&a.Title,
		&a.Price,
		&a.CreatorID,
		&a.OwnerID,
		&a.IsListed,
		&a.Views,
		&a.CreatedAt,
	)

	if err != nil {
		l.Error().Err(err).Send()

		if err == sql.ErrNoRows {
			return a, domain.ErrAssetNotFound
		}

		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Constraint {
			case "assets_owner_id_fkey":
				return a, domain.ErrAccountNotFound
			case "assets_price_check":
				return a, domain.ErrInvalidPrice
			}
		}

		return a, errorspkg.ErrInternal
	}

	return a, nil
}

const listQuery = `
SELECT
	id, title, price, creator_id, owner_id, is_listed, views, created_at
FROM assets
WHERE is_listed OR NOT $1
ORDER BY id
LIMIT $2 OFFSET $3
`

// List returns assets, optionally only the listed ones.
func (r *RepoPGS) List(ctx context.Context, arg domain.ListAssetsParams) ([]domain.Asset, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, listQuery, arg.ListedOnly, arg.Limit, arg.Offset)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.Asset{}

	for rows.Next() {
		var a domain.Asset
		if err := rows.Scan(
			&a.ID,
			&a.Title,
			&a.Price,
			&a.CreatorID,
			&a.OwnerID,
			&a.IsListed,
			&a.Views,
			&a.CreatedAt,
		); err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, a)
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
