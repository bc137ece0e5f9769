// Package assetservice manages business logic layer of assets.
package assetservice

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/go-petr/nft-market/internal/domain"
)

// Repo provides data access layer interface needed by asset service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package assetservice
type Repo interface {
	Create(ctx context.Context, arg domain.CreateAssetParams) (domain.Asset, error)
	Get(ctx context.Context, id int64) (domain.Asset, error)
	SetListed(ctx context.Context, id int64, listed bool) (domain.Asset, error)
	SetPrice(ctx context.Context, id int64, price string) (domain.Asset, error)
	AddView(ctx context.Context, id int64) (domain.Asset, error)
	List(ctx context.Context, arg domain.ListAssetsParams) ([]domain.Asset, error)
}

// AccountService provides account access needed by asset service layer.
type AccountService interface {
	Get(ctx context.Context, id int32) (domain.Account, error)
	GetByOwner(ctx context.Context, owner string) (domain.Account, error)
}

// Service facilitates asset service layer logic.
type Service struct {
	repo           Repo
	accountService AccountService
}

// New returns asset service struct to manage asset bussines logic.
func New(ar Repo, as AccountService) *Service {
	return &Service{
		repo:           ar,
		accountService: as,
	}
}

// Mint creates an unlisted asset owned by the creator's account.
func (s *Service) Mint(ctx context.Context, creator, title, price string) (domain.Asset, error) {
	l := zerolog.Ctx(ctx)

	priceDecimal, err := decimal.NewFromString(price)
	if err != nil {
		l.Info().Err(err).Send()
		return domain.Asset{}, domain.ErrInvalidPrice
	}

	if priceDecimal.LessThanOrEqual(decimal.Zero) {
		return domain.Asset{}, domain.ErrInvalidPrice
	}

	account, err := s.accountService.GetByOwner(ctx, creator)
	if err != nil {
		if err == domain.ErrAccountNotFound {
			return domain.Asset{}, domain.ErrCreatorNotFound
		}

		l.Error().Err(err).Send()

		return domain.Asset{}, err
	}

	arg := domain.CreateAssetParams{
		Title:     title,
		Price:     priceDecimal.String(),
		CreatorID: account.ID,
	}

	return s.repo.Create(ctx, arg)
}

// Get returns the asset with the given id.
func (s *Service) Get(ctx context.Context, id int64) (domain.Asset, error) {
	return s.repo.Get(ctx, id)
}

// View returns the asset and bumps its view counter. Settlement reads use
// Get so engagement metadata stays out of the purchase path.
func (s *Service) View(ctx context.Context, id int64) (domain.Asset, error) {
	return s.repo.AddView(ctx, id)
}

// SetListed lists or delists the asset on behalf of its owner.
func (s *Service) SetListed(ctx context.Context, owner string, id int64, listed bool) (domain.Asset, error) {
	if err := s.authorize(ctx, owner, id); err != nil {
		return domain.Asset{}, err
	}

	return s.repo.SetListed(ctx, id, listed)
}

// SetPrice changes the asking price on behalf of the asset's owner.
func (s *Service) SetPrice(ctx context.Context, owner string, id int64, price string) (domain.Asset, error) {
	l := zerolog.Ctx(ctx)

	priceDecimal, err := decimal.NewFromString(price)
	if err != nil {
		l.Info().Err(err).Send()
		return domain.Asset{}, domain.ErrInvalidPrice
	}

	if priceDecimal.LessThanOrEqual(decimal.Zero) {
		return domain.Asset{}, domain.ErrInvalidPrice
	}

	if err := s.authorize(ctx, owner, id); err != nil {
		return domain.Asset{}, err
	}

	return s.repo.SetPrice(ctx, id, priceDecimal.String())
}

// List returns assets, optionally only the listed ones.
func (s *Service) List(ctx context.Context, arg domain.ListAssetsParams) ([]domain.Asset, error) {
	return s.repo.List(ctx, arg)
}

func (s *Service) authorize(ctx context.Context, owner string, assetID int64) error {
	l := zerolog.Ctx(ctx)

	asset, err := s.repo.Get(ctx, assetID)
	if err != nil {
		l.Info().Err(err).Send()
		return err
	}

	account, err := s.accountService.Get(ctx, asset.OwnerID)
	if err != nil {
		l.Error().Err(err).Send()
		return err
	}

	if account.Owner != owner {
		return domain.ErrInvalidOwner
	}

	return nil
}
