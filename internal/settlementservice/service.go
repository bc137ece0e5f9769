// Package settlementservice manages business logic layer of purchase settlement.
package settlementservice

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/go-petr/nft-market/internal/domain"
	"github.com/go-petr/nft-market/pkg/feepkg"
)

// Repo provides data access layer interface needed by settlement service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package settlementservice
type Repo interface {
	SettleTx(ctx context.Context, arg domain.SettleTxParams) (domain.SettleTxResult, error)
	Get(ctx context.Context, id int64) (domain.Settlement, error)
	ListByAsset(ctx context.Context, arg domain.ListSettlementsParams) ([]domain.Settlement, error)
	ListByAccount(ctx context.Context, arg domain.ListSettlementsParams) ([]domain.Settlement, error)
}

// AccountService provides account access needed by settlement service layer.
type AccountService interface {
	Get(ctx context.Context, id int32) (domain.Account, error)
}

// AssetService provides asset access needed by settlement service layer.
type AssetService interface {
	Get(ctx context.Context, id int64) (domain.Asset, error)
}

// Service is the settlement engine.
//
// Purchase validation is a pure read; the atomic mutation unit is delegated
// to Repo.SettleTx, which re-validates under the asset row lock.
type Service struct {
	repo           Repo
	accountService AccountService
	assetService   AssetService
	fees           feepkg.Policy
	delistOnSale   bool
}

// New returns settlement service struct to manage settlement bussines logic.
func New(r Repo, as AccountService, ass AssetService, fees feepkg.Policy, delistOnSale bool) *Service {
	return &Service{
		repo:           r,
		accountService: as,
		assetService:   ass,
		fees:           fees,
		delistOnSale:   delistOnSale,
	}
}

type purchaseIntent struct {
	asset domain.Asset
	buyer domain.Account
	quote feepkg.Quote
}

// validate runs the read-only checks of a purchase attempt.
//
// Nothing is mutated here, so a failure needs no compensation. The same
// checks that depend on asset state run again inside SettleTx under the lock.
func (s *Service) validate(ctx context.Context, assetID int64, buyerID int32) (purchaseIntent, error) {
	l := zerolog.Ctx(ctx)

	var intent purchaseIntent

	asset, err := s.assetService.Get(ctx, assetID)
	if err != nil {
		l.Info().Err(err).Int64("asset_id", assetID).Send()
		return intent, err
	}

	if !asset.IsListed {
		return intent, domain.ErrAssetNotListed
	}

	if asset.OwnerID == buyerID {
		return intent, domain.ErrAlreadyOwned
	}

	buyer, err := s.accountService.Get(ctx, buyerID)
	if err != nil {
		if err == domain.ErrAccountNotFound {
			return intent, domain.ErrBuyerNotFound
		}

		l.Error().Err(err).Send()

		return intent, err
	}

	// The seller account must exist for a consistent asset; a miss here is a
	// data integrity fault, not a user error.
	if _, err = s.accountService.Get(ctx, asset.OwnerID); err != nil {
		if err == domain.ErrAccountNotFound {
			l.Error().Err(err).Int32("seller_id", asset.OwnerID).Msg("listed asset with dangling owner")
			return intent, domain.ErrSellerNotFound
		}

		l.Error().Err(err).Send()

		return intent, err
	}

	price, err := decimal.NewFromString(asset.Price)
	if err != nil {
		l.Error().Err(err).Send()
		return intent, err
	}

	quote, err := s.fees.QuoteFor(price)
	if err != nil {
		l.Error().Err(err).Send()
		return intent, err
	}

	available, err := decimal.NewFromString(buyer.Balance)
	if err != nil {
		l.Error().Err(err).Send()
		return intent, err
	}

	if available.LessThan(quote.TotalCharged) {
		return intent, &domain.InsufficientFundsError{
			Required:  quote.TotalCharged,
			Available: available,
		}
	}

	intent.asset = asset
	intent.buyer = buyer
	intent.quote = quote

	return intent, nil
}

// Purchase settles the purchase of the asset by the buyer.
//
// On success all five mutations (buyer debit, seller credit, ownership
// transfer, delisting, settlement record) are durably committed together;
// on any error none of them persist.
func (s *Service) Purchase(ctx context.Context, assetID int64, buyerID int32) (domain.SettleTxResult, error) {
	l := zerolog.Ctx(ctx)

	intent, err := s.validate(ctx, assetID, buyerID)
	if err != nil {
		return domain.SettleTxResult{}, err
	}

	arg := domain.SettleTxParams{
		AssetID:        assetID,
		BuyerID:        buyerID,
		SellerID:       intent.asset.OwnerID,
		GrossPrice:     intent.quote.GrossPrice.String(),
		PlatformFee:    intent.quote.PlatformFee.String(),
		SellerProceeds: intent.quote.SellerProceeds.String(),
		TotalCharged:   intent.quote.TotalCharged.String(),
		Delist:         s.delistOnSale,
	}

	result, err := s.repo.SettleTx(ctx, arg)
	if err != nil {
		if err == domain.ErrInsufficientBalance {
			// The balance constraint tripped after a passing pre-check:
			// a concurrent debit drained the buyer. Report with the
			// validation-time figures.
			available, convErr := decimal.NewFromString(intent.buyer.Balance)
			if convErr != nil {
				available = decimal.Zero
			}

			return result, &domain.InsufficientFundsError{
				Required:  intent.quote.TotalCharged,
				Available: available,
			}
		}

		l.Info().Err(err).Int64("asset_id", assetID).Int32("buyer_id", buyerID).Send()

		return result, err
	}

	return result, nil
}

// Get returns the settlement record with the given id.
func (s *Service) Get(ctx context.Context, id int64) (domain.Settlement, error) {
	return s.repo.Get(ctx, id)
}

// ListByAsset returns the settlement history of the asset.
func (s *Service) ListByAsset(ctx context.Context, arg domain.ListSettlementsParams) ([]domain.Settlement, error) {
	return s.repo.ListByAsset(ctx, arg)
}

// ListByAccount returns settlements the account took part in.
func (s *Service) ListByAccount(ctx context.Context, arg domain.ListSettlementsParams) ([]domain.Settlement, error) {
	return s.repo.ListByAccount(ctx, arg)
}
