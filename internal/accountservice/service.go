// Package accountservice manages business logic layer of accounts.
package accountservice

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/go-petr/nft-market/internal/domain"
)

// Repo provides data access layer interface needed by account service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package accountservice
type Repo interface {
	Create(ctx context.Context, owner string) (domain.Account, error)
	Get(ctx context.Context, id int32) (domain.Account, error)
	GetByOwner(ctx context.Context, owner string) (domain.Account, error)
	AddBalance(ctx context.Context, amount string, id int32) (domain.Account, error)
	SetBalance(ctx context.Context, amount string, id int32) (domain.Account, error)
}

// Service facilitates account service layer logic.
type Service struct {
	repo Repo
}

// New returns account service struct to manage account bussines logic.
func New(ar Repo) *Service {
	return &Service{repo: ar}
}

// Create creates an account with zero balance for the owner.
func (s *Service) Create(ctx context.Context, owner string) (domain.Account, error) {
	return s.repo.Create(ctx, owner)
}

// Get returns the account with the given id.
func (s *Service) Get(ctx context.Context, id int32) (domain.Account, error) {
	return s.repo.Get(ctx, id)
}

// GetByOwner returns the account of the given owner.
func (s *Service) GetByOwner(ctx context.Context, owner string) (domain.Account, error) {
	return s.repo.GetByOwner(ctx, owner)
}

// Adjust applies a typed balance adjustment on behalf of the funding
// collaborator. Settlement never goes through here.
//
// The ledger constraint still applies: an adjustment that would leave the
// balance negative fails with ErrInsufficientBalance.
func (s *Service) Adjust(ctx context.Context, id int32, arg domain.BalanceAdjustment) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	amount, err := decimal.NewFromString(arg.Amount)
	if err != nil {
		l.Info().Err(err).Send()
		return domain.Account{}, domain.ErrInvalidAmount
	}

	switch arg.Op {
	case domain.AdjustAdd:
		if amount.LessThanOrEqual(decimal.Zero) {
			return domain.Account{}, domain.ErrNegativeAmount
		}

		return s.repo.AddBalance(ctx, amount.String(), id)
	case domain.AdjustSubtract:
		if amount.LessThanOrEqual(decimal.Zero) {
			return domain.Account{}, domain.ErrNegativeAmount
		}

		return s.repo.AddBalance(ctx, amount.Neg().String(), id)
	case domain.AdjustSet:
		if amount.IsNegative() {
			return domain.Account{}, domain.ErrNegativeAmount
		}

		return s.repo.SetBalance(ctx, amount.String(), id)
	default:
		return domain.Account{}, domain.ErrInvalidAdjustment
	}
}
