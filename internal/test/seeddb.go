// Package test provides shared test helpers.
package test

import (
	"context"
	"testing"

	"github.com/go-petr/nft-market/internal/accountrepo"
	"github.com/go-petr/nft-market/internal/assetrepo"
	"github.com/go-petr/nft-market/internal/domain"
	"github.com/go-petr/nft-market/pkg/dbpkg"
	"github.com/go-petr/nft-market/pkg/randompkg"
)

// SeedAccount creates a random zero-balance account inside a test transaction.
func SeedAccount(t *testing.T, tx dbpkg.SQLInterface) domain.Account {
	t.Helper()

	accountRepo := accountrepo.NewRepoPGS(tx)

	owner := randompkg.Owner()

	account, err := accountRepo.Create(context.Background(), owner)
	if err != nil {
		t.Fatalf("accountRepo.Create(context.Background(), %v) returned error: %v", owner, err)
	}

	return account
}

// SeedAccountWithBalance creates a random account funded with the given balance
// inside a test transaction.
func SeedAccountWithBalance(t *testing.T, tx dbpkg.SQLInterface, balance string) domain.Account {
	t.Helper()

	account := SeedAccount(t, tx)

	accountRepo := accountrepo.NewRepoPGS(tx)

	account, err := accountRepo.SetBalance(context.Background(), balance, account.ID)
	if err != nil {
		t.Fatalf("accountRepo.SetBalance(context.Background(), %v, %v) returned error: %v",
			balance, account.ID, err)
	}

	return account
}

// SeedAsset mints an unlisted asset owned by the creator inside a test transaction.
func SeedAsset(t *testing.T, tx dbpkg.SQLInterface, creatorID int32, price string) domain.Asset {
	t.Helper()

	assetRepo := assetrepo.NewRepoPGS(tx)

	arg := domain.CreateAssetParams{
		Title:     randompkg.AssetTitle(),
		Price:     price,
		CreatorID: creatorID,
	}

	asset, err := assetRepo.Create(context.Background(), arg)
	if err != nil {
		t.Fatalf("assetRepo.Create(context.Background(), %+v) returned error: %v", arg, err)
	}

	return asset
}

// SeedListedAsset mints an asset and puts it up for sale inside a test transaction.
func SeedListedAsset(t *testing.T, tx dbpkg.SQLInterface, creatorID int32, price string) domain.Asset {
	t.Helper()

	asset := SeedAsset(t, tx, creatorID, price)

	assetRepo := assetrepo.NewRepoPGS(tx)

	asset, err := assetRepo.SetListed(context.Background(), asset.ID, true)
	if err != nil {
		t.Fatalf("assetRepo.SetListed(context.Background(), %v, true) returned error: %v", asset.ID, err)
	}

	return asset
}
