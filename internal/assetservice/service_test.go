package assetservice

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/go-petr/nft-market/internal/domain"
	"github.com/go-petr/nft-market/pkg/errorspkg"
	"github.com/go-petr/nft-market/pkg/randompkg"
)

func testAccount(id int32) domain.Account {
	return domain.Account{
		ID:        id,
		Owner:     randompkg.Owner(),
		Balance:   "0",
		CreatedAt: time.Now().Truncate(time.Second).UTC(),
	}
}

func testAsset(id int64, ownerID int32, price string, listed bool) domain.Asset {
	return domain.Asset{
		ID:        id,
		Title:     randompkg.AssetTitle(),
		Price:     price,
		CreatorID: ownerID,
		OwnerID:   ownerID,
		IsListed:  listed,
		CreatedAt: time.Now().Truncate(time.Second).UTC(),
	}
}

func TestMint(t *testing.T) {
	creator := testAccount(1)
	title := randompkg.AssetTitle()

	testCases := []struct {
		name          string
		price         string
		buildStubs    func(repo *MockRepo, accountService *MockAccountService)
		checkResponse func(res domain.Asset, err error)
	}{
		{
			name:  "Invalid price",
			price: "!@#$",
			buildStubs: func(repo *MockRepo, accountService *MockAccountService) {
				accountService.EXPECT().GetByOwner(gomock.Any(), gomock.Any()).Times(0)
				repo.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(res domain.Asset, err error) {
				require.Empty(t, res)
				require.EqualError(t, err, domain.ErrInvalidPrice.Error())
			},
		},
		{
			name:  "Zero price",
			price: "0",
			buildStubs: func(repo *MockRepo, accountService *MockAccountService) {
				accountService.EXPECT().GetByOwner(gomock.Any(), gomock.Any()).Times(0)
				repo.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(res domain.Asset, err error) {
				require.Empty(t, res)
				require.EqualError(t, err, domain.ErrInvalidPrice.Error())
			},
		},
		{
			name:  "Negative price",
			price: "-5",
			buildStubs: func(repo *MockRepo, accountService *MockAccountService) {
				accountService.EXPECT().GetByOwner(gomock.Any(), gomock.Any()).Times(0)
				repo.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(res domain.Asset, err error) {
				require.Empty(t, res)
				require.EqualError(t, err, domain.ErrInvalidPrice.Error())
			},
		},
		{
			name:  "Creator not found",
			price: "5",
			buildStubs: func(repo *MockRepo, accountService *MockAccountService) {
				accountService.EXPECT().GetByOwner(gomock.Any(), gomock.Eq(creator.Owner)).
					Times(1).
					Return(domain.Account{}, domain.ErrAccountNotFound)
				repo.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(res domain.Asset, err error) {
				require.Empty(t, res)
				require.EqualError(t, err, domain.ErrCreatorNotFound.Error())
			},
		},
		{
			name:  "Account service err",
			price: "5",
			buildStubs: func(repo *MockRepo, accountService *MockAccountService) {
				accountService.EXPECT().GetByOwner(gomock.Any(), gomock.Eq(creator.Owner)).
					Times(1).
					Return(domain.Account{}, errorspkg.ErrInternal)
				repo.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(res domain.Asset, err error) {
				require.Empty(t, res)
				require.EqualError(t, err, errorspkg.ErrInternal.Error())
			},
		},
		{
			name:  "OK",
			price: "5",
			buildStubs: func(repo *MockRepo, accountService *MockAccountService) {
				accountService.EXPECT().GetByOwner(gomock.Any(), gomock.Eq(creator.Owner)).
					Times(1).
					Return(creator, nil)
				repo.EXPECT().
					Create(gomock.Any(), gomock.Eq(domain.CreateAssetParams{
						Title:     title,
						Price:     "5",
						CreatorID: creator.ID,
					})).
					Times(1).
					Return(testAsset(1, creator.ID, "5", false), nil)
			},
			checkResponse: func(res domain.Asset, err error) {
				require.NoError(t, err)
				require.Equal(t, creator.ID, res.OwnerID)
				require.False(t, res.IsListed)
			},
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := NewMockRepo(ctrl)
			accountService := NewMockAccountService(ctrl)
			service := New(repo, accountService)

			tc.buildStubs(repo, accountService)

			tc.checkResponse(service.Mint(context.Background(), creator.Owner, title, tc.price))
		})
	}
}

func TestGet(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := NewMockRepo(ctrl)
	service := New(repo, NewMockAccountService(ctrl))

	want := testAsset(1, 1, "5", true)

	repo.EXPECT().Get(gomock.Any(), gomock.Eq(want.ID)).Times(1).Return(want, nil)
	repo.EXPECT().AddView(gomock.Any(), gomock.Any()).Times(0)

	got, err := service.Get(context.Background(), want.ID)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestView(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := NewMockRepo(ctrl)
	service := New(repo, NewMockAccountService(ctrl))

	want := testAsset(1, 1, "5", true)
	want.Views = 7

	repo.EXPECT().AddView(gomock.Any(), gomock.Eq(want.ID)).Times(1).Return(want, nil)

	got, err := service.View(context.Background(), want.ID)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestSetListed(t *testing.T) {
	owner := testAccount(1)
	asset := testAsset(1, owner.ID, "5", false)

	testCases := []struct {
		name          string
		owner         string
		buildStubs    func(repo *MockRepo, accountService *MockAccountService)
		checkResponse func(res domain.Asset, err error)
	}{
		{
			name:  "Asset not found",
			owner: owner.Owner,
			buildStubs: func(repo *MockRepo, accountService *MockAccountService) {
				repo.EXPECT().Get(gomock.Any(), gomock.Eq(asset.ID)).
					Times(1).
					Return(domain.Asset{}, domain.ErrAssetNotFound)
				repo.EXPECT().SetListed(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(res domain.Asset, err error) {
				require.Empty(t, res)
				require.EqualError(t, err, domain.ErrAssetNotFound.Error())
			},
		},
		{
			name:  "Invalid owner",
			owner: "intruder",
			buildStubs: func(repo *MockRepo, accountService *MockAccountService) {
				repo.EXPECT().Get(gomock.Any(), gomock.Eq(asset.ID)).
					Times(1).
					Return(asset, nil)
				accountService.EXPECT().Get(gomock.Any(), gomock.Eq(owner.ID)).
					Times(1).
					Return(owner, nil)
				repo.EXPECT().SetListed(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(res domain.Asset, err error) {
				require.Empty(t, res)
				require.EqualError(t, err, domain.ErrInvalidOwner.Error())
			},
		},
		{
			name:  "OK",
			owner: owner.Owner,
			buildStubs: func(repo *MockRepo, accountService *MockAccountService) {
				repo.EXPECT().Get(gomock.Any(), gomock.Eq(asset.ID)).
					Times(1).
					Return(asset, nil)
				accountService.EXPECT().Get(gomock.Any(), gomock.Eq(owner.ID)).
					Times(1).
					Return(owner, nil)
				repo.EXPECT().SetListed(gomock.Any(), gomock.Eq(asset.ID), gomock.Eq(true)).
					Times(1).
					Return(testAsset(asset.ID, owner.ID, asset.Price, true), nil)
			},
			checkResponse: func(res domain.Asset, err error) {
				require.NoError(t, err)
				require.True(t, res.IsListed)
			},
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := NewMockRepo(ctrl)
			accountService := NewMockAccountService(ctrl)
			service := New(repo, accountService)

			tc.buildStubs(repo, accountService)

			tc.checkResponse(service.SetListed(context.Background(), tc.owner, asset.ID, true))
		})
	}
}

func TestSetPrice(t *testing.T) {
	owner := testAccount(1)
	asset := testAsset(1, owner.ID, "5", true)

	testCases := []struct {
		name          string
		owner         string
		price         string
		buildStubs    func(repo *MockRepo, accountService *MockAccountService)
		checkResponse func(res domain.Asset, err error)
	}{
		{
			name:  "Invalid price",
			owner: owner.Owner,
			price: "free",
			buildStubs: func(repo *MockRepo, accountService *MockAccountService) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Times(0)
				repo.EXPECT().SetPrice(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(res domain.Asset, err error) {
				require.Empty(t, res)
				require.EqualError(t, err, domain.ErrInvalidPrice.Error())
			},
		},
		{
			name:  "Invalid owner",
			owner: "intruder",
			price: "7",
			buildStubs: func(repo *MockRepo, accountService *MockAccountService) {
				repo.EXPECT().Get(gomock.Any(), gomock.Eq(asset.ID)).
					Times(1).
					Return(asset, nil)
				accountService.EXPECT().Get(gomock.Any(), gomock.Eq(owner.ID)).
					Times(1).
					Return(owner, nil)
				repo.EXPECT().SetPrice(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(res domain.Asset, err error) {
				require.Empty(t, res)
				require.EqualError(t, err, domain.ErrInvalidOwner.Error())
			},
		},
		{
			name:  "OK",
			owner: owner.Owner,
			price: "7",
			buildStubs: func(repo *MockRepo, accountService *MockAccountService) {
				repo.EXPECT().Get(gomock.Any(), gomock.Eq(asset.ID)).
					Times(1).
					Return(asset, nil)
				accountService.EXPECT().Get(gomock.Any(), gomock.Eq(owner.ID)).
					Times(1).
					Return(owner, nil)
				repo.EXPECT().SetPrice(gomock.Any(), gomock.Eq(asset.ID), gomock.Eq("7")).
					Times(1).
					Return(testAsset(asset.ID, owner.ID, "7", true), nil)
			},
			checkResponse: func(res domain.Asset, err error) {
				require.NoError(t, err)
				require.Equal(t, "7", res.Price)
			},
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := NewMockRepo(ctrl)
			accountService := NewMockAccountService(ctrl)
			service := New(repo, accountService)

			tc.buildStubs(repo, accountService)

			tc.checkResponse(service.SetPrice(context.Background(), tc.owner, asset.ID, tc.price))
		})
	}
}

func TestList(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := NewMockRepo(ctrl)
	service := New(repo, NewMockAccountService(ctrl))

	arg := domain.ListAssetsParams{ListedOnly: true, Limit: 5, Offset: 0}
	want := []domain.Asset{testAsset(1, 1, "5", true)}

	repo.EXPECT().List(gomock.Any(), gomock.Eq(arg)).Times(1).Return(want, nil)

	got, err := service.List(context.Background(), arg)
	require.NoError(t, err)
	require.Equal(t, want, got)
}
