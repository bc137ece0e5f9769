package assetdelivery

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/go-petr/nft-market/internal/domain"
	"github.com/go-petr/nft-market/internal/middleware"
	"github.com/go-petr/nft-market/pkg/errorspkg"
	"github.com/go-petr/nft-market/pkg/randompkg"
	"github.com/go-petr/nft-market/pkg/tokenpkg"
)

func newTestServer(t *testing.T) (*gin.Engine, *MockService, tokenpkg.Maker) {
	t.Helper()

	tokenMaker, err := tokenpkg.NewPasetoMaker(randompkg.String(32))
	require.NoError(t, err)

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	service := NewMockService(ctrl)
	handler := NewHandler(service)

	gin.SetMode(gin.TestMode)
	server := gin.Default()

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("amount", ValidAmount)
	}

	server.GET("/assets", handler.List)
	server.GET("/assets/:id", handler.Get)

	authRoutes := server.Group("/").Use(middleware.Auth(tokenMaker))
	authRoutes.POST("/assets", handler.Create)
	authRoutes.PUT("/assets/:id/listing", handler.SetListed)
	authRoutes.PUT("/assets/:id/price", handler.SetPrice)

	return server, service, tokenMaker
}

func TestCreate(t *testing.T) {
	username := randompkg.Owner()
	title := randompkg.AssetTitle()

	testCases := []struct {
		name          string
		requestBody   gin.H
		setupAuth     func(t *testing.T, request *http.Request, tokenMaker tokenpkg.Maker)
		buildStubs    func(service *MockService)
		checkResponse func(recorder *httptest.ResponseRecorder)
	}{
		{
			name:        "NoAuthorization",
			requestBody: gin.H{"title": title, "price": "5"},
			setupAuth: func(t *testing.T, request *http.Request, tokenMaker tokenpkg.Maker) {
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().Mint(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusUnauthorized, recorder.Code)
			},
		},
		{
			name:        "MissingTitle",
			requestBody: gin.H{"price": "5"},
			setupAuth: func(t *testing.T, request *http.Request, tokenMaker tokenpkg.Maker) {
				middleware.AddAuthorization(t, request, tokenMaker, middleware.AuthTypeBearer, username, time.Minute)
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().Mint(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, recorder.Code)
			},
		},
		{
			name:        "InvalidBindPrice",
			requestBody: gin.H{"title": title, "price": "-5"},
			setupAuth: func(t *testing.T, request *http.Request, tokenMaker tokenpkg.Maker) {
				middleware.AddAuthorization(t, request, tokenMaker, middleware.AuthTypeBearer, username, time.Minute)
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().Mint(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, recorder.Code)
			},
		},
		{
			name:        "ErrCreatorNotFound",
			requestBody: gin.H{"title": title, "price": "5"},
			setupAuth: func(t *testing.T, request *http.Request, tokenMaker tokenpkg.Maker) {
				middleware.AddAuthorization(t, request, tokenMaker, middleware.AuthTypeBearer, username, time.Minute)
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().Mint(gomock.Any(), gomock.Eq(username), gomock.Eq(title), gomock.Eq("5")).
					Times(1).
					Return(domain.Asset{}, domain.ErrCreatorNotFound)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusNotFound, recorder.Code)
			},
		},
		{
			name:        "InternalError",
			requestBody: gin.H{"title": title, "price": "5"},
			setupAuth: func(t *testing.T, request *http.Request, tokenMaker tokenpkg.Maker) {
				middleware.AddAuthorization(t, request, tokenMaker, middleware.AuthTypeBearer, username, time.Minute)
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().Mint(gomock.Any(), gomock.Eq(username), gomock.Eq(title), gomock.Eq("5")).
					Times(1).
					Return(domain.Asset{}, errorspkg.ErrInternal)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusInternalServerError, recorder.Code)
			},
		},
		{
			name:        "OK",
			requestBody: gin.H{"title": title, "price": "5"},
			setupAuth: func(t *testing.T, request *http.Request, tokenMaker tokenpkg.Maker) {
				middleware.AddAuthorization(t, request, tokenMaker, middleware.AuthTypeBearer, username, time.Minute)
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().Mint(gomock.Any(), gomock.Eq(username), gomock.Eq(title), gomock.Eq("5")).
					Times(1).
					Return(domain.Asset{ID: 1, Title: title, Price: "5", CreatorID: 1, OwnerID: 1}, nil)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusOK, recorder.Code)
			},
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			server, service, tokenMaker := newTestServer(t)
			tc.buildStubs(service)

			recorder := httptest.NewRecorder()

			body, err := json.Marshal(tc.requestBody)
			require.NoError(t, err)

			req, err := http.NewRequest(http.MethodPost, "/assets", bytes.NewReader(body))
			require.NoError(t, err)

			tc.setupAuth(t, req, tokenMaker)
			server.ServeHTTP(recorder, req)
			tc.checkResponse(recorder)
		})
	}
}

func TestGet(t *testing.T) {
	asset := domain.Asset{ID: 1, Title: randompkg.AssetTitle(), Price: "5", CreatorID: 1, OwnerID: 1, Views: 8}

	testCases := []struct {
		name          string
		url           string
		buildStubs    func(service *MockService)
		checkResponse func(recorder *httptest.ResponseRecorder)
	}{
		{
			name: "InvalidID",
			url:  "/assets/0",
			buildStubs: func(service *MockService) {
				service.EXPECT().View(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, recorder.Code)
			},
		},
		{
			name: "ErrAssetNotFound",
			url:  fmt.Sprintf("/assets/%d", asset.ID),
			buildStubs: func(service *MockService) {
				service.EXPECT().View(gomock.Any(), gomock.Eq(asset.ID)).
					Times(1).
					Return(domain.Asset{}, domain.ErrAssetNotFound)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusNotFound, recorder.Code)
			},
		},
		{
			name: "OK",
			url:  fmt.Sprintf("/assets/%d", asset.ID),
			buildStubs: func(service *MockService) {
				service.EXPECT().View(gomock.Any(), gomock.Eq(asset.ID)).
					Times(1).
					Return(asset, nil)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusOK, recorder.Code)
				require.Contains(t, recorder.Body.String(), asset.Title)
			},
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			server, service, _ := newTestServer(t)
			tc.buildStubs(service)

			recorder := httptest.NewRecorder()

			req, err := http.NewRequest(http.MethodGet, tc.url, nil)
			require.NoError(t, err)

			server.ServeHTTP(recorder, req)
			tc.checkResponse(recorder)
		})
	}
}

func TestSetListed(t *testing.T) {
	username := randompkg.Owner()
	asset := domain.Asset{ID: 1, Title: randompkg.AssetTitle(), Price: "5", CreatorID: 1, OwnerID: 1}

	testCases := []struct {
		name          string
		requestBody   gin.H
		buildStubs    func(service *MockService)
		checkResponse func(recorder *httptest.ResponseRecorder)
	}{
		{
			name:        "MissingListed",
			requestBody: gin.H{},
			buildStubs: func(service *MockService) {
				service.EXPECT().SetListed(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, recorder.Code)
			},
		},
		{
			name:        "ErrInvalidOwner",
			requestBody: gin.H{"listed": true},
			buildStubs: func(service *MockService) {
				service.EXPECT().SetListed(gomock.Any(), gomock.Eq(username), gomock.Eq(asset.ID), gomock.Eq(true)).
					Times(1).
					Return(domain.Asset{}, domain.ErrInvalidOwner)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusUnauthorized, recorder.Code)
			},
		},
		{
			name:        "ErrAssetNotFound",
			requestBody: gin.H{"listed": true},
			buildStubs: func(service *MockService) {
				service.EXPECT().SetListed(gomock.Any(), gomock.Eq(username), gomock.Eq(asset.ID), gomock.Eq(true)).
					Times(1).
					Return(domain.Asset{}, domain.ErrAssetNotFound)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusNotFound, recorder.Code)
			},
		},
		{
			name:        "Delist",
			requestBody: gin.H{"listed": false},
			buildStubs: func(service *MockService) {
				service.EXPECT().SetListed(gomock.Any(), gomock.Eq(username), gomock.Eq(asset.ID), gomock.Eq(false)).
					Times(1).
					Return(asset, nil)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusOK, recorder.Code)
			},
		},
		{
			name:        "OK",
			requestBody: gin.H{"listed": true},
			buildStubs: func(service *MockService) {
				service.EXPECT().SetListed(gomock.Any(), gomock.Eq(username), gomock.Eq(asset.ID), gomock.Eq(true)).
					Times(1).
					Return(asset, nil)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusOK, recorder.Code)
			},
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			server, service, tokenMaker := newTestServer(t)
			tc.buildStubs(service)

			recorder := httptest.NewRecorder()

			body, err := json.Marshal(tc.requestBody)
			require.NoError(t, err)

			url := fmt.Sprintf("/assets/%d/listing", asset.ID)

			req, err := http.NewRequest(http.MethodPut, url, bytes.NewReader(body))
			require.NoError(t, err)

			middleware.AddAuthorization(t, req, tokenMaker, middleware.AuthTypeBearer, username, time.Minute)
			server.ServeHTTP(recorder, req)
			tc.checkResponse(recorder)
		})
	}
}

func TestSetPrice(t *testing.T) {
	username := randompkg.Owner()
	asset := domain.Asset{ID: 1, Title: randompkg.AssetTitle(), Price: "7", CreatorID: 1, OwnerID: 1}

	testCases := []struct {
		name          string
		requestBody   gin.H
		buildStubs    func(service *MockService)
		checkResponse func(recorder *httptest.ResponseRecorder)
	}{
		{
			name:        "InvalidBindPrice",
			requestBody: gin.H{"price": "0"},
			buildStubs: func(service *MockService) {
				service.EXPECT().SetPrice(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, recorder.Code)
			},
		},
		{
			name:        "ErrInvalidOwner",
			requestBody: gin.H{"price": "7"},
			buildStubs: func(service *MockService) {
				service.EXPECT().SetPrice(gomock.Any(), gomock.Eq(username), gomock.Eq(asset.ID), gomock.Eq("7")).
					Times(1).
					Return(domain.Asset{}, domain.ErrInvalidOwner)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusUnauthorized, recorder.Code)
			},
		},
		{
			name:        "OK",
			requestBody: gin.H{"price": "7"},
			buildStubs: func(service *MockService) {
				service.EXPECT().SetPrice(gomock.Any(), gomock.Eq(username), gomock.Eq(asset.ID), gomock.Eq("7")).
					Times(1).
					Return(asset, nil)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusOK, recorder.Code)
			},
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			server, service, tokenMaker := newTestServer(t)
			tc.buildStubs(service)

			recorder := httptest.NewRecorder()

			body, err := json.Marshal(tc.requestBody)
			require.NoError(t, err)

			url := fmt.Sprintf("/assets/%d/price", asset.ID)

			req, err := http.NewRequest(http.MethodPut, url, bytes.NewReader(body))
			require.NoError(t, err)

			middleware.AddAuthorization(t, req, tokenMaker, middleware.AuthTypeBearer, username, time.Minute)
			server.ServeHTTP(recorder, req)
			tc.checkResponse(recorder)
		})
	}
}

func TestList(t *testing.T) {
	testCases := []struct {
		name          string
		url           string
		buildStubs    func(service *MockService)
		checkResponse func(recorder *httptest.ResponseRecorder)
	}{
		{
			name: "MissingPageID",
			url:  "/assets?page_size=5",
			buildStubs: func(service *MockService) {
				service.EXPECT().List(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, recorder.Code)
			},
		},
		{
			name: "PageSizeTooLarge",
			url:  "/assets?page_id=1&page_size=500",
			buildStubs: func(service *MockService) {
				service.EXPECT().List(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, recorder.Code)
			},
		},
		{
			name: "InternalError",
			url:  "/assets?page_id=1&page_size=5",
			buildStubs: func(service *MockService) {
				service.EXPECT().
					List(gomock.Any(), gomock.Eq(domain.ListAssetsParams{Limit: 5, Offset: 0})).
					Times(1).
					Return(nil, errorspkg.ErrInternal)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusInternalServerError, recorder.Code)
			},
		},
		{
			name: "ListedOnly",
			url:  "/assets?listed_only=true&page_id=2&page_size=5",
			buildStubs: func(service *MockService) {
				service.EXPECT().
					List(gomock.Any(), gomock.Eq(domain.ListAssetsParams{
						ListedOnly: true,
						Limit:      5,
						Offset:     5,
					})).
					Times(1).
					Return([]domain.Asset{{ID: 6, IsListed: true}}, nil)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusOK, recorder.Code)
			},
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			server, service, _ := newTestServer(t)
			tc.buildStubs(service)

			recorder := httptest.NewRecorder()

			req, err := http.NewRequest(http.MethodGet, tc.url, nil)
			require.NoError(t, err)

			server.ServeHTTP(recorder, req)
			tc.checkResponse(recorder)
		})
	}
}
