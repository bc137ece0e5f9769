package accountdelivery

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
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
	server.Use(middleware.Auth(tokenMaker))
	server.POST("/accounts", handler.Create)
	server.GET("/accounts/:id", handler.Get)
	server.POST("/accounts/:id/balance", handler.Adjust)

	return server, service, tokenMaker
}

func TestCreate(t *testing.T) {
	username := randompkg.Owner()

	testCases := []struct {
		name          string
		setupAuth     func(t *testing.T, request *http.Request, tokenMaker tokenpkg.Maker)
		buildStubs    func(service *MockService)
		checkResponse func(recorder *httptest.ResponseRecorder)
	}{
		{
			name: "NoAuthorization",
			setupAuth: func(t *testing.T, request *http.Request, tokenMaker tokenpkg.Maker) {
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusUnauthorized, recorder.Code)
			},
		},
		{
			name: "ErrOwnerAlreadyExists",
			setupAuth: func(t *testing.T, request *http.Request, tokenMaker tokenpkg.Maker) {
				middleware.AddAuthorization(t, request, tokenMaker, middleware.AuthTypeBearer, username, time.Minute)
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().Create(gomock.Any(), gomock.Eq(username)).
					Times(1).
					Return(domain.Account{}, domain.ErrOwnerAlreadyExists)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusConflict, recorder.Code)
			},
		},
		{
			name: "InternalError",
			setupAuth: func(t *testing.T, request *http.Request, tokenMaker tokenpkg.Maker) {
				middleware.AddAuthorization(t, request, tokenMaker, middleware.AuthTypeBearer, username, time.Minute)
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().Create(gomock.Any(), gomock.Eq(username)).
					Times(1).
					Return(domain.Account{}, errorspkg.ErrInternal)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusInternalServerError, recorder.Code)
			},
		},
		{
			name: "OK",
			setupAuth: func(t *testing.T, request *http.Request, tokenMaker tokenpkg.Maker) {
				middleware.AddAuthorization(t, request, tokenMaker, middleware.AuthTypeBearer, username, time.Minute)
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().Create(gomock.Any(), gomock.Eq(username)).
					Times(1).
					Return(domain.Account{ID: 1, Owner: username, Balance: "0"}, nil)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusOK, recorder.Code)
				require.Contains(t, recorder.Body.String(), username)
			},
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			server, service, tokenMaker := newTestServer(t)
			tc.buildStubs(service)

			recorder := httptest.NewRecorder()

			req, err := http.NewRequest(http.MethodPost, "/accounts", nil)
			require.NoError(t, err)

			tc.setupAuth(t, req, tokenMaker)
			server.ServeHTTP(recorder, req)
			tc.checkResponse(recorder)
		})
	}
}

func TestGet(t *testing.T) {
	username := randompkg.Owner()
	account := domain.Account{ID: 1, Owner: username, Balance: "100"}

	testCases := []struct {
		name          string
		url           string
		setupAuth     func(t *testing.T, request *http.Request, tokenMaker tokenpkg.Maker)
		buildStubs    func(service *MockService)
		checkResponse func(recorder *httptest.ResponseRecorder)
	}{
		{
			name: "InvalidID",
			url:  "/accounts/0",
			setupAuth: func(t *testing.T, request *http.Request, tokenMaker tokenpkg.Maker) {
				middleware.AddAuthorization(t, request, tokenMaker, middleware.AuthTypeBearer, username, time.Minute)
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().Get(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, recorder.Code)
			},
		},
		{
			name: "ErrAccountNotFound",
			url:  fmt.Sprintf("/accounts/%d", account.ID),
			setupAuth: func(t *testing.T, request *http.Request, tokenMaker tokenpkg.Maker) {
				middleware.AddAuthorization(t, request, tokenMaker, middleware.AuthTypeBearer, username, time.Minute)
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().Get(gomock.Any(), gomock.Eq(account.ID)).
					Times(1).
					Return(domain.Account{}, domain.ErrAccountNotFound)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusNotFound, recorder.Code)
			},
		},
		{
			name: "NotOwnAccount",
			url:  fmt.Sprintf("/accounts/%d", account.ID),
			setupAuth: func(t *testing.T, request *http.Request, tokenMaker tokenpkg.Maker) {
				middleware.AddAuthorization(t, request, tokenMaker, middleware.AuthTypeBearer, "intruder", time.Minute)
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().Get(gomock.Any(), gomock.Eq(account.ID)).
					Times(1).
					Return(account, nil)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusUnauthorized, recorder.Code)
			},
		},
		{
			name: "OK",
			url:  fmt.Sprintf("/accounts/%d", account.ID),
			setupAuth: func(t *testing.T, request *http.Request, tokenMaker tokenpkg.Maker) {
				middleware.AddAuthorization(t, request, tokenMaker, middleware.AuthTypeBearer, username, time.Minute)
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().Get(gomock.Any(), gomock.Eq(account.ID)).
					Times(1).
					Return(account, nil)
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

			req, err := http.NewRequest(http.MethodGet, tc.url, nil)
			require.NoError(t, err)

			tc.setupAuth(t, req, tokenMaker)
			server.ServeHTTP(recorder, req)
			tc.checkResponse(recorder)
		})
	}
}

func TestAdjust(t *testing.T) {
	username := randompkg.Owner()
	account := domain.Account{ID: 1, Owner: username, Balance: "110"}

	testCases := []struct {
		name          string
		requestBody   gin.H
		buildStubs    func(service *MockService)
		checkResponse func(recorder *httptest.ResponseRecorder)
	}{
		{
			name:        "InvalidOp",
			requestBody: gin.H{"op": "multiply", "amount": "10"},
			buildStubs: func(service *MockService) {
				service.EXPECT().Adjust(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, recorder.Code)
			},
		},
		{
			name:        "MissingAmount",
			requestBody: gin.H{"op": "add"},
			buildStubs: func(service *MockService) {
				service.EXPECT().Adjust(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, recorder.Code)
			},
		},
		{
			name:        "ErrAccountNotFound",
			requestBody: gin.H{"op": "add", "amount": "10"},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Adjust(gomock.Any(), gomock.Eq(account.ID), gomock.Eq(domain.BalanceAdjustment{
						Op:     domain.AdjustAdd,
						Amount: "10",
					})).
					Times(1).
					Return(domain.Account{}, domain.ErrAccountNotFound)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusNotFound, recorder.Code)
			},
		},
		{
			name:        "ErrInvalidAmount",
			requestBody: gin.H{"op": "add", "amount": "!@#$"},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Adjust(gomock.Any(), gomock.Eq(account.ID), gomock.Eq(domain.BalanceAdjustment{
						Op:     domain.AdjustAdd,
						Amount: "!@#$",
					})).
					Times(1).
					Return(domain.Account{}, domain.ErrInvalidAmount)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, recorder.Code)
			},
		},
		{
			name:        "ErrInsufficientBalance",
			requestBody: gin.H{"op": "subtract", "amount": "1000"},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Adjust(gomock.Any(), gomock.Eq(account.ID), gomock.Eq(domain.BalanceAdjustment{
						Op:     domain.AdjustSubtract,
						Amount: "1000",
					})).
					Times(1).
					Return(domain.Account{}, domain.ErrInsufficientBalance)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, recorder.Code)
			},
		},
		{
			name:        "OK",
			requestBody: gin.H{"op": "add", "amount": "10"},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Adjust(gomock.Any(), gomock.Eq(account.ID), gomock.Eq(domain.BalanceAdjustment{
						Op:     domain.AdjustAdd,
						Amount: "10",
					})).
					Times(1).
					Return(account, nil)
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

			url := fmt.Sprintf("/accounts/%d/balance", account.ID)

			req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
			require.NoError(t, err)

			middleware.AddAuthorization(t, req, tokenMaker, middleware.AuthTypeBearer, username, time.Minute)
			server.ServeHTTP(recorder, req)
			tc.checkResponse(recorder)
		})
	}
}
