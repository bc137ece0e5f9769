// Package settlementdelivery manages delivery layer of purchase settlement.
package settlementdelivery

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/go-petr/nft-market/internal/domain"
	"github.com/go-petr/nft-market/internal/middleware"
	"github.com/go-petr/nft-market/pkg/errorspkg"
	"github.com/go-petr/nft-market/pkg/tokenpkg"
	"github.com/go-petr/nft-market/pkg/web"
)

// Service provides service layer interface needed by settlement delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package settlementdelivery
type Service interface {
	Purchase(ctx context.Context, assetID int64, buyerID int32) (domain.SettleTxResult, error)
	ListByAsset(ctx context.Context, arg domain.ListSettlementsParams) ([]domain.Settlement, error)
	ListByAccount(ctx context.Context, arg domain.ListSettlementsParams) ([]domain.Settlement, error)
}

// AccountService resolves the verified caller to their buyer account.
type AccountService interface {
	GetByOwner(ctx context.Context, owner string) (domain.Account, error)
}

// Handler facilitates settlement delivery layer logic.
type Handler struct {
	service        Service
	accountService AccountService
}

// NewHandler returns settlement handler.
func NewHandler(ss Service, as AccountService) *Handler {
	return &Handler{
		service:        ss,
		accountService: as,
	}
}

type purchaseRequest struct {
	AssetID int64 `json:"asset_id" binding:"required,min=1"`
}

type purchaseData struct {
	Settlement domain.SettleTxResult `json:"settlement"`
}

type purchaseResponse struct {
	Data purchaseData `json:"data,omitempty"`
}

// Create handles http request to purchase an asset.
//
// The buyer is always the verified caller; client supplied buyer ids are not
// accepted.
func (h *Handler) Create(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req purchaseRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return
	}

	authPayload := gctx.MustGet(middleware.AuthPayloadKey).(*tokenpkg.Payload)

	buyer, err := h.accountService.GetByOwner(ctx, authPayload.Username)
	if err != nil {
		l.Info().Err(err).Send()

		if errors.Is(err, domain.ErrAccountNotFound) {
			gctx.JSON(http.StatusNotFound, web.Error(domain.ErrBuyerNotFound))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	result, err := h.service.Purchase(ctx, req.AssetID, buyer.ID)
	if err != nil {
		l.Info().Err(err).Send()

		switch {
		case errors.Is(err, domain.ErrAssetNotFound),
			errors.Is(err, domain.ErrBuyerNotFound):
			gctx.JSON(http.StatusNotFound, web.Error(err))
		case errors.Is(err, domain.ErrAssetNotListed),
			errors.Is(err, domain.ErrPurchaseConflict):
			gctx.JSON(http.StatusConflict, web.Error(err))
		case errors.Is(err, domain.ErrAlreadyOwned):
			gctx.JSON(http.StatusBadRequest, web.Error(err))
		case errors.Is(err, domain.ErrInsufficientFunds):
			gctx.JSON(http.StatusBadRequest, web.Error(err))
		case errors.Is(err, errorspkg.ErrTimeout),
			errors.Is(err, errorspkg.ErrStoreUnavailable):
			gctx.JSON(http.StatusServiceUnavailable, web.Error(err))
		case errors.Is(err, domain.ErrSellerNotFound):
			// Data integrity fault, not attributable to the caller.
			gctx.JSON(http.StatusInternalServerError, web.Error(err))
		default:
			gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))
		}

		return
	}

	gctx.JSON(http.StatusOK, purchaseResponse{Data: purchaseData{result}})
}

type listByAssetRequest struct {
	ID int64 `uri:"id" binding:"required,min=1"`
}

type listQueryRequest struct {
	PageID   int32 `form:"page_id" binding:"required,min=1"`
	PageSize int32 `form:"page_size" binding:"required,min=1,max=100"`
}

type listData struct {
	Settlements []domain.Settlement `json:"settlements"`
}

type listResponse struct {
	Data listData `json:"data,omitempty"`
}

// ListByAsset handles http request to get the settlement history of an asset.
func (h *Handler) ListByAsset(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var uri listByAssetRequest
	if err := gctx.ShouldBindUri(&uri); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return
	}

	var query listQueryRequest
	if err := gctx.ShouldBindQuery(&query); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return
	}

	arg := domain.ListSettlementsParams{
		AssetID: uri.ID,
		Limit:   query.PageSize,
		Offset:  (query.PageID - 1) * query.PageSize,
	}

	settlements, err := h.service.ListByAsset(ctx, arg)
	if err != nil {
		l.Error().Err(err).Send()
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, listResponse{Data: listData{settlements}})
}

// ListByAccount handles http request to get the caller's settlement history.
func (h *Handler) ListByAccount(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var query listQueryRequest
	if err := gctx.ShouldBindQuery(&query); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return
	}

	authPayload := gctx.MustGet(middleware.AuthPayloadKey).(*tokenpkg.Payload)

	account, err := h.accountService.GetByOwner(ctx, authPayload.Username)
	if err != nil {
		l.Info().Err(err).Send()

		if errors.Is(err, domain.ErrAccountNotFound) {
			gctx.JSON(http.StatusNotFound, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	arg := domain.ListSettlementsParams{
		AccountID: account.ID,
		Limit:     query.PageSize,
		Offset:    (query.PageID - 1) * query.PageSize,
	}

	settlements, err := h.service.ListByAccount(ctx, arg)
	if err != nil {
		l.Error().Err(err).Send()
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, listResponse{Data: listData{settlements}})
}
