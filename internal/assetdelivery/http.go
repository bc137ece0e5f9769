// Package assetdelivery manages delivery layer of assets.
package assetdelivery

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

// Service provides service layer interface needed by asset delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package assetdelivery
type Service interface {
	Mint(ctx context.Context, creator, title, price string) (domain.Asset, error)
	View(ctx context.Context, id int64) (domain.Asset, error)
	SetListed(ctx context.Context, owner string, id int64, listed bool) (domain.Asset, error)
	SetPrice(ctx context.Context, owner string, id int64, price string) (domain.Asset, error)
	List(ctx context.Context, arg domain.ListAssetsParams) ([]domain.Asset, error)
}

// Handler facilitates asset delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns asset handler.
func NewHandler(as Service) *Handler {
	return &Handler{service: as}
}

type data struct {
	Asset domain.Asset `json:"asset"`
}

type response struct {
	Data data `json:"data,omitempty"`
}

type uriRequest struct {
	ID int64 `uri:"id" binding:"required,min=1"`
}

type createRequest struct {
	Title string `json:"title" binding:"required,max=100"`
	Price string `json:"price" binding:"required,amount"`
}

// Create handles http request to mint an asset.
func (h *Handler) Create(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req createRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return
	}

	authPayload := gctx.MustGet(middleware.AuthPayloadKey).(*tokenpkg.Payload)

	asset, err := h.service.Mint(ctx, authPayload.Username, req.Title, req.Price)
	if err != nil {
		l.Info().Err(err).Send()

		switch {
		case errors.Is(err, domain.ErrInvalidPrice):
			gctx.JSON(http.StatusBadRequest, web.Error(err))
		case errors.Is(err, domain.ErrCreatorNotFound):
			gctx.JSON(http.StatusNotFound, web.Error(err))
		default:
			gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))
		}

		return
	}

	gctx.JSON(http.StatusOK, response{Data: data{asset}})
}

// Get handles http request to view an asset.
func (h *Handler) Get(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req uriRequest
	if err := gctx.ShouldBindUri(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return
	}

	asset, err := h.service.View(ctx, req.ID)
	if err != nil {
		l.Info().Err(err).Send()

		if errors.Is(err, domain.ErrAssetNotFound) {
			gctx.JSON(http.StatusNotFound, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, response{Data: data{asset}})
}

type setListedRequest struct {
	Listed *bool `json:"listed" binding:"required"`
}

// SetListed handles http request to list or delist an asset.
func (h *Handler) SetListed(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var uri uriRequest
	if err := gctx.ShouldBindUri(&uri); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return
	}

	var req setListedRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return
	}

	authPayload := gctx.MustGet(middleware.AuthPayloadKey).(*tokenpkg.Payload)

	asset, err := h.service.SetListed(ctx, authPayload.Username, uri.ID, *req.Listed)
	if err != nil {
		h.writeOwnerActionError(gctx, l, err)
		return
	}

	gctx.JSON(http.StatusOK, response{Data: data{asset}})
}

type setPriceRequest struct {
	Price string `json:"price" binding:"required,amount"`
}

// SetPrice handles http request to change an asset's asking price.
func (h *Handler) SetPrice(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var uri uriRequest
	if err := gctx.ShouldBindUri(&uri); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return
	}

	var req setPriceRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return
	}

	authPayload := gctx.MustGet(middleware.AuthPayloadKey).(*tokenpkg.Payload)

	asset, err := h.service.SetPrice(ctx, authPayload.Username, uri.ID, req.Price)
	if err != nil {
		h.writeOwnerActionError(gctx, l, err)
		return
	}

	gctx.JSON(http.StatusOK, response{Data: data{asset}})
}

func (h *Handler) writeOwnerActionError(gctx *gin.Context, l *zerolog.Logger, err error) {
	l.Info().Err(err).Send()

	switch {
	case errors.Is(err, domain.ErrAssetNotFound):
		gctx.JSON(http.StatusNotFound, web.Error(err))
	case errors.Is(err, domain.ErrInvalidOwner):
		gctx.JSON(http.StatusUnauthorized, web.Error(err))
	case errors.Is(err, domain.ErrInvalidPrice):
		gctx.JSON(http.StatusBadRequest, web.Error(err))
	default:
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))
	}
}

type listRequest struct {
	ListedOnly bool  `form:"listed_only"`
	PageID     int32 `form:"page_id" binding:"required,min=1"`
	PageSize   int32 `form:"page_size" binding:"required,min=1,max=100"`
}

type listData struct {
	Assets []domain.Asset `json:"assets"`
}

type listResponse struct {
	Data listData `json:"data,omitempty"`
}

// List handles http request to browse assets.
func (h *Handler) List(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req listRequest
	if err := gctx.ShouldBindQuery(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return
	}

	arg := domain.ListAssetsParams{
		ListedOnly: req.ListedOnly,
		Limit:      req.PageSize,
		Offset:     (req.PageID - 1) * req.PageSize,
	}

	assets, err := h.service.List(ctx, arg)
	if err != nil {
		l.Error().Err(err).Send()
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, listResponse{Data: listData{assets}})
}
