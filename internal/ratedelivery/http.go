// Package ratedelivery manages delivery layer of the display reference rate.
package ratedelivery

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/go-petr/nft-market/internal/domain"
)

// Feed provides the cached reference rate.
//
//go:generate mockgen -source http.go -destination http_mock.go -package ratedelivery
type Feed interface {
	Get() domain.CachedRate
}

// Handler facilitates rate delivery layer logic.
type Handler struct {
	feed Feed
}

// NewHandler returns rate handler.
func NewHandler(f Feed) *Handler {
	return &Handler{feed: f}
}

type data struct {
	Rate domain.CachedRate `json:"rate"`
}

type response struct {
	Data data `json:"data,omitempty"`
}

// Get handles http request for the USD reference rate.
//
// The rate is informational; a stale or fallback value is still served with
// its status tag so the client can qualify the display.
func (h *Handler) Get(gctx *gin.Context) {
	gctx.JSON(http.StatusOK, response{Data: data{h.feed.Get()}})
}
