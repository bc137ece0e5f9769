// Package httpserver manages server creation and api routing.
package httpserver

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/go-petr/nft-market/internal/accountdelivery"
	"github.com/go-petr/nft-market/internal/accountrepo"
	"github.com/go-petr/nft-market/internal/accountservice"
	"github.com/go-petr/nft-market/internal/assetdelivery"
	"github.com/go-petr/nft-market/internal/assetrepo"
	"github.com/go-petr/nft-market/internal/assetservice"
	"github.com/go-petr/nft-market/internal/middleware"
	"github.com/go-petr/nft-market/internal/ratedelivery"
	"github.com/go-petr/nft-market/internal/settlementdelivery"
	"github.com/go-petr/nft-market/internal/settlementrepo"
	"github.com/go-petr/nft-market/internal/settlementservice"
	"github.com/go-petr/nft-market/pkg/configpkg"
	"github.com/go-petr/nft-market/pkg/feepkg"
	"github.com/go-petr/nft-market/pkg/tokenpkg"
)

// Server holds db connection, handlers router and configuration.
type Server struct {
	DB     *sql.DB
	Engine *gin.Engine
	Config configpkg.Config
}

// ServeHTTP implements the http.Handler interface for the Server type.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Engine.ServeHTTP(w, r)
}

// New creates Server type with instantiated domains and routes.
func New(conn *sql.DB, feed ratedelivery.Feed, logger zerolog.Logger, config configpkg.Config) (*Server, error) {
	accountRepo := accountrepo.NewRepoPGS(conn)
	assetRepo := assetrepo.NewRepoPGS(conn)
	settlementRepo := settlementrepo.NewRepoPGS(conn)

	tokenMaker, err := tokenpkg.NewPasetoMaker(config.TokenSymmetricKey)
	if err != nil {
		return nil, errors.New("cannot create token maker")
	}

	feeRate := feepkg.DefaultRate
	if config.FeeRate != "" {
		feeRate, err = decimal.NewFromString(config.FeeRate)
		if err != nil {
			return nil, errors.New("cannot parse fee rate")
		}
	}

	accountService := accountservice.New(accountRepo)
	assetService := assetservice.New(assetRepo, accountService)
	settlementService := settlementservice.New(
		settlementRepo,
		accountService,
		assetService,
		feepkg.New(feeRate),
		config.DelistOnSale,
	)

	accountHandler := accountdelivery.NewHandler(accountService)
	assetHandler := assetdelivery.NewHandler(assetService)
	settlementHandler := settlementdelivery.NewHandler(settlementService, accountService)
	rateHandler := ratedelivery.NewHandler(feed)

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(middleware.RequestLogger(logger))
	engine.Use(gin.Recovery())

	engine.GET("/assets", assetHandler.List)
	engine.GET("/assets/:id", assetHandler.Get)
	engine.GET("/assets/:id/settlements", settlementHandler.ListByAsset)
	engine.GET("/rates/usd", rateHandler.Get)

	authRoutes := engine.Group("/").Use(middleware.Auth(tokenMaker))

	authRoutes.POST("/accounts", accountHandler.Create)
	authRoutes.GET("/accounts/:id", accountHandler.Get)
	authRoutes.POST("/accounts/:id/balance", accountHandler.Adjust)
	authRoutes.GET("/settlements", settlementHandler.ListByAccount)

	authRoutes.POST("/assets", assetHandler.Create)
	authRoutes.PUT("/assets/:id/listing", assetHandler.SetListed)
	authRoutes.PUT("/assets/:id/price", assetHandler.SetPrice)

	authRoutes.POST("/purchases", settlementHandler.Create)

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		err := v.RegisterValidation("amount", assetdelivery.ValidAmount)
		if err != nil {
			return nil, errors.New("cannot register amount validator")
		}
	}

	server := &Server{
		DB:     conn,
		Engine: engine,
		Config: config,
	}

	return server, nil
}
