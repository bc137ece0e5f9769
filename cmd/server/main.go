// Package main starts the marketplace settlement API server.
package main

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/go-petr/nft-market/cmd/httpserver"
	"github.com/go-petr/nft-market/internal/middleware"
	"github.com/go-petr/nft-market/internal/ratefeed"
	"github.com/go-petr/nft-market/pkg/configpkg"
	"github.com/go-petr/nft-market/pkg/dbpkg"

	_ "github.com/lib/pq"
)

func main() {
	config, err := configpkg.Load("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	logger := middleware.CreateLogger(config)

	db, err := dbpkg.Setup(config.DBDriver, config.DBSource)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot connect to database")
	}

	fallbackRate, err := decimal.NewFromString(config.OracleFallbackRate)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot parse oracle fallback rate")
	}

	feed := ratefeed.New(
		ratefeed.NewHTTPSource(config.OracleURL),
		config.OracleCacheTTL,
		fallbackRate,
	)

	refresh := func() {
		ctx, cancel := context.WithTimeout(logger.WithContext(context.Background()), 30*time.Second)
		defer cancel()

		// Failures keep the last cached rate; the feed degrades, the
		// settlement path is unaffected.
		_ = feed.Refresh(ctx)
	}

	refresh()

	scheduler := cron.New()
	if _, err := scheduler.AddFunc("@every "+config.OracleRefreshInterval.String(), refresh); err != nil {
		logger.Fatal().Err(err).Msg("cannot schedule rate refresh")
	}

	scheduler.Start()
	defer scheduler.Stop()

	server, err := httpserver.New(db, feed, logger, config)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot create server")
	}

	logger.Info().Msg("MARKETPLACE SETTLEMENT API SERVER HAS STARTED")

	err = server.Engine.Run(config.ServerAddress)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot start server")
	}
}
