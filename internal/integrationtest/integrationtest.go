// Package integrationtest provides db helpers used in integration tests.
package integrationtest

import (
	"database/sql"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/go-petr/nft-market/cmd/httpserver"
	"github.com/go-petr/nft-market/internal/middleware"
	"github.com/go-petr/nft-market/internal/ratefeed"
	"github.com/go-petr/nft-market/pkg/configpkg"
	"github.com/go-petr/nft-market/pkg/dbpkg"
)

// SetupServer returns test server that cleans up database after each integration test.
func SetupServer(t *testing.T) *httpserver.Server {
	config, err := configpkg.Load("../../configs")
	if err != nil {
		t.Fatalf(`configpkg.Load("../../configs") returned error: %v`, err)
	}

	zerolog.SetGlobalLevel(zerolog.FatalLevel)

	logger := middleware.CreateLogger(config)

	db := SetupDB(t, config.DBDriver, config.DBSource)

	// Never refreshed in tests: the feed serves the fallback rate and no
	// network traffic happens.
	fallbackRate, err := decimal.NewFromString(config.OracleFallbackRate)
	if err != nil {
		t.Fatalf("cannot parse oracle fallback rate: %v", err)
	}

	feed := ratefeed.New(ratefeed.NewHTTPSource(config.OracleURL), config.OracleCacheTTL, fallbackRate)

	gin.SetMode(gin.ReleaseMode)

	server, err := httpserver.New(db, feed, logger, config)
	if err != nil {
		t.Fatalf(`httpserver.New(db, feed, logger, config) returned error: %v`, err)
	}

	return server
}

// Flush flushes all db tables without droping.
func Flush(t *testing.T, db *sql.DB) {
	t.Helper()

	var tables string

	const query = `
	SELECT string_agg(table_name, ', ')
	FROM information_schema.tables
	WHERE table_schema='public';`

	row := db.QueryRow(query)

	err := row.Scan(&tables)
	if err != nil {
		t.Fatalf("db cleanup failed. err: %v", err)
	}

	if _, err := db.Exec(`TRUNCATE TABLE ` + tables + " CASCADE"); err != nil {
		t.Fatalf("db cleanup failed. err: %v", err)
	}
}

// SetupDB sets up connection with database for testing and then cleans it.
func SetupDB(t *testing.T, driver, source string) *sql.DB {
	t.Helper()

	db, err := dbpkg.Setup(driver, source)
	if err != nil {
		t.Fatalf("db initialization failed. err: %v", err)
	}

	t.Cleanup(func() {
		Flush(t, db)

		if err := db.Close(); err != nil {
			t.Fatalf("db cleanup failed. err: %v", err)
		}
	})

	return db
}
