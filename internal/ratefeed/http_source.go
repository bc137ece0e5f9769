package ratefeed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

// HTTPSource fetches the ETH/USD reference rate from a coingecko style
// simple-price endpoint.
type HTTPSource struct {
	client *http.Client
	url    string
}

// NewHTTPSource returns an HTTP source for the given endpoint.
func NewHTTPSource(url string) *HTTPSource {
	return &HTTPSource{
		client: &http.Client{Timeout: 10 * time.Second},
		url:    url,
	}
}

type simplePriceResponse struct {
	Ethereum struct {
		USD json.Number `json:"usd"`
	} `json:"ethereum"`
}

// Fetch implements Source.
func (s *HTTPSource) Fetch(ctx context.Context) (decimal.Decimal, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return decimal.Zero, err
	}

	res, err := s.client.Do(req)
	if err != nil {
		return decimal.Zero, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("rate provider returned status %d", res.StatusCode)
	}

	var body simplePriceResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return decimal.Zero, err
	}

	rate, err := decimal.NewFromString(body.Ethereum.USD.String())
	if err != nil {
		return decimal.Zero, err
	}

	if rate.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, errors.New("rate provider returned non-positive rate")
	}

	return rate, nil
}
