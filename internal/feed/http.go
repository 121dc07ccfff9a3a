// Package feed implements the live price source and the background poller
// that keeps the price cache warm.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rangebook/rangebook/internal/domain"
)

// ClientConfig holds parameters for the HTTP price client.
type ClientConfig struct {
	BaseURL        string
	RequestTimeout time.Duration
}

// Client fetches spot prices from a Binance-compatible ticker endpoint
// (GET /api/v3/ticker/price?symbol=...). It implements domain.PriceFeed.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a price feed Client.
func NewClient(cfg ClientConfig) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
	}
}

// tickerResponse mirrors the exchange's ticker payload. The price arrives as
// a decimal string.
type tickerResponse struct {
	Symbol string `json:"symbol"`
	Price  string `json:"price"`
}

// CurrentPrice fetches the spot price for a feed symbol. Any transport,
// decode, or bad-value failure is reported as domain.ErrPriceUnavailable so
// callers can distinguish "no price" from internal errors.
func (c *Client) CurrentPrice(ctx context.Context, symbol string) (float64, error) {
	u := fmt.Sprintf("%s/api/v3/ticker/price?symbol=%s", c.baseURL, url.QueryEscape(symbol))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, fmt.Errorf("feed: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("feed: %s: %w: %w", symbol, domain.ErrPriceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return 0, fmt.Errorf("feed: %s: %w: status %d: %s", symbol, domain.ErrPriceUnavailable, resp.StatusCode, body)
	}

	var ticker tickerResponse
	if err := json.NewDecoder(resp.Body).Decode(&ticker); err != nil {
		return 0, fmt.Errorf("feed: %s: %w: decode: %w", symbol, domain.ErrPriceUnavailable, err)
	}

	price, err := strconv.ParseFloat(ticker.Price, 64)
	if err != nil {
		return 0, fmt.Errorf("feed: %s: %w: parse price %q: %w", symbol, domain.ErrPriceUnavailable, ticker.Price, err)
	}
	if price <= 0 {
		return 0, fmt.Errorf("feed: %s: %w: non-positive price %v", symbol, domain.ErrPriceUnavailable, price)
	}

	return price, nil
}

// Compile-time interface check.
var _ domain.PriceFeed = (*Client)(nil)
