package iex

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rmoura/finsim/market"
)

// DefaultBaseURL is the production quote API endpoint.
const DefaultBaseURL = "https://cloud.iexapis.com/stable"

// Client is a quote API client. The token is passed on every request; the
// API treats a missing or invalid token as 403, which surfaces here as an
// ordinary lookup failure.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a quote client for the production endpoint.
func NewClient(token string) *Client {
	return NewClientWithBaseURL(token, DefaultBaseURL)
}

// NewClientWithBaseURL creates a quote client against a custom endpoint,
// typically a local stub during development.
func NewClientWithBaseURL(token, baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// quoteResponse is the subset of the API quote payload we consume.
type quoteResponse struct {
	Symbol      string  `json:"symbol"`
	CompanyName string  `json:"companyName"`
	LatestPrice float64 `json:"latestPrice"`
}

// GetQuote fetches the current quote for a symbol. An unknown symbol
// returns market.ErrSymbolNotFound; every other failure (transport,
// timeout, non-200 status, malformed body) is a wrapped lookup error.
func (c *Client) GetQuote(ctx context.Context, symbol string) (market.Quote, error) {
	symbol = market.NormalizeSymbol(symbol)
	if symbol == "" {
		return market.Quote{}, fmt.Errorf("symbol is required")
	}

	apiURL := fmt.Sprintf("%s/stock/%s/quote?token=%s",
		c.baseURL, url.PathEscape(symbol), url.QueryEscape(c.token))

	httpReq, err := http.NewRequestWithContext(ctx, "GET", apiURL, nil)
	if err != nil {
		return market.Quote{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return market.Quote{}, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return market.Quote{}, fmt.Errorf("%s: %w", symbol, market.ErrSymbolNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return market.Quote{}, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	var qr quoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&qr); err != nil {
		return market.Quote{}, fmt.Errorf("decode response: %w", err)
	}

	return market.Quote{
		Symbol: market.NormalizeSymbol(qr.Symbol),
		Name:   qr.CompanyName,
		Price:  decimal.NewFromFloat(qr.LatestPrice),
	}, nil
}
