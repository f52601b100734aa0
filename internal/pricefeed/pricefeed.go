// Package pricefeed fetches current market prices for reporting. Prices are
// never consulted during settlement; a failed quote degrades a report, not
// the ledger.
package pricefeed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client provides current market quotes for symbols.
type Client interface {
	Quote(ctx context.Context, symbol string) (Quote, error)
}

// FinanceClient fetches quotes from a Yahoo-style chart API over HTTP.
type FinanceClient struct {
	httpClient *http.Client
	baseURL    string
}

// NewFinanceClient creates a new quote client against the given base URL.
func NewFinanceClient(baseURL string) *FinanceClient {
	return &FinanceClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    baseURL,
	}
}

// Quote fetches the latest market price for a symbol.
func (c *FinanceClient) Quote(ctx context.Context, symbol string) (Quote, error) {
	url := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=1d", c.baseURL, symbol)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Quote{}, fmt.Errorf("failed to build quote request: %w", err)
	}
	req.Header.Set("User-Agent", "lotkeeper/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Quote{}, fmt.Errorf("failed to fetch quote for %s: %w", symbol, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Quote{}, fmt.Errorf("quote request for %s returned status %d", symbol, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Quote{}, fmt.Errorf("failed to read quote response: %w", err)
	}

	var result Response
	if err := json.Unmarshal(body, &result); err != nil {
		return Quote{}, fmt.Errorf("failed to decode quote response: %w", err)
	}

	return ParseQuote(result)
}

// ParseQuote converts a raw chart API response into a Quote.
// Returns an error if the response carries an API error or no result.
func ParseQuote(result Response) (Quote, error) {
	if result.Chart.Error != nil {
		return Quote{}, fmt.Errorf("quote API error: %s: %s",
			result.Chart.Error.Code, result.Chart.Error.Description)
	}
	if len(result.Chart.Result) == 0 {
		return Quote{}, fmt.Errorf("no quote data returned")
	}

	meta := result.Chart.Result[0].Meta
	if meta.RegularMarketPrice <= 0 {
		return Quote{}, fmt.Errorf("no market price returned for %s", meta.Symbol)
	}

	return Quote{
		Symbol:   meta.Symbol,
		Price:    meta.RegularMarketPrice,
		Currency: meta.Currency,
		AsOf:     time.Unix(meta.RegularMarketTime, 0).UTC(),
	}, nil
}
