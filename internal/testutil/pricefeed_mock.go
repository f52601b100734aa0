package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/avanderwijk/lotkeeper/internal/pricefeed"
)

// MockPriceFeed is a pricefeed.Client backed by a fixed symbol->price map.
// Symbols not in the map fail their quote, which is how tests exercise the
// "price unavailable" paths.
//
// Example usage:
//
//	feed := testutil.NewMockPriceFeed(map[string]float64{"AAPL": 150})
//	svc := testutil.NewTestPriceService(t, db, feed)
type MockPriceFeed struct {
	mu     sync.Mutex
	prices map[string]float64
	calls  int
}

// NewMockPriceFeed creates a mock feed serving the given prices.
func NewMockPriceFeed(prices map[string]float64) *MockPriceFeed {
	if prices == nil {
		prices = make(map[string]float64)
	}
	return &MockPriceFeed{prices: prices}
}

// Quote returns the configured price for a symbol or an error when absent.
func (m *MockPriceFeed) Quote(_ context.Context, symbol string) (pricefeed.Quote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	price, ok := m.prices[symbol]
	if !ok {
		return pricefeed.Quote{}, fmt.Errorf("no quote for %s", symbol)
	}

	return pricefeed.Quote{
		Symbol: symbol,
		Price:  price,
		AsOf:   time.Now().UTC(),
	}, nil
}

// SetPrice updates or adds a quoted price.
func (m *MockPriceFeed) SetPrice(symbol string, price float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prices[symbol] = price
}

// Calls reports how many quotes were requested.
func (m *MockPriceFeed) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
