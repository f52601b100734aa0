package service_test

import (
	"context"
	"testing"

	"github.com/avanderwijk/lotkeeper/internal/testutil"
)

// TestPriceService_RefreshAll tests the scheduled cache refresh.
//
// WHY: The refresh runs unattended on a schedule. One symbol the feed cannot
// quote must not abort the run; every quotable symbol still lands in the
// cache.
func TestPriceService_RefreshAll(t *testing.T) {
	// Setup
	db := testutil.SetupTestDB(t)
	testutil.CreateAsset(t, db, "AAPL")
	testutil.CreateAsset(t, db, "OBSC")

	feed := testutil.NewMockPriceFeed(map[string]float64{"AAPL": 150})
	svc := testutil.NewTestPriceService(t, db, feed)

	// Execute
	err := svc.RefreshAll(context.Background())

	// Assert
	if err != nil {
		t.Fatalf("RefreshAll() returned unexpected error: %v", err)
	}
	if feed.Calls() != 2 {
		t.Errorf("Expected a quote attempt per asset, got %d", feed.Calls())
	}
	testutil.AssertRowCount(t, db, "asset_price", 1)

	var price float64
	if err := db.QueryRow(`SELECT price FROM asset_price WHERE symbol = 'AAPL'`).Scan(&price); err != nil {
		t.Fatalf("Failed to read cached price: %v", err)
	}
	if price != 150 {
		t.Errorf("Expected cached price 150, got %f", price)
	}
}

// TestPriceService_RefreshAll_Upsert tests refresh overwriting stale prices.
//
// WHY: The cache keeps one row per asset. A second refresh must update the
// existing row in place, never stack a second price for the same asset.
func TestPriceService_RefreshAll_Upsert(t *testing.T) {
	// Setup
	db := testutil.SetupTestDB(t)
	testutil.CreateAsset(t, db, "AAPL")

	feed := testutil.NewMockPriceFeed(map[string]float64{"AAPL": 150})
	svc := testutil.NewTestPriceService(t, db, feed)
	ctx := context.Background()

	if err := svc.RefreshAll(ctx); err != nil {
		t.Fatalf("First refresh failed: %v", err)
	}

	// Execute
	feed.SetPrice("AAPL", 160)
	if err := svc.RefreshAll(ctx); err != nil {
		t.Fatalf("Second refresh failed: %v", err)
	}

	// Assert
	testutil.AssertRowCount(t, db, "asset_price", 1)

	var price float64
	if err := db.QueryRow(`SELECT price FROM asset_price WHERE symbol = 'AAPL'`).Scan(&price); err != nil {
		t.Fatalf("Failed to read cached price: %v", err)
	}
	if price != 160 {
		t.Errorf("Expected refreshed price 160, got %f", price)
	}
}

// TestPriceService_CurrentPrices tests live quotes with cached fallback.
//
// WHY: Reports prefer a live quote but fall back to the cache when the feed
// cannot answer, and omit symbols with neither so the reporting layer can
// mark those lots unpriced instead of valuing them at zero.
func TestPriceService_CurrentPrices(t *testing.T) {
	t.Run("live quote wins over the cached price", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		testutil.CreateAsset(t, db, "AAPL")

		feed := testutil.NewMockPriceFeed(map[string]float64{"AAPL": 150})
		svc := testutil.NewTestPriceService(t, db, feed)
		ctx := context.Background()

		if err := svc.RefreshAll(ctx); err != nil {
			t.Fatalf("Refresh failed: %v", err)
		}
		feed.SetPrice("AAPL", 160)

		// Execute
		prices, err := svc.CurrentPrices(ctx, []string{"AAPL"})

		// Assert
		if err != nil {
			t.Fatalf("CurrentPrices() returned unexpected error: %v", err)
		}
		if prices["AAPL"] != 160 {
			t.Errorf("Expected the live quote 160, got %f", prices["AAPL"])
		}
	})

	t.Run("cached price stands in when the feed fails", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		testutil.CreateAsset(t, db, "AAPL")

		quotable := testutil.NewMockPriceFeed(map[string]float64{"AAPL": 150})
		if err := testutil.NewTestPriceService(t, db, quotable).RefreshAll(context.Background()); err != nil {
			t.Fatalf("Refresh failed: %v", err)
		}

		// A feed that cannot quote anything anymore.
		dead := testutil.NewMockPriceFeed(nil)
		svc := testutil.NewTestPriceService(t, db, dead)

		// Execute
		prices, err := svc.CurrentPrices(context.Background(), []string{"AAPL"})

		// Assert
		if err != nil {
			t.Fatalf("CurrentPrices() returned unexpected error: %v", err)
		}
		if prices["AAPL"] != 150 {
			t.Errorf("Expected the cached price 150, got %f", prices["AAPL"])
		}
	})

	t.Run("symbols with neither quote nor cache are omitted", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		feed := testutil.NewMockPriceFeed(nil)
		svc := testutil.NewTestPriceService(t, db, feed)

		// Execute
		prices, err := svc.CurrentPrices(context.Background(), []string{"GHOST"})

		// Assert
		if err != nil {
			t.Fatalf("CurrentPrices() returned unexpected error: %v", err)
		}
		if _, ok := prices["GHOST"]; ok {
			t.Error("Expected an unquotable, uncached symbol to be absent")
		}
	})
}
