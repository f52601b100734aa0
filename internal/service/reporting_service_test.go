package service_test

import (
	"math"
	"testing"
	"time"

	"github.com/avanderwijk/lotkeeper/internal/model"
	"github.com/avanderwijk/lotkeeper/internal/testutil"
)

// TestReportingService_CostBasisReport tests cost-basis aggregation by class.
//
// WHY: The cost-basis report drives allocation decisions. Lots must group by
// asset class with exhausted lots excluded, and the per-group and overall
// totals must reflect remaining quantity times per-unit basis.
func TestReportingService_CostBasisReport(t *testing.T) {
	t.Run("empty ledger yields an empty report", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestReportingService(t, db)

		// Execute
		report, err := svc.CostBasisReport(testOwner)

		// Assert
		if err != nil {
			t.Fatalf("CostBasisReport() returned unexpected error: %v", err)
		}
		if len(report.Groups) != 0 {
			t.Errorf("Expected no groups, got %d", len(report.Groups))
		}
		if report.TotalCostBasis != 0 {
			t.Errorf("Expected zero total, got %f", report.TotalCostBasis)
		}
	})

	t.Run("groups live lots by asset class and skips exhausted lots", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestReportingService(t, db)

		stock := testutil.NewAsset().WithSymbol("AAPL").WithAssetClass("stock").Build(t, db)
		etf := testutil.NewAsset().WithSymbol("VTI").WithAssetClass("etf").Build(t, db)

		testutil.NewTaxLot(testOwner, stock.ID).WithQuantity(10).WithCostBasis(100).Build(t, db)
		testutil.NewTaxLot(testOwner, stock.ID).WithQuantity(5).WithCostBasis(120).Build(t, db)
		testutil.NewTaxLot(testOwner, etf.ID).WithQuantity(8).WithCostBasis(200).Build(t, db)
		// Exhausted lot must not appear anywhere in the report.
		testutil.NewTaxLot(testOwner, stock.ID).WithQuantity(4).WithRemaining(0).Build(t, db)

		// Execute
		report, err := svc.CostBasisReport(testOwner)

		// Assert
		if err != nil {
			t.Fatalf("CostBasisReport() returned unexpected error: %v", err)
		}
		if len(report.Groups) != 2 {
			t.Fatalf("Expected 2 groups, got %d", len(report.Groups))
		}

		// Groups sort alphabetically by class.
		etfGroup, stockGroup := report.Groups[0], report.Groups[1]
		if etfGroup.AssetClass != "etf" || stockGroup.AssetClass != "stock" {
			t.Fatalf("Expected groups [etf, stock], got [%s, %s]",
				etfGroup.AssetClass, stockGroup.AssetClass)
		}

		if etfGroup.TotalCostBasis != 1600 || etfGroup.LotCount != 1 {
			t.Errorf("Expected etf basis 1600 over 1 lot, got %f over %d",
				etfGroup.TotalCostBasis, etfGroup.LotCount)
		}
		if stockGroup.TotalCostBasis != 1600 || stockGroup.LotCount != 2 {
			t.Errorf("Expected stock basis 1600 over 2 lots, got %f over %d",
				stockGroup.TotalCostBasis, stockGroup.LotCount)
		}
		if stockGroup.Quantity != 15 {
			t.Errorf("Expected stock quantity 15, got %f", stockGroup.Quantity)
		}
		if report.TotalCostBasis != 3200 {
			t.Errorf("Expected overall basis 3200, got %f", report.TotalCostBasis)
		}
	})

	t.Run("scoped to the requesting owner", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestReportingService(t, db)

		asset := testutil.CreateAsset(t, db, "AAPL")
		testutil.NewTaxLot(testOwner, asset.ID).WithQuantity(10).Build(t, db)
		testutil.NewTaxLot("owner-2", asset.ID).WithQuantity(50).Build(t, db)

		// Execute
		report, err := svc.CostBasisReport(testOwner)

		// Assert
		if err != nil {
			t.Fatalf("CostBasisReport() returned unexpected error: %v", err)
		}
		if report.TotalCostBasis != 1000 {
			t.Errorf("Expected only the owner's 1000 basis, got %f", report.TotalCostBasis)
		}
	})
}

// TestReportingService_UnrealizedGains tests valuation against current prices.
//
// WHY: The unrealized report tolerates missing prices: an unpriced lot is
// listed and counted rather than failing the whole report, and the totals
// cover only the lots a price exists for.
func TestReportingService_UnrealizedGains(t *testing.T) {
	t.Run("values priced lots and counts unpriced ones", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestReportingService(t, db)

		apple := testutil.NewAsset().WithSymbol("AAPL").Build(t, db)
		obscure := testutil.NewAsset().WithSymbol("OBSC").Build(t, db)

		testutil.NewTaxLot(testOwner, apple.ID).WithQuantity(10).WithCostBasis(100).Build(t, db)
		testutil.NewTaxLot(testOwner, obscure.ID).WithQuantity(5).WithCostBasis(40).Build(t, db)

		// Execute
		report, err := svc.UnrealizedGains(testOwner, map[string]float64{"AAPL": 150})

		// Assert
		if err != nil {
			t.Fatalf("UnrealizedGains() returned unexpected error: %v", err)
		}
		if len(report.Entries) != 2 {
			t.Fatalf("Expected both lots listed, got %d entries", len(report.Entries))
		}
		if report.UnpricedLots != 1 {
			t.Errorf("Expected 1 unpriced lot, got %d", report.UnpricedLots)
		}

		var priced, unpriced *model.UnrealizedGainEntry
		for i := range report.Entries {
			if report.Entries[i].Symbol == "AAPL" {
				priced = &report.Entries[i]
			} else {
				unpriced = &report.Entries[i]
			}
		}

		if priced == nil || !priced.PriceAvailable {
			t.Fatal("Expected the AAPL lot to be priced")
		}
		if priced.CurrentValue != 1500 {
			t.Errorf("Expected current value 1500, got %f", priced.CurrentValue)
		}
		if math.Abs(priced.UnrealizedGain-500) > 1e-9 {
			t.Errorf("Expected unrealized gain 500, got %f", priced.UnrealizedGain)
		}

		if unpriced == nil || unpriced.PriceAvailable {
			t.Fatal("Expected the OBSC lot to be unpriced")
		}

		// Totals cover priced lots only.
		if report.TotalCostBasis != 1000 {
			t.Errorf("Expected total basis 1000 over priced lots, got %f", report.TotalCostBasis)
		}
		if report.TotalCurrentValue != 1500 {
			t.Errorf("Expected total value 1500, got %f", report.TotalCurrentValue)
		}
	})

	t.Run("classifies holdings as if sold today", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestReportingService(t, db)

		asset := testutil.CreateAsset(t, db, "AAPL")
		now := time.Now().UTC()
		testutil.NewTaxLot(testOwner, asset.ID).
			WithPurchaseDate(now.AddDate(-2, 0, 0)).Build(t, db)
		testutil.NewTaxLot(testOwner, asset.ID).
			WithPurchaseDate(now.AddDate(0, -1, 0)).Build(t, db)

		// Execute
		report, err := svc.UnrealizedGains(testOwner, map[string]float64{"AAPL": 150})

		// Assert
		if err != nil {
			t.Fatalf("UnrealizedGains() returned unexpected error: %v", err)
		}
		if len(report.Entries) != 2 {
			t.Fatalf("Expected 2 entries, got %d", len(report.Entries))
		}
		if !report.Entries[0].WouldBeLongTerm {
			t.Error("Expected the two-year-old lot to be long-term if sold today")
		}
		if report.Entries[1].WouldBeLongTerm {
			t.Error("Expected the month-old lot to be short-term if sold today")
		}
	})
}

// TestReportingService_TaxSummary tests the annual short/long partition.
//
// WHY: Tax filing needs gains and losses totaled separately inside each
// holding-period bucket, with each bucket netting on its own before the
// overall net. Gains outside the requested year must not leak in.
func TestReportingService_TaxSummary(t *testing.T) {
	// Setup
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestReportingService(t, db)

	asset := testutil.CreateAsset(t, db, "AAPL")
	lot := testutil.NewTaxLot(testOwner, asset.ID).WithQuantity(100).Build(t, db)
	sell := testutil.NewTransaction(testOwner, asset.ID).
		WithType(model.TransactionTypeSell).Build(t, db)

	in2024 := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	testutil.NewRealizedGain(testOwner, sell.ID, lot.ID, asset.ID).
		WithAmounts(10, 1005, 1500).
		WithHolding(400, true).
		WithSaleDate(in2024).Build(t, db)
	testutil.NewRealizedGain(testOwner, sell.ID, lot.ID, asset.ID).
		WithAmounts(2, 300, 240).
		WithHolding(120, false).
		WithSaleDate(in2024).Build(t, db)
	testutil.NewRealizedGain(testOwner, sell.ID, lot.ID, asset.ID).
		WithAmounts(5, 500, 650).
		WithHolding(90, false).
		WithSaleDate(in2024).Build(t, db)
	// A prior-year gain must stay out of the 2024 summary.
	testutil.NewRealizedGain(testOwner, sell.ID, lot.ID, asset.ID).
		WithAmounts(1, 100, 900).
		WithHolding(500, true).
		WithSaleDate(time.Date(2023, time.December, 31, 0, 0, 0, 0, time.UTC)).Build(t, db)

	// Execute
	summary, err := svc.TaxSummary(testOwner, 2024)

	// Assert
	if err != nil {
		t.Fatalf("TaxSummary() returned unexpected error: %v", err)
	}

	if summary.Year != 2024 {
		t.Errorf("Expected year 2024, got %d", summary.Year)
	}

	if summary.LongTerm.Gains != 495 || summary.LongTerm.Losses != 0 {
		t.Errorf("Expected long-term gains 495 and losses 0, got %f and %f",
			summary.LongTerm.Gains, summary.LongTerm.Losses)
	}
	if summary.LongTerm.Net != 495 {
		t.Errorf("Expected long-term net 495, got %f", summary.LongTerm.Net)
	}

	if summary.ShortTerm.Gains != 150 || summary.ShortTerm.Losses != 60 {
		t.Errorf("Expected short-term gains 150 and losses 60, got %f and %f",
			summary.ShortTerm.Gains, summary.ShortTerm.Losses)
	}
	if summary.ShortTerm.Net != 90 {
		t.Errorf("Expected short-term net 90, got %f", summary.ShortTerm.Net)
	}

	if summary.TotalNet != 585 {
		t.Errorf("Expected total net 585, got %f", summary.TotalNet)
	}

	if len(summary.PerAsset) != 1 {
		t.Fatalf("Expected 1 per-asset row, got %d", len(summary.PerAsset))
	}
	perAsset := summary.PerAsset[0]
	if perAsset.Symbol != "AAPL" {
		t.Errorf("Expected per-asset symbol AAPL, got %s", perAsset.Symbol)
	}
	if perAsset.LongTermNet != 495 || perAsset.ShortTermNet != 90 {
		t.Errorf("Expected per-asset nets 495/90, got %f/%f",
			perAsset.LongTermNet, perAsset.ShortTermNet)
	}
	if perAsset.QuantitySold != 17 {
		t.Errorf("Expected 17 units sold in 2024, got %f", perAsset.QuantitySold)
	}
}

// TestReportingService_TaxLots tests the lot listing filter.
//
// WHY: The lot listing backs both reporting and the API; the exhausted
// filter decides whether drained history appears.
func TestReportingService_TaxLots(t *testing.T) {
	// Setup
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestReportingService(t, db)

	asset := testutil.CreateAsset(t, db, "AAPL")
	testutil.NewTaxLot(testOwner, asset.ID).WithQuantity(10).Build(t, db)
	testutil.NewTaxLot(testOwner, asset.ID).WithQuantity(5).WithRemaining(0).Build(t, db)

	// Execute
	live, err := svc.TaxLots(testOwner, false)
	if err != nil {
		t.Fatalf("TaxLots() returned unexpected error: %v", err)
	}
	all, err := svc.TaxLots(testOwner, true)
	if err != nil {
		t.Fatalf("TaxLots() returned unexpected error: %v", err)
	}

	// Assert
	if len(live) != 1 {
		t.Errorf("Expected 1 live lot, got %d", len(live))
	}
	if len(all) != 2 {
		t.Errorf("Expected 2 lots including exhausted, got %d", len(all))
	}
}
