package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/avanderwijk/lotkeeper/internal/apperrors"
	"github.com/avanderwijk/lotkeeper/internal/repository"
	"github.com/avanderwijk/lotkeeper/internal/testutil"
)

const testOwner = "owner-1"

// TestTaxLotRepository_GetOpenLots tests FIFO ordering from storage.
//
// WHY: Settlement trusts the repository to hand lots over in FIFO order.
// Same-day purchases must come back in insertion order, older dates first,
// and drained lots must not come back at all.
func TestTaxLotRepository_GetOpenLots(t *testing.T) {
	t.Run("orders by purchase date then insertion sequence", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		repo := repository.NewTaxLotRepository(db)

		asset := testutil.CreateAsset(t, db, "AAPL")
		sameDay := time.Date(2023, time.March, 15, 0, 0, 0, 0, time.UTC)

		// Inserted newest date first to prove ordering comes from the query.
		newer := testutil.NewTaxLot(testOwner, asset.ID).
			WithPurchaseDate(time.Date(2023, time.June, 1, 0, 0, 0, 0, time.UTC)).Build(t, db)
		firstSameDay := testutil.NewTaxLot(testOwner, asset.ID).
			WithPurchaseDate(sameDay).Build(t, db)
		secondSameDay := testutil.NewTaxLot(testOwner, asset.ID).
			WithPurchaseDate(sameDay).Build(t, db)

		// Execute
		lots, err := repo.GetOpenLots(testOwner, asset.ID)

		// Assert
		if err != nil {
			t.Fatalf("GetOpenLots() returned unexpected error: %v", err)
		}
		if len(lots) != 3 {
			t.Fatalf("Expected 3 lots, got %d", len(lots))
		}
		if lots[0].ID != firstSameDay.ID || lots[1].ID != secondSameDay.ID {
			t.Error("Expected same-day lots ordered by insertion sequence")
		}
		if lots[2].ID != newer.ID {
			t.Error("Expected the later purchase last")
		}
	})

	t.Run("excludes drained lots and other owners", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		repo := repository.NewTaxLotRepository(db)

		asset := testutil.CreateAsset(t, db, "AAPL")
		open := testutil.NewTaxLot(testOwner, asset.ID).WithQuantity(10).Build(t, db)
		testutil.NewTaxLot(testOwner, asset.ID).WithQuantity(5).WithRemaining(0).Build(t, db)
		testutil.NewTaxLot("owner-2", asset.ID).WithQuantity(7).Build(t, db)

		// Execute
		lots, err := repo.GetOpenLots(testOwner, asset.ID)

		// Assert
		if err != nil {
			t.Fatalf("GetOpenLots() returned unexpected error: %v", err)
		}
		if len(lots) != 1 || lots[0].ID != open.ID {
			t.Errorf("Expected only the owner's open lot, got %d lots", len(lots))
		}
	})
}

// TestTaxLotRepository_RestoreQuantity tests the reversal restore cap.
//
// WHY: Restoring a reversed sale adds quantity back to a lot, but the lot
// must never hold more than the buy put in, even if a restore is replayed.
func TestTaxLotRepository_RestoreQuantity(t *testing.T) {
	// Setup
	db := testutil.SetupTestDB(t)
	repo := repository.NewTaxLotRepository(db)
	ctx := context.Background()

	asset := testutil.CreateAsset(t, db, "AAPL")
	lot := testutil.NewTaxLot(testOwner, asset.ID).WithQuantity(10).WithRemaining(4).Build(t, db)

	t.Run("restores drained quantity", func(t *testing.T) {
		if err := repo.RestoreQuantity(ctx, lot.ID, 6); err != nil {
			t.Fatalf("RestoreQuantity() returned unexpected error: %v", err)
		}

		got, err := repo.GetByTransactionID(testOwner, lot.TransactionID)
		if err != nil {
			t.Fatalf("Failed to reload lot: %v", err)
		}
		if got.RemainingQuantity != 10 {
			t.Errorf("Expected remaining restored to 10, got %f", got.RemainingQuantity)
		}
	})

	t.Run("never exceeds the original quantity", func(t *testing.T) {
		if err := repo.RestoreQuantity(ctx, lot.ID, 6); err != nil {
			t.Fatalf("RestoreQuantity() returned unexpected error: %v", err)
		}

		got, err := repo.GetByTransactionID(testOwner, lot.TransactionID)
		if err != nil {
			t.Fatalf("Failed to reload lot: %v", err)
		}
		if got.RemainingQuantity != 10 {
			t.Errorf("Expected remaining capped at 10, got %f", got.RemainingQuantity)
		}
	})
}

// TestTaxLotRepository_GetByTransactionID tests the buy-to-lot lookup.
//
// WHY: Buy reversal starts from the transaction and needs its lot; a buy
// whose lot is gone must surface as not found, not as a zero-value lot.
func TestTaxLotRepository_GetByTransactionID(t *testing.T) {
	// Setup
	db := testutil.SetupTestDB(t)
	repo := repository.NewTaxLotRepository(db)

	asset := testutil.CreateAsset(t, db, "AAPL")
	lot := testutil.NewTaxLot(testOwner, asset.ID).Build(t, db)

	t.Run("finds the lot by its buy transaction", func(t *testing.T) {
		got, err := repo.GetByTransactionID(testOwner, lot.TransactionID)
		if err != nil {
			t.Fatalf("GetByTransactionID() returned unexpected error: %v", err)
		}
		if got.ID != lot.ID {
			t.Errorf("Expected lot %s, got %s", lot.ID, got.ID)
		}
	})

	t.Run("unknown transaction is not found", func(t *testing.T) {
		_, err := repo.GetByTransactionID(testOwner, testutil.MakeID())
		if !errors.Is(err, apperrors.ErrTaxLotNotFound) {
			t.Errorf("Expected ErrTaxLotNotFound, got %v", err)
		}
	})
}
