package testutil

import (
	"database/sql"
	"testing"

	"github.com/avanderwijk/lotkeeper/internal/pricefeed"
	"github.com/avanderwijk/lotkeeper/internal/repository"
	"github.com/avanderwijk/lotkeeper/internal/service"
)

func NewTestAssetService(t *testing.T, db *sql.DB) *service.AssetService {
	t.Helper()

	return service.NewAssetService(repository.NewAssetRepository(db))
}

func NewTestLedgerService(t *testing.T, db *sql.DB) *service.LedgerService {
	t.Helper()

	return service.NewLedgerService(
		db,
		NewTestAssetService(t, db),
		repository.NewTransactionRepository(db),
		repository.NewTaxLotRepository(db),
		repository.NewRealizedGainRepository(db),
	)
}

func NewTestReportingService(t *testing.T, db *sql.DB) *service.ReportingService {
	t.Helper()

	return service.NewReportingService(
		repository.NewTaxLotRepository(db),
		repository.NewRealizedGainRepository(db),
	)
}

// NewTestPriceService creates a PriceService backed by the given feed client,
// typically a MockPriceFeed, so tests never hit a real quote API.
func NewTestPriceService(t *testing.T, db *sql.DB, feed pricefeed.Client) *service.PriceService {
	t.Helper()

	return service.NewPriceService(
		repository.NewAssetRepository(db),
		repository.NewPriceRepository(db),
		feed,
	)
}

func NewTestSystemService(t *testing.T, db *sql.DB, fernetKey string) *service.SystemService {
	t.Helper()

	svc, err := service.NewSystemService(db, repository.NewSettingRepository(db), fernetKey)
	if err != nil {
		t.Fatalf("Failed to create system service: %v", err)
	}
	return svc
}
