package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/avanderwijk/lotkeeper/internal/model"
	"github.com/google/uuid"
)

// MakeID generates a unique ID for test entities.
func MakeID() string {
	return uuid.New().String()
}

// AssetBuilder provides a fluent interface for creating test assets.
//
// Example usage:
//
//	// Simple creation with defaults
//	asset := testutil.NewAsset().Build(t, db)
//
//	// Customized asset
//	asset := testutil.NewAsset().
//	    WithSymbol("BTC").
//	    WithAssetClass("crypto").
//	    Build(t, db)
type AssetBuilder struct {
	ID         string
	Symbol     string
	AssetClass string
}

// NewAsset creates an AssetBuilder with sensible defaults.
func NewAsset() *AssetBuilder {
	return &AssetBuilder{
		ID:         MakeID(),
		Symbol:     "TEST",
		AssetClass: "stock",
	}
}

// WithID sets a custom ID.
func (b *AssetBuilder) WithID(id string) *AssetBuilder {
	b.ID = id
	return b
}

// WithSymbol sets a custom symbol.
func (b *AssetBuilder) WithSymbol(symbol string) *AssetBuilder {
	b.Symbol = symbol
	return b
}

// WithAssetClass sets a custom asset class.
func (b *AssetBuilder) WithAssetClass(assetClass string) *AssetBuilder {
	b.AssetClass = assetClass
	return b
}

// Build creates the asset in the database and returns it.
func (b *AssetBuilder) Build(t *testing.T, db *sql.DB) model.Asset {
	t.Helper()

	query := `
		INSERT INTO asset (id, symbol, asset_class)
		VALUES (?, ?, ?)
	`

	_, err := db.Exec(query, b.ID, b.Symbol, b.AssetClass)
	if err != nil {
		t.Fatalf("Failed to create test asset: %v", err)
	}

	return model.Asset{
		ID:         b.ID,
		Symbol:     b.Symbol,
		AssetClass: b.AssetClass,
	}
}

// CreateAsset creates an asset with the given symbol and default values.
//
// Example usage:
//
//	asset := testutil.CreateAsset(t, db, "AAPL")
func CreateAsset(t *testing.T, db *sql.DB, symbol string) model.Asset {
	t.Helper()
	return NewAsset().WithSymbol(symbol).Build(t, db)
}

// TransactionBuilder provides a fluent interface for creating test
// transactions directly in the database, bypassing the ledger service.
// Use the ledger service itself when the test needs lot/gain side effects.
type TransactionBuilder struct {
	ID           string
	Owner        string
	AssetID      string
	Type         string
	Quantity     float64
	PricePerUnit float64
	Fees         float64
	TotalAmount  float64
	Date         time.Time
	Notes        string
}

// NewTransaction creates a TransactionBuilder with sensible defaults.
func NewTransaction(owner, assetID string) *TransactionBuilder {
	return &TransactionBuilder{
		ID:           MakeID(),
		Owner:        owner,
		AssetID:      assetID,
		Type:         model.TransactionTypeBuy,
		Quantity:     10,
		PricePerUnit: 100,
		Fees:         0,
		TotalAmount:  1000,
		Date:         time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// WithType sets the transaction type.
func (b *TransactionBuilder) WithType(txType string) *TransactionBuilder {
	b.Type = txType
	return b
}

// WithQuantity sets the quantity.
func (b *TransactionBuilder) WithQuantity(quantity float64) *TransactionBuilder {
	b.Quantity = quantity
	return b
}

// WithPrice sets the price per unit.
func (b *TransactionBuilder) WithPrice(price float64) *TransactionBuilder {
	b.PricePerUnit = price
	return b
}

// WithDate sets the transaction date.
func (b *TransactionBuilder) WithDate(date time.Time) *TransactionBuilder {
	b.Date = date
	return b
}

// Build creates the transaction in the database and returns it.
func (b *TransactionBuilder) Build(t *testing.T, db *sql.DB) model.Transaction {
	t.Helper()

	query := `
		INSERT INTO "transaction" (id, owner, asset_id, type, quantity, price_per_unit, fees, total_amount, date, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query,
		b.ID, b.Owner, b.AssetID, b.Type, b.Quantity, b.PricePerUnit,
		b.Fees, b.TotalAmount, b.Date.Format("2006-01-02"), b.Notes,
	)
	if err != nil {
		t.Fatalf("Failed to create test transaction: %v", err)
	}

	return model.Transaction{
		ID:           b.ID,
		Owner:        b.Owner,
		AssetID:      b.AssetID,
		Type:         b.Type,
		Quantity:     b.Quantity,
		PricePerUnit: b.PricePerUnit,
		Fees:         b.Fees,
		TotalAmount:  b.TotalAmount,
		Date:         b.Date,
		Notes:        b.Notes,
	}
}

// TaxLotBuilder provides a fluent interface for creating test tax lots,
// including the owning buy transaction required by the schema.
type TaxLotBuilder struct {
	ID               string
	Owner            string
	AssetID          string
	Quantity         float64
	Remaining        float64
	CostBasisPerUnit float64
	PurchaseDate     time.Time
}

// NewTaxLot creates a TaxLotBuilder with sensible defaults.
func NewTaxLot(owner, assetID string) *TaxLotBuilder {
	return &TaxLotBuilder{
		ID:               MakeID(),
		Owner:            owner,
		AssetID:          assetID,
		Quantity:         10,
		Remaining:        10,
		CostBasisPerUnit: 100,
		PurchaseDate:     time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// WithQuantity sets both original and remaining quantity.
func (b *TaxLotBuilder) WithQuantity(quantity float64) *TaxLotBuilder {
	b.Quantity = quantity
	b.Remaining = quantity
	return b
}

// WithRemaining sets the remaining quantity only.
func (b *TaxLotBuilder) WithRemaining(remaining float64) *TaxLotBuilder {
	b.Remaining = remaining
	return b
}

// WithCostBasis sets the cost basis per unit.
func (b *TaxLotBuilder) WithCostBasis(costBasis float64) *TaxLotBuilder {
	b.CostBasisPerUnit = costBasis
	return b
}

// WithPurchaseDate sets the purchase date.
func (b *TaxLotBuilder) WithPurchaseDate(date time.Time) *TaxLotBuilder {
	b.PurchaseDate = date
	return b
}

// Build creates the lot and its owning buy transaction in the database.
func (b *TaxLotBuilder) Build(t *testing.T, db *sql.DB) model.TaxLot {
	t.Helper()

	transaction := NewTransaction(b.Owner, b.AssetID).
		WithQuantity(b.Quantity).
		WithPrice(b.CostBasisPerUnit).
		WithDate(b.PurchaseDate).
		Build(t, db)

	query := `
		INSERT INTO tax_lot (id, owner, asset_id, transaction_id, seq, original_quantity,
			remaining_quantity, cost_basis_per_unit, purchase_date)
		VALUES (?, ?, ?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM tax_lot), ?, ?, ?, ?)
	`

	_, err := db.Exec(query,
		b.ID, b.Owner, b.AssetID, transaction.ID, b.Quantity, b.Remaining,
		b.CostBasisPerUnit, b.PurchaseDate.Format("2006-01-02"),
	)
	if err != nil {
		t.Fatalf("Failed to create test tax lot: %v", err)
	}

	return model.TaxLot{
		ID:                b.ID,
		Owner:             b.Owner,
		AssetID:           b.AssetID,
		TransactionID:     transaction.ID,
		OriginalQuantity:  b.Quantity,
		RemainingQuantity: b.Remaining,
		CostBasisPerUnit:  b.CostBasisPerUnit,
		PurchaseDate:      b.PurchaseDate,
	}
}

// RealizedGainBuilder provides a fluent interface for creating test realized
// gains tied to an existing sell transaction and lot.
type RealizedGainBuilder struct {
	ID            string
	Owner         string
	TransactionID string
	TaxLotID      string
	AssetID       string
	QuantitySold  float64
	CostBasis     float64
	Proceeds      float64
	HoldingDays   int
	IsLongTerm    bool
	SaleDate      time.Time
}

// NewRealizedGain creates a RealizedGainBuilder with sensible defaults.
func NewRealizedGain(owner, transactionID, lotID, assetID string) *RealizedGainBuilder {
	return &RealizedGainBuilder{
		ID:            MakeID(),
		Owner:         owner,
		TransactionID: transactionID,
		TaxLotID:      lotID,
		AssetID:       assetID,
		QuantitySold:  5,
		CostBasis:     500,
		Proceeds:      750,
		HoldingDays:   400,
		IsLongTerm:    true,
		SaleDate:      time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
	}
}

// WithAmounts sets quantity, cost basis, and proceeds.
func (b *RealizedGainBuilder) WithAmounts(quantity, costBasis, proceeds float64) *RealizedGainBuilder {
	b.QuantitySold = quantity
	b.CostBasis = costBasis
	b.Proceeds = proceeds
	return b
}

// WithHolding sets holding days and the long-term flag.
func (b *RealizedGainBuilder) WithHolding(days int, longTerm bool) *RealizedGainBuilder {
	b.HoldingDays = days
	b.IsLongTerm = longTerm
	return b
}

// WithSaleDate sets the sale date.
func (b *RealizedGainBuilder) WithSaleDate(date time.Time) *RealizedGainBuilder {
	b.SaleDate = date
	return b
}

// Build creates the realized gain in the database and returns it.
func (b *RealizedGainBuilder) Build(t *testing.T, db *sql.DB) model.RealizedGain {
	t.Helper()

	query := `
		INSERT INTO realized_gain (id, owner, transaction_id, tax_lot_id, asset_id,
			quantity_sold, cost_basis, proceeds, gain_loss, holding_days, is_long_term, sale_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	gainLoss := b.Proceeds - b.CostBasis
	_, err := db.Exec(query,
		b.ID, b.Owner, b.TransactionID, b.TaxLotID, b.AssetID,
		b.QuantitySold, b.CostBasis, b.Proceeds, gainLoss,
		b.HoldingDays, b.IsLongTerm, b.SaleDate.Format("2006-01-02"),
	)
	if err != nil {
		t.Fatalf("Failed to create test realized gain: %v", err)
	}

	return model.RealizedGain{
		ID:            b.ID,
		Owner:         b.Owner,
		TransactionID: b.TransactionID,
		TaxLotID:      b.TaxLotID,
		AssetID:       b.AssetID,
		QuantitySold:  b.QuantitySold,
		CostBasis:     b.CostBasis,
		Proceeds:      b.Proceeds,
		GainLoss:      gainLoss,
		HoldingDays:   b.HoldingDays,
		IsLongTerm:    b.IsLongTerm,
		SaleDate:      b.SaleDate,
	}
}
