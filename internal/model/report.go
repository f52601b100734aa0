package model

import "time"

// CostBasisGroup aggregates the live lots of one asset class.
type CostBasisGroup struct {
	AssetClass     string  `json:"assetClass"`
	Quantity       float64 `json:"quantity"`
	TotalCostBasis float64 `json:"totalCostBasis"`
	LotCount       int     `json:"lotCount"`
}

// CostBasisReport groups live lots (remaining > 0) by asset class,
// summing remaining quantity times cost basis per unit.
type CostBasisReport struct {
	Groups         []CostBasisGroup `json:"groups"`
	TotalCostBasis float64          `json:"totalCostBasis"`
}

// UnrealizedGainEntry is the per-lot view of the unrealized gains report.
// When no current price is available for the symbol the valuation fields
// are left at zero and PriceAvailable is false; the report as a whole
// still succeeds.
type UnrealizedGainEntry struct {
	LotID             string    `json:"lotId"`
	Symbol            string    `json:"symbol"`
	AssetClass        string    `json:"assetClass"`
	RemainingQuantity float64   `json:"remainingQuantity"`
	CostBasisPerUnit  float64   `json:"costBasisPerUnit"`
	CostBasis         float64   `json:"costBasis"`
	PurchaseDate      time.Time `json:"purchaseDate"`
	PriceAvailable    bool      `json:"priceAvailable"`
	CurrentPrice      float64   `json:"currentPrice,omitempty"`
	CurrentValue      float64   `json:"currentValue,omitempty"`
	UnrealizedGain    float64   `json:"unrealizedGain,omitempty"`
	WouldBeLongTerm   bool      `json:"wouldBeLongTerm"`
}

// UnrealizedGainsReport lists per-lot unrealized figures plus totals over
// the lots that could be priced.
type UnrealizedGainsReport struct {
	Entries             []UnrealizedGainEntry `json:"entries"`
	TotalCostBasis      float64               `json:"totalCostBasis"`
	TotalCurrentValue   float64               `json:"totalCurrentValue"`
	TotalUnrealizedGain float64               `json:"totalUnrealizedGain"`
	UnpricedLots        int                   `json:"unpricedLots"`
}

// TaxSummaryBucket sums one holding-period class of a tax year. Losses are
// stored as negative gains but reported here as a positive figure; Net is
// Gains minus Losses.
type TaxSummaryBucket struct {
	Gains  float64 `json:"gains"`
	Losses float64 `json:"losses"`
	Net    float64 `json:"net"`
}

// TaxSummaryAsset is the per-asset breakdown of a tax year.
type TaxSummaryAsset struct {
	Symbol       string  `json:"symbol"`
	AssetClass   string  `json:"assetClass"`
	ShortTermNet float64 `json:"shortTermNet"`
	LongTermNet  float64 `json:"longTermNet"`
	QuantitySold float64 `json:"quantitySold"`
}

// TaxSummary partitions the realized gains of one calendar year by the
// long-term flag, netting short-term and long-term independently.
type TaxSummary struct {
	Year      int               `json:"year"`
	ShortTerm TaxSummaryBucket  `json:"shortTerm"`
	LongTerm  TaxSummaryBucket  `json:"longTerm"`
	TotalNet  float64           `json:"totalNet"`
	PerAsset  []TaxSummaryAsset `json:"perAsset"`
}
