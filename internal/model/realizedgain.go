package model

import "time"

// RealizedGain is one sale-against-one-lot settlement record. A sell that
// draws from three lots emits three rows; their QuantitySold values sum to
// the sell transaction's quantity.
type RealizedGain struct {
	ID            string    `json:"id"`
	Owner         string    `json:"owner"`
	TransactionID string    `json:"transactionId"`
	TaxLotID      string    `json:"taxLotId"`
	AssetID       string    `json:"assetId"`
	QuantitySold  float64   `json:"quantitySold"`
	CostBasis     float64   `json:"costBasis"`
	Proceeds      float64   `json:"proceeds"`
	GainLoss      float64   `json:"gainLoss"`
	HoldingDays   int       `json:"holdingDays"`
	IsLongTerm    bool      `json:"isLongTerm"`
	SaleDate      time.Time `json:"saleDate"`
	CreatedAt     time.Time `json:"createdAt,omitempty"`
}

// RealizedGainResponse represents a realized gain with enriched asset data.
type RealizedGainResponse struct {
	ID            string    `json:"id"`
	TransactionID string    `json:"transactionId"`
	TaxLotID      string    `json:"taxLotId"`
	Symbol        string    `json:"symbol"`
	AssetClass    string    `json:"assetClass"`
	QuantitySold  float64   `json:"quantitySold"`
	CostBasis     float64   `json:"costBasis"`
	Proceeds      float64   `json:"proceeds"`
	GainLoss      float64   `json:"gainLoss"`
	HoldingDays   int       `json:"holdingDays"`
	IsLongTerm    bool      `json:"isLongTerm"`
	SaleDate      time.Time `json:"saleDate"`
}
