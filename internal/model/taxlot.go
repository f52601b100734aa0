package model

import "time"

// TaxLot is a traceable slice of cost basis created by exactly one buy
// transaction. RemainingQuantity only decreases through sales against the
// lot and is restored only by reversing those exact sales; it never exceeds
// OriginalQuantity. Seq is a global insertion sequence used as the FIFO
// tie-break between lots purchased on the same date.
type TaxLot struct {
	ID                string    `json:"id"`
	Owner             string    `json:"owner"`
	AssetID           string    `json:"assetId"`
	TransactionID     string    `json:"transactionId"`
	Seq               int64     `json:"-"`
	OriginalQuantity  float64   `json:"originalQuantity"`
	RemainingQuantity float64   `json:"remainingQuantity"`
	CostBasisPerUnit  float64   `json:"costBasisPerUnit"`
	PurchaseDate      time.Time `json:"purchaseDate"`
	CreatedAt         time.Time `json:"createdAt,omitempty"`
}

// TaxLotResponse represents a tax lot with enriched asset data for API
// responses and reporting.
type TaxLotResponse struct {
	ID                string    `json:"id"`
	AssetID           string    `json:"assetId"`
	Symbol            string    `json:"symbol"`
	AssetClass        string    `json:"assetClass"`
	TransactionID     string    `json:"transactionId"`
	OriginalQuantity  float64   `json:"originalQuantity"`
	RemainingQuantity float64   `json:"remainingQuantity"`
	CostBasisPerUnit  float64   `json:"costBasisPerUnit"`
	PurchaseDate      time.Time `json:"purchaseDate"`
}
