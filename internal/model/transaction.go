package model

import "time"

// Transaction types
const (
	TransactionTypeBuy  = "buy"
	TransactionTypeSell = "sell"
)

// Transaction represents an immutable buy or sell event in the ledger.
// A buy owns exactly one tax lot; a sell owns one realized gain per lot
// it drew from. Transactions are only removed through a reversal.
type Transaction struct {
	ID           string    `json:"id"`
	Owner        string    `json:"owner"`
	AssetID      string    `json:"assetId"`
	Type         string    `json:"type"`
	Quantity     float64   `json:"quantity"`
	PricePerUnit float64   `json:"pricePerUnit"`
	Fees         float64   `json:"fees"`
	TotalAmount  float64   `json:"totalAmount"`
	Date         time.Time `json:"date"`
	Notes        string    `json:"notes,omitempty"`
	CreatedAt    time.Time `json:"createdAt,omitempty"`
}

// TransactionResponse represents a transaction with enriched asset data
// for API responses.
type TransactionResponse struct {
	ID           string    `json:"id"`
	AssetID      string    `json:"assetId"`
	Symbol       string    `json:"symbol"`
	AssetClass   string    `json:"assetClass"`
	Type         string    `json:"type"`
	Quantity     float64   `json:"quantity"`
	PricePerUnit float64   `json:"pricePerUnit"`
	Fees         float64   `json:"fees"`
	TotalAmount  float64   `json:"totalAmount"`
	Date         time.Time `json:"date"`
	Notes        string    `json:"notes,omitempty"`
	CreatedAt    time.Time `json:"createdAt,omitempty"`
}

// LedgerEntry is the result of recording a transaction: the transaction
// itself plus the lot it opened (buy) or the gains it realized (sell).
type LedgerEntry struct {
	Transaction   *Transaction   `json:"transaction"`
	TaxLot        *TaxLot        `json:"taxLot,omitempty"`
	RealizedGains []RealizedGain `json:"realizedGains,omitempty"`
}
