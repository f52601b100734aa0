package request

// CreateTransactionRequest is the payload for recording a buy or sell event.
type CreateTransactionRequest struct {
	Symbol       string  `json:"symbol"`
	AssetClass   string  `json:"assetClass"`
	Type         string  `json:"type"`
	Quantity     float64 `json:"quantity"`
	PricePerUnit float64 `json:"pricePerUnit"`
	Fees         float64 `json:"fees"`
	Date         string  `json:"date"`
	Notes        string  `json:"notes"`
}
