package model

import "time"

// Asset represents a tradable asset from the database.
// An asset is uniquely identified by its (symbol, assetClass) pair.
type Asset struct {
	ID         string    `json:"id"`
	Symbol     string    `json:"symbol"`
	AssetClass string    `json:"assetClass"`
	CreatedAt  time.Time `json:"createdAt,omitempty"`
}

// AssetPrice is a cached market price for an asset, refreshed on a schedule.
type AssetPrice struct {
	ID        string    `json:"id"`
	AssetID   string    `json:"assetId"`
	Symbol    string    `json:"symbol"`
	Price     float64   `json:"price"`
	FetchedAt time.Time `json:"fetchedAt"`
}
