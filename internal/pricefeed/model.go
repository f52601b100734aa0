package pricefeed

import "time"

// Quote is the latest known price for one symbol.
type Quote struct {
	Symbol   string
	Price    float64
	Currency string
	AsOf     time.Time
}

// Response mirrors the chart endpoint's JSON envelope.
type Response struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol             string  `json:"symbol"`
				Currency           string  `json:"currency"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
				RegularMarketTime  int64   `json:"regularMarketTime"`
			} `json:"meta"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}
