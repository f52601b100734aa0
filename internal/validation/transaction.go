package validation

import (
	"fmt"
	"strings"
	"time"

	"github.com/avanderwijk/lotkeeper/internal/api/request"
)

// ValidTransactionType contains the allowed transaction type values.
var ValidTransactionType = map[string]bool{
	"buy": true, "sell": true,
}

// ValidAssetClass contains the allowed asset class values.
var ValidAssetClass = map[string]bool{
	"stock": true, "etf": true, "mutual_fund": true, "crypto": true, "bond": true,
}

// ValidateCreateTransaction validates a transaction creation request.
// Checks all required fields and validates their formats and constraints.
//
// Required fields:
//   - symbol: Must be non-empty
//   - assetClass: Must be one of: stock, etf, mutual_fund, crypto, bond
//   - type: Must be one of: buy, sell
//   - quantity: Must be positive
//   - pricePerUnit: Must be positive
//   - fees: Must be non-negative
//   - date: Must be in YYYY-MM-DD format
//
// Returns a validation Error with field-specific error messages if validation fails.
func ValidateCreateTransaction(req request.CreateTransactionRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.Symbol) == "" {
		errors["symbol"] = "symbol is required"
	}

	if strings.TrimSpace(req.AssetClass) == "" {
		errors["assetClass"] = "assetClass is required"
	} else if !ValidAssetClass[req.AssetClass] {
		errors["assetClass"] = fmt.Sprintf("invalid assetClass: %s", req.AssetClass)
	}

	if strings.TrimSpace(req.Type) == "" {
		errors["type"] = "type is required"
	} else if !ValidTransactionType[req.Type] {
		errors["type"] = fmt.Sprintf("invalid type: %s", req.Type)
	}

	if req.Quantity <= 0.0 {
		errors["quantity"] = "quantity must be positive"
	}

	if req.PricePerUnit <= 0.0 {
		errors["pricePerUnit"] = "pricePerUnit must be positive"
	}

	if req.Fees < 0.0 {
		errors["fees"] = "fees cannot be negative"
	}

	if strings.TrimSpace(req.Date) == "" {
		errors["date"] = "date is required"
	} else if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		errors["date"] = err.Error()
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}
