package validation_test

import (
	"testing"

	"github.com/avanderwijk/lotkeeper/internal/api/request"
	"github.com/avanderwijk/lotkeeper/internal/validation"
)

func validRequest() request.CreateTransactionRequest {
	return request.CreateTransactionRequest{
		Symbol:       "AAPL",
		AssetClass:   "stock",
		Type:         "buy",
		Quantity:     10,
		PricePerUnit: 100,
		Fees:         5,
		Date:         "2023-01-01",
	}
}

// TestValidateCreateTransaction tests request validation.
//
// WHY: Validation is the only gate between client input and the ledger.
// Each broken field must be reported under its own name so a client can
// show the error next to the right form field.
func TestValidateCreateTransaction(t *testing.T) {
	t.Run("accepts a valid request", func(t *testing.T) {
		if err := validation.ValidateCreateTransaction(validRequest()); err != nil {
			t.Errorf("Expected no error for a valid request, got %v", err)
		}
	})

	t.Run("zero fees are valid", func(t *testing.T) {
		req := validRequest()
		req.Fees = 0
		if err := validation.ValidateCreateTransaction(req); err != nil {
			t.Errorf("Expected zero fees to pass, got %v", err)
		}
	})

	tests := []struct {
		name      string
		mutate    func(*request.CreateTransactionRequest)
		wantField string
	}{
		{
			name:      "missing symbol",
			mutate:    func(r *request.CreateTransactionRequest) { r.Symbol = "  " },
			wantField: "symbol",
		},
		{
			name:      "missing asset class",
			mutate:    func(r *request.CreateTransactionRequest) { r.AssetClass = "" },
			wantField: "assetClass",
		},
		{
			name:      "unknown asset class",
			mutate:    func(r *request.CreateTransactionRequest) { r.AssetClass = "painting" },
			wantField: "assetClass",
		},
		{
			name:      "unknown type",
			mutate:    func(r *request.CreateTransactionRequest) { r.Type = "transfer" },
			wantField: "type",
		},
		{
			name:      "zero quantity",
			mutate:    func(r *request.CreateTransactionRequest) { r.Quantity = 0 },
			wantField: "quantity",
		},
		{
			name:      "negative quantity",
			mutate:    func(r *request.CreateTransactionRequest) { r.Quantity = -1 },
			wantField: "quantity",
		},
		{
			name:      "zero price",
			mutate:    func(r *request.CreateTransactionRequest) { r.PricePerUnit = 0 },
			wantField: "pricePerUnit",
		},
		{
			name:      "negative fees",
			mutate:    func(r *request.CreateTransactionRequest) { r.Fees = -1 },
			wantField: "fees",
		},
		{
			name:      "missing date",
			mutate:    func(r *request.CreateTransactionRequest) { r.Date = "" },
			wantField: "date",
		},
		{
			name:      "malformed date",
			mutate:    func(r *request.CreateTransactionRequest) { r.Date = "01/02/2023" },
			wantField: "date",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)

			err := validation.ValidateCreateTransaction(req)
			if err == nil {
				t.Fatal("Expected a validation error, got nil")
			}

			validationErr, ok := err.(*validation.Error)
			if !ok {
				t.Fatalf("Expected *validation.Error, got %T", err)
			}
			if _, found := validationErr.Fields[tt.wantField]; !found {
				t.Errorf("Expected an error on field %q, got %v", tt.wantField, validationErr.Fields)
			}
		})
	}
}

// TestValidateYear tests the tax-year bounds.
func TestValidateYear(t *testing.T) {
	for _, year := range []int{1900, 2024, 2200} {
		if err := validation.ValidateYear(year); err != nil {
			t.Errorf("Expected year %d to be valid, got %v", year, err)
		}
	}
	for _, year := range []int{0, 1899, 2201} {
		if err := validation.ValidateYear(year); err == nil {
			t.Errorf("Expected year %d to be rejected", year)
		}
	}
}

// TestValidateUUID tests UUID format checking.
func TestValidateUUID(t *testing.T) {
	if err := validation.ValidateUUID("123e4567-e89b-12d3-a456-426614174000"); err != nil {
		t.Errorf("Expected a valid UUID to pass, got %v", err)
	}
	if err := validation.ValidateUUID("not-a-uuid"); err == nil {
		t.Error("Expected a malformed UUID to be rejected")
	}
}
