// Package apperrors defines the error taxonomy of the accounting core.
// Sentinel values support errors.Is matching; the structured types carry
// enough detail for a caller to act on a refusal.
package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

// Domain entity errors represent missing or invalid entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrAssetNotFound indicates that an asset with the given symbol or ID does not exist.
	ErrAssetNotFound = errors.New("asset not found")

	// ErrTransactionNotFound indicates that a transaction with the given ID does not
	// exist or does not belong to the requesting owner.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrTaxLotNotFound indicates that a tax lot with the given ID does not exist.
	ErrTaxLotNotFound = errors.New("tax lot not found")

	// ErrSettingNotFound indicates that a system setting with the given key does not exist.
	ErrSettingNotFound = errors.New("setting not found")
)

// Business logic errors represent validation failures or constraint violations.
// These errors indicate that an operation cannot be completed due to business rules.
var (
	// ErrInsufficientHoldings indicates that a sell transaction cannot be completed
	// because the owner does not hold enough of the asset across open lots.
	ErrInsufficientHoldings = errors.New("insufficient holdings for sale")

	// ErrDependentSales indicates that a buy transaction cannot be deleted because
	// realized gains still reference its tax lot. The dependent sell transactions
	// must be deleted first; cascading deletion would silently destroy tax history.
	ErrDependentSales = errors.New("transaction has dependent sales")

	// ErrInvalidUUID indicates that a provided ID is not a valid UUID format.
	ErrInvalidUUID = errors.New("invalid UUID format")

	// ErrMissingOwner indicates that the request did not identify an owner.
	ErrMissingOwner = errors.New("owner is required")

	// ErrDuplicateEntry indicates that an entity with the same unique constraint already exists.
	ErrDuplicateEntry = errors.New("duplicate entry")
)

// Operation failure errors represent system-level failures when retrieving or
// processing data, as opposed to missing entities or validation issues.
var (
	ErrFailedToRetrieveTransactions = errors.New("failed to retrieve transactions")
	ErrFailedToRetrieveTransaction  = errors.New("failed to retrieve transaction")
	ErrFailedToRetrieveTaxLots      = errors.New("failed to retrieve tax lots")
	ErrFailedToRetrieveAssets       = errors.New("failed to retrieve assets")
	ErrFailedToBuildReport          = errors.New("failed to build report")
)

// InsufficientHoldingsError reports a sale that requested more quantity than
// the open lots for the asset can supply. The entire settlement is discarded.
type InsufficientHoldingsError struct {
	Symbol    string
	Requested float64
	Available float64
}

func (e *InsufficientHoldingsError) Error() string {
	return fmt.Sprintf("insufficient holdings for sale of %s: requested %g, available %g",
		e.Symbol, e.Requested, e.Available)
}

// Unwrap makes errors.Is(err, ErrInsufficientHoldings) hold.
func (e *InsufficientHoldingsError) Unwrap() error {
	return ErrInsufficientHoldings
}

// DependentSalesError reports a refused buy deletion, naming the sell
// transactions that drew from the lot so the caller knows what to remove first.
type DependentSalesError struct {
	TransactionID    string
	DependentSaleIDs []string
}

func (e *DependentSalesError) Error() string {
	return fmt.Sprintf("transaction %s has dependent sales: %s",
		e.TransactionID, strings.Join(e.DependentSaleIDs, ", "))
}

// Unwrap makes errors.Is(err, ErrDependentSales) hold.
func (e *DependentSalesError) Unwrap() error {
	return ErrDependentSales
}
