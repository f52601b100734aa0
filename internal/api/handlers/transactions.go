package handlers

import (
	"errors"
	"net/http"

	"github.com/avanderwijk/lotkeeper/internal/api/middleware"
	"github.com/avanderwijk/lotkeeper/internal/api/request"
	"github.com/avanderwijk/lotkeeper/internal/api/response"
	"github.com/avanderwijk/lotkeeper/internal/apperrors"
	"github.com/avanderwijk/lotkeeper/internal/service"
	"github.com/avanderwijk/lotkeeper/internal/validation"
	"github.com/go-chi/chi/v5"
)

// TransactionHandler handles HTTP requests for ledger transaction endpoints.
// It serves as the HTTP layer adapter, parsing requests and delegating
// business logic to the LedgerService.
type TransactionHandler struct {
	ledgerService *service.LedgerService
}

// NewTransactionHandler creates a new TransactionHandler with the provided service dependency.
func NewTransactionHandler(ledgerService *service.LedgerService) *TransactionHandler {
	return &TransactionHandler{
		ledgerService: ledgerService,
	}
}

// CreateTransaction handles POST requests to record a buy or sell event.
// A buy responds with the transaction and its tax lot; a sell responds with
// the transaction and its realized gains.
//
// Endpoint: POST /api/transaction
// Request Body: CreateTransactionRequest (symbol, assetClass, type, quantity, pricePerUnit, fees, date, notes)
// Response: 201 Created with LedgerEntry
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 409 Conflict if a sell exceeds the available holdings
// Error: 500 Internal Server Error if recording fails
func (h *TransactionHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateTransactionRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreateTransaction(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	owner := middleware.OwnerFromContext(r.Context())

	entry, err := h.ledgerService.RecordTransaction(r.Context(), owner, req)
	if err != nil {
		if errors.Is(err, apperrors.ErrInsufficientHoldings) {
			response.RespondError(w, http.StatusConflict, apperrors.ErrInsufficientHoldings.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, "failed to record transaction", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusCreated, entry)
}

// AllTransactions handles GET requests to retrieve the owner's transactions,
// optionally filtered by asset symbol.
//
// Endpoint: GET /api/transaction?symbol=AAPL
// Response: 200 OK with array of TransactionResponse
// Error: 500 Internal Server Error if retrieval fails
func (h *TransactionHandler) AllTransactions(w http.ResponseWriter, r *http.Request) {
	owner := middleware.OwnerFromContext(r.Context())
	symbol := r.URL.Query().Get("symbol")

	transactions, err := h.ledgerService.ListTransactions(owner, symbol)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveTransactions.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, transactions)
}

// GetTransaction handles GET requests to retrieve a single transaction by ID.
//
// Endpoint: GET /api/transaction/{uuid}
// Response: 200 OK with Transaction
// Error: 400 Bad Request if transaction ID is invalid (validated by middleware)
// Error: 404 Not Found if transaction not found or owned by another user
// Error: 500 Internal Server Error if retrieval fails
func (h *TransactionHandler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	owner := middleware.OwnerFromContext(r.Context())
	transactionID := chi.URLParam(r, "uuid")

	transaction, err := h.ledgerService.GetTransaction(owner, transactionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrTransactionNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrTransactionNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveTransaction.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, transaction)
}

// DeleteTransaction handles DELETE requests to reverse a transaction.
// Deleting a sell restores the lots it drained; deleting a buy is refused
// while sells still depend on its lot, naming the blocking transactions.
//
// Endpoint: DELETE /api/transaction/{uuid}
// Response: 204 No Content on successful reversal
// Error: 400 Bad Request if transaction ID is invalid (validated by middleware)
// Error: 404 Not Found if transaction not found or owned by another user
// Error: 409 Conflict if dependent sales block a buy reversal
// Error: 500 Internal Server Error if reversal fails
func (h *TransactionHandler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	owner := middleware.OwnerFromContext(r.Context())
	transactionID := chi.URLParam(r, "uuid")

	err := h.ledgerService.DeleteTransaction(r.Context(), owner, transactionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrTransactionNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrTransactionNotFound.Error(), err.Error())
			return
		}
		if errors.Is(err, apperrors.ErrDependentSales) {
			response.RespondError(w, http.StatusConflict, apperrors.ErrDependentSales.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, "failed to delete transaction", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}
