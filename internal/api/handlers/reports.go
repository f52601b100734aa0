package handlers

import (
	"net/http"
	"strconv"

	"github.com/avanderwijk/lotkeeper/internal/api/middleware"
	"github.com/avanderwijk/lotkeeper/internal/api/response"
	"github.com/avanderwijk/lotkeeper/internal/apperrors"
	"github.com/avanderwijk/lotkeeper/internal/model"
	"github.com/avanderwijk/lotkeeper/internal/service"
	"github.com/avanderwijk/lotkeeper/internal/validation"
)

// ReportHandler handles HTTP requests for the read-only reporting endpoints.
type ReportHandler struct {
	reportingService *service.ReportingService
	priceService     *service.PriceService
}

// NewReportHandler creates a new ReportHandler with the provided service dependencies.
func NewReportHandler(reportingService *service.ReportingService, priceService *service.PriceService) *ReportHandler {
	return &ReportHandler{
		reportingService: reportingService,
		priceService:     priceService,
	}
}

// CostBasis handles GET requests for the cost-basis report: live lots grouped
// by asset class.
//
// Endpoint: GET /api/report/cost-basis
// Response: 200 OK with CostBasisReport
// Error: 500 Internal Server Error if the report cannot be built
func (h *ReportHandler) CostBasis(w http.ResponseWriter, r *http.Request) {
	owner := middleware.OwnerFromContext(r.Context())

	report, err := h.reportingService.CostBasisReport(owner)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToBuildReport.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, report)
}

// UnrealizedGains handles GET requests for the unrealized gains report.
// Current prices come from the price service (live quotes with a cached
// fallback); lots whose symbol cannot be priced are reported as unpriced
// rather than failing the whole report.
//
// Endpoint: GET /api/report/unrealized
// Response: 200 OK with UnrealizedGainsReport
// Error: 500 Internal Server Error if the report cannot be built
func (h *ReportHandler) UnrealizedGains(w http.ResponseWriter, r *http.Request) {
	owner := middleware.OwnerFromContext(r.Context())

	lots, err := h.reportingService.TaxLots(owner, false)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveTaxLots.Error(), err.Error())
		return
	}

	symbols := uniqueSymbols(lots)
	prices, err := h.priceService.CurrentPrices(r.Context(), symbols)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToBuildReport.Error(), err.Error())
		return
	}

	report, err := h.reportingService.UnrealizedGains(owner, prices)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToBuildReport.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, report)
}

// TaxSummary handles GET requests for the annual tax summary.
//
// Endpoint: GET /api/report/tax-summary?year=2024
// Response: 200 OK with TaxSummary
// Error: 400 Bad Request if the year parameter is missing or invalid
// Error: 500 Internal Server Error if the report cannot be built
func (h *ReportHandler) TaxSummary(w http.ResponseWriter, r *http.Request) {
	owner := middleware.OwnerFromContext(r.Context())

	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "year parameter is required", err.Error())
		return
	}
	if err := validation.ValidateYear(year); err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid year", err.Error())
		return
	}

	summary, err := h.reportingService.TaxSummary(owner, year)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToBuildReport.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, summary)
}

// TaxLots handles GET requests to list the owner's lots.
//
// Endpoint: GET /api/lot?includeExhausted=true
// Response: 200 OK with array of TaxLotResponse
// Error: 500 Internal Server Error if retrieval fails
func (h *ReportHandler) TaxLots(w http.ResponseWriter, r *http.Request) {
	owner := middleware.OwnerFromContext(r.Context())
	includeExhausted := r.URL.Query().Get("includeExhausted") == "true"

	lots, err := h.reportingService.TaxLots(owner, includeExhausted)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveTaxLots.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, lots)
}

func uniqueSymbols(lots []model.TaxLotResponse) []string {
	seen := make(map[string]bool)
	symbols := []string{}
	for _, lot := range lots {
		if !seen[lot.Symbol] {
			seen[lot.Symbol] = true
			symbols = append(symbols, lot.Symbol)
		}
	}
	return symbols
}
