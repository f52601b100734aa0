package handlers

import (
	"net/http"

	"github.com/avanderwijk/lotkeeper/internal/api/response"
	"github.com/avanderwijk/lotkeeper/internal/apperrors"
	"github.com/avanderwijk/lotkeeper/internal/service"
)

// AssetHandler handles HTTP requests for asset endpoints.
type AssetHandler struct {
	assetService *service.AssetService
}

// NewAssetHandler creates a new AssetHandler with the provided service dependency.
func NewAssetHandler(assetService *service.AssetService) *AssetHandler {
	return &AssetHandler{assetService: assetService}
}

// AllAssets handles GET requests to list every asset the ledger has seen.
//
// Endpoint: GET /api/asset
// Response: 200 OK with array of Asset
// Error: 500 Internal Server Error if retrieval fails
func (h *AssetHandler) AllAssets(w http.ResponseWriter, _ *http.Request) {
	assets, err := h.assetService.List()
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveAssets.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, assets)
}
