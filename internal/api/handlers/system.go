package handlers

import (
	"net/http"

	"github.com/avanderwijk/lotkeeper/internal/api/request"
	"github.com/avanderwijk/lotkeeper/internal/api/response"
	"github.com/avanderwijk/lotkeeper/internal/service"
	"github.com/go-chi/chi/v5"
)

// SystemHandler handles HTTP requests for system endpoints.
type SystemHandler struct {
	systemService *service.SystemService
}

// NewSystemHandler creates a new SystemHandler with the provided service dependency.
func NewSystemHandler(systemService *service.SystemService) *SystemHandler {
	return &SystemHandler{systemService: systemService}
}

// Health handles GET requests for the health check endpoint.
//
// Endpoint: GET /api/system/health
// Response: 200 OK with {"status": "ok"}
// Error: 503 Service Unavailable if the database is unreachable
func (h *SystemHandler) Health(w http.ResponseWriter, _ *http.Request) {
	if err := h.systemService.CheckHealth(); err != nil {
		response.RespondError(w, http.StatusServiceUnavailable, "unhealthy", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Version handles GET requests for the version endpoint.
//
// Endpoint: GET /api/system/version
// Response: 200 OK with {"version": "..."}
func (h *SystemHandler) Version(w http.ResponseWriter, _ *http.Request) {
	response.RespondJSON(w, http.StatusOK, map[string]string{"version": h.systemService.CheckVersion()})
}

// UpdateSetting handles PUT requests to store a system setting. Settings
// flagged with encrypt are fernet-encrypted before hitting the database,
// which is how the market-data API token is kept at rest.
//
// Endpoint: PUT /api/system/settings/{key}
// Request Body: UpdateSettingRequest (value, encrypt)
// Response: 204 No Content
// Error: 400 Bad Request if the body is invalid
// Error: 500 Internal Server Error if storage or encryption fails
func (h *SystemHandler) UpdateSetting(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	req, err := parseJSON[request.UpdateSettingRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.systemService.SetSetting(r.Context(), key, req.Value, req.Encrypt); err != nil {
		response.RespondError(w, http.StatusInternalServerError, "failed to store setting", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}
