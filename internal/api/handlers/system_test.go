package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/avanderwijk/lotkeeper/internal/api/handlers"
	"github.com/avanderwijk/lotkeeper/internal/api/request"
	"github.com/avanderwijk/lotkeeper/internal/testutil"
	"github.com/go-chi/chi/v5"
)

// withRouteParam attaches a chi URL parameter to a request that already
// carries a body, which NewRequestWithURLParams cannot do.
func withRouteParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

// TestSystemHandler_Health tests the health endpoint.
//
// WHY: Deploy tooling keys off this endpoint; it must flip to 503 the
// moment the database becomes unreachable.
func TestSystemHandler_Health(t *testing.T) {
	t.Run("responds 200 when healthy", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		h := handlers.NewSystemHandler(testutil.NewTestSystemService(t, db, ""))

		rec := httptest.NewRecorder()
		h.Health(rec, httptest.NewRequest(http.MethodGet, "/api/system/health", nil))

		if rec.Code != http.StatusOK {
			t.Errorf("Expected status 200, got %d", rec.Code)
		}
	})

	t.Run("responds 503 when the database is down", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		h := handlers.NewSystemHandler(testutil.NewTestSystemService(t, db, ""))
		db.Close()

		rec := httptest.NewRecorder()
		h.Health(rec, httptest.NewRequest(http.MethodGet, "/api/system/health", nil))

		if rec.Code != http.StatusServiceUnavailable {
			t.Errorf("Expected status 503, got %d", rec.Code)
		}
	})
}

// TestSystemHandler_Version tests the version endpoint.
func TestSystemHandler_Version(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := handlers.NewSystemHandler(testutil.NewTestSystemService(t, db, ""))

	rec := httptest.NewRecorder()
	h.Version(rec, httptest.NewRequest(http.MethodGet, "/api/system/version", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if body["version"] == "" {
		t.Error("Expected a version in the response")
	}
}

// TestSystemHandler_UpdateSetting tests the settings endpoint.
//
// WHY: This is how the market-data token is provisioned; the stored value
// must round-trip through the service and bad bodies must stop at 400.
func TestSystemHandler_UpdateSetting(t *testing.T) {
	t.Run("stores the setting and responds 204", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestSystemService(t, db, "")
		h := handlers.NewSystemHandler(svc)

		payload := request.UpdateSettingRequest{Value: "https://example.com"}
		req := withRouteParam(
			testutil.NewJSONRequest(t, http.MethodPut, "/api/system/settings/quote_base_url", payload),
			"key", "quote_base_url")

		// Execute
		rec := httptest.NewRecorder()
		h.UpdateSetting(rec, req)

		// Assert
		if rec.Code != http.StatusNoContent {
			t.Fatalf("Expected status 204, got %d: %s", rec.Code, rec.Body.String())
		}

		value, err := svc.GetSetting("quote_base_url")
		if err != nil {
			t.Fatalf("Failed to read stored setting: %v", err)
		}
		if value != "https://example.com" {
			t.Errorf("Expected the stored value back, got %s", value)
		}
	})

	t.Run("responds 400 for a malformed body", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		h := handlers.NewSystemHandler(testutil.NewTestSystemService(t, db, ""))

		req := httptest.NewRequest(http.MethodPut, "/api/system/settings/quote_base_url", nil)
		req = withRouteParam(req, "key", "quote_base_url")

		rec := httptest.NewRecorder()
		h.UpdateSetting(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", rec.Code)
		}
	})
}
