package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/avanderwijk/lotkeeper/internal/api/response"
)

type contextKey string

// ownerContextKey carries the authenticated owner through the request context.
const ownerContextKey contextKey = "owner"

// OwnerHeader names the header the upstream authentication layer sets after
// verifying the caller. Authentication itself is outside this service.
const OwnerHeader = "X-User-ID"

// RequireOwner extracts the owner identity from the request header and stores
// it in the request context. Requests without an owner are rejected with
// 400 Bad Request; the ledger never operates on anonymous state.
func RequireOwner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		owner := strings.TrimSpace(r.Header.Get(OwnerHeader))

		if owner == "" {
			response.RespondError(w, http.StatusBadRequest, "owner is required", "missing "+OwnerHeader+" header")
			return
		}

		ctx := context.WithValue(r.Context(), ownerContextKey, owner)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OwnerFromContext returns the owner stored by RequireOwner, or "" when the
// middleware did not run.
func OwnerFromContext(ctx context.Context) string {
	owner, _ := ctx.Value(ownerContextKey).(string)
	return owner
}
