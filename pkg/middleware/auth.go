package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/atlas-hq/atlas-admin/pkg/composables"
	"github.com/atlas-hq/atlas-admin/pkg/datascope"
	"github.com/atlas-hq/atlas-admin/pkg/httpapi"
)

// userIDHeader carries the authenticated subject set by the edge proxy.
// Session handling happens upstream; this service only resolves the subject
// into a principal.
const userIDHeader = "X-User-Id"

// PrincipalResolver is implemented by the auth service.
type PrincipalResolver interface {
	ResolvePrincipal(ctx context.Context, userID uuid.UUID) (datascope.Principal, error)
}

// Authorize resolves the request subject into a principal and stores it in
// the context. Requests without a valid subject are rejected.
func Authorize(resolver PrincipalResolver) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get(userIDHeader)
			if raw == "" {
				_ = httpapi.WriteError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "missing subject", nil)
				return
			}
			userID, err := uuid.Parse(raw)
			if err != nil {
				_ = httpapi.WriteError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "malformed subject", nil)
				return
			}
			p, err := resolver.ResolvePrincipal(r.Context(), userID)
			if err != nil {
				_ = httpapi.WriteServiceError(w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(composables.WithPrincipal(r.Context(), p)))
		})
	}
}

// RequirePermission gates a route on a single permission code. It assumes
// Authorize ran earlier in the chain.
func RequirePermission(code string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := composables.UsePrincipal(r.Context())
			if !ok {
				_ = httpapi.WriteError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "no principal in context", nil)
				return
			}
			if !p.HasPermission(code) {
				_ = httpapi.WriteError(w, http.StatusForbidden, "PERMISSION_DENIED", "missing permission: "+code, nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
