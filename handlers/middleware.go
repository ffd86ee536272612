package handlers

import (
	"context"
	"net/http"

	"github.com/it21816772/neon---pos/common"
)

// Identity is the verified caller supplied by the upstream auth gateway via
// the X-User-ID and X-User-Role headers. Verification itself lives in that
// collaborator; this service only consumes the result.
type Identity struct {
	UserID string
	Role   string
}

type contextKey int

const identityKey contextKey = 0

// WithIdentity extracts the caller identity into the request context.
func WithIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := Identity{
			UserID: r.Header.Get("X-User-ID"),
			Role:   r.Header.Get("X-User-Role"),
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), identityKey, id)))
	})
}

// IdentityFrom returns the caller identity stored by WithIdentity.
func IdentityFrom(ctx context.Context) Identity {
	id, _ := ctx.Value(identityKey).(Identity)
	return id
}

// RequireUser rejects requests without an authenticated user.
func RequireUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if IdentityFrom(r.Context()).UserID == "" {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		next(w, r)
	}
}

// RequireManager rejects requests unless the caller holds the MANAGER role.
func RequireManager(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := IdentityFrom(r.Context())
		if id.UserID == "" {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		if id.Role != common.RoleManager {
			writeError(w, http.StatusForbidden, "manager role required")
			return
		}
		next(w, r)
	}
}
