package middleware

import (
	"net/http"

	"github.com/audiohive/audiohive-backend/api/responses"
	pkgerrors "github.com/audiohive/audiohive-backend/pkg/errors"
)

const noPermissionMessage = "You dont have the permission to perform this action"

// RequireRole gates a subtree on the authenticated actor's role. Runs after
// Auth, which seeds the role into the context.
func RequireRole(ew *responses.ErrorWriter, roles ...string) func(http.Handler) http.Handler {
	allowed := map[string]struct{}{}
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := allowed[RoleFromContext(r.Context())]; !ok {
				ew.Write(r.Context(), w, pkgerrors.New(pkgerrors.CodeForbidden, noPermissionMessage))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
