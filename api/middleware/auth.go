package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/audiohive/audiohive-backend/api/responses"
	"github.com/audiohive/audiohive-backend/pkg/config"
	"github.com/audiohive/audiohive-backend/pkg/db/models"
	pkgerrors "github.com/audiohive/audiohive-backend/pkg/errors"
	"github.com/audiohive/audiohive-backend/pkg/logger"
)

const notLoggedInMessage = "You are not logged in! Please login to access the requested page."

// AccessVerifier validates a presented token end to end and returns the
// live user it belongs to.
type AccessVerifier interface {
	VerifyAccess(ctx context.Context, tokenString string) (*models.User, error)
}

// Auth validates the token carried in the Authorization header or the jwt
// cookie (header wins) and seeds the request context with the user identity.
func Auth(verifier AccessVerifier, jwtCfg config.JWTConfig, ew *responses.ErrorWriter, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r, jwtCfg.CookieName)
			if token == "" {
				ew.Write(r.Context(), w, pkgerrors.New(pkgerrors.CodeUnauthorized, notLoggedInMessage))
				return
			}

			user, err := verifier.VerifyAccess(r.Context(), token)
			if err != nil {
				ew.Write(r.Context(), w, err)
				return
			}

			ctx := context.WithValue(r.Context(), ctxUserID, user.ID.String())
			ctx = context.WithValue(ctx, ctxRole, string(user.Role))

			if logg != nil {
				ctx = logg.WithFields(ctx, map[string]any{
					"user_id":    user.ID.String(),
					"actor_role": string(user.Role),
				})
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func extractToken(r *http.Request, cookieName string) string {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if raw != "" {
		if strings.HasPrefix(strings.ToLower(raw), "bearer ") {
			return strings.TrimSpace(raw[7:])
		}
		return raw
	}
	if cookieName == "" {
		return ""
	}
	if cookie, err := r.Cookie(cookieName); err == nil {
		return strings.TrimSpace(cookie.Value)
	}
	return ""
}
