package responses

import (
	"net/http"
	"time"

	"github.com/audiohive/audiohive-backend/pkg/config"
)

// SetAuthCookie mirrors the token into the jwt cookie so browser clients
// authenticate without handling the Authorization header themselves.
func SetAuthCookie(w http.ResponseWriter, cfg config.JWTConfig, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(cfg.TokenTTL()),
		HttpOnly: true,
		Secure:   cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearAuthCookie overwrites the jwt cookie with a short-lived dummy value,
// which is how logout works for cookie-carried sessions.
func ClearAuthCookie(w http.ResponseWriter, cfg config.JWTConfig) {
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.CookieName,
		Value:    "logged-out",
		Path:     "/",
		Expires:  time.Now().Add(10 * time.Second),
		HttpOnly: true,
		Secure:   cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}
