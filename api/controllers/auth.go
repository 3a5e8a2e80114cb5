package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/audiohive/audiohive-backend/api/middleware"
	"github.com/audiohive/audiohive-backend/api/responses"
	"github.com/audiohive/audiohive-backend/api/validators"
	"github.com/audiohive/audiohive-backend/internal/auth"
	"github.com/audiohive/audiohive-backend/pkg/config"
	pkgerrors "github.com/audiohive/audiohive-backend/pkg/errors"
)

// AuthSignup registers a new account. The role is always user; payloads
// cannot elevate themselves.
func AuthSignup(svc auth.Service, jwtCfg config.JWTConfig, ew *responses.ErrorWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			ew.Write(r.Context(), w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var body auth.SignupRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			ew.Write(r.Context(), w, err)
			return
		}

		result, err := svc.Signup(r.Context(), body)
		if err != nil {
			ew.Write(r.Context(), w, err)
			return
		}

		responses.SetAuthCookie(w, jwtCfg, result.Token)
		responses.WriteSuccessToken(w, http.StatusOK, result.Token, map[string]any{"user": result.User})
	}
}

func AuthLogin(svc auth.Service, jwtCfg config.JWTConfig, ew *responses.ErrorWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			ew.Write(r.Context(), w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var body auth.LoginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			ew.Write(r.Context(), w, err)
			return
		}

		result, err := svc.Login(r.Context(), body)
		if err != nil {
			ew.Write(r.Context(), w, err)
			return
		}

		responses.SetAuthCookie(w, jwtCfg, result.Token)
		responses.WriteSuccessToken(w, http.StatusOK, result.Token, map[string]any{"user": result.User})
	}
}

// AuthLogout overwrites the jwt cookie with a short-lived dummy. Stateless
// tokens cannot be revoked server-side; cookie clients lose theirs here.
func AuthLogout(jwtCfg config.JWTConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.ClearAuthCookie(w, jwtCfg)
		responses.WriteSuccess(w, nil)
	}
}

type forgotPasswordResponse struct {
	Message    string `json:"message"`
	ResetToken string `json:"resetToken,omitempty"`
}

// AuthForgotPassword issues a reset token. Outside production the raw token
// rides in the response so the flow works without a mail provider.
func AuthForgotPassword(svc auth.Service, exposeToken bool, ew *responses.ErrorWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			ew.Write(r.Context(), w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var body auth.ForgotPasswordRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			ew.Write(r.Context(), w, err)
			return
		}

		result, err := svc.ForgotPassword(r.Context(), body)
		if err != nil {
			ew.Write(r.Context(), w, err)
			return
		}

		payload := forgotPasswordResponse{Message: result.Message}
		if exposeToken {
			payload.ResetToken = result.Token
		}
		responses.WriteSuccess(w, payload)
	}
}

func AuthResetPassword(svc auth.Service, jwtCfg config.JWTConfig, ew *responses.ErrorWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			ew.Write(r.Context(), w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		token := chi.URLParam(r, "token")
		if token == "" {
			ew.Write(r.Context(), w, pkgerrors.New(pkgerrors.CodeValidation, "Token is invalid or Expired!"))
			return
		}

		var body auth.ResetPasswordRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			ew.Write(r.Context(), w, err)
			return
		}

		result, err := svc.ResetPassword(r.Context(), token, body)
		if err != nil {
			ew.Write(r.Context(), w, err)
			return
		}

		responses.SetAuthCookie(w, jwtCfg, result.Token)
		responses.WriteSuccessToken(w, http.StatusOK, result.Token, map[string]any{"user": result.User})
	}
}

func AuthUpdatePassword(svc auth.Service, jwtCfg config.JWTConfig, ew *responses.ErrorWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			ew.Write(r.Context(), w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		userID, err := currentUserID(r)
		if err != nil {
			ew.Write(r.Context(), w, err)
			return
		}

		var body auth.UpdatePasswordRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			ew.Write(r.Context(), w, err)
			return
		}

		result, err := svc.UpdatePassword(r.Context(), userID, body)
		if err != nil {
			ew.Write(r.Context(), w, err)
			return
		}

		responses.SetAuthCookie(w, jwtCfg, result.Token)
		responses.WriteSuccessToken(w, http.StatusOK, result.Token, map[string]any{"user": result.User})
	}
}

func currentUserID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id")
	}
	return id, nil
}
