package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/audiohive/audiohive-backend/api/middleware"
	"github.com/audiohive/audiohive-backend/api/responses"
	internalauth "github.com/audiohive/audiohive-backend/internal/auth"
	"github.com/audiohive/audiohive-backend/internal/users"
	"github.com/audiohive/audiohive-backend/pkg/config"
	"github.com/audiohive/audiohive-backend/pkg/db/models"
	"github.com/audiohive/audiohive-backend/pkg/enums"
	pkgerrors "github.com/audiohive/audiohive-backend/pkg/errors"
)

type stubAuthService struct {
	signupFn         func(ctx context.Context, req internalauth.SignupRequest) (*internalauth.AuthResult, error)
	loginFn          func(ctx context.Context, req internalauth.LoginRequest) (*internalauth.AuthResult, error)
	forgotFn         func(ctx context.Context, req internalauth.ForgotPasswordRequest) (*internalauth.ResetTokenResult, error)
	resetFn          func(ctx context.Context, token string, req internalauth.ResetPasswordRequest) (*internalauth.AuthResult, error)
	updatePasswordFn func(ctx context.Context, userID uuid.UUID, req internalauth.UpdatePasswordRequest) (*internalauth.AuthResult, error)
}

func (s stubAuthService) Signup(ctx context.Context, req internalauth.SignupRequest) (*internalauth.AuthResult, error) {
	return s.signupFn(ctx, req)
}

func (s stubAuthService) Login(ctx context.Context, req internalauth.LoginRequest) (*internalauth.AuthResult, error) {
	return s.loginFn(ctx, req)
}

func (s stubAuthService) ForgotPassword(ctx context.Context, req internalauth.ForgotPasswordRequest) (*internalauth.ResetTokenResult, error) {
	return s.forgotFn(ctx, req)
}

func (s stubAuthService) ResetPassword(ctx context.Context, token string, req internalauth.ResetPasswordRequest) (*internalauth.AuthResult, error) {
	return s.resetFn(ctx, token, req)
}

func (s stubAuthService) UpdatePassword(ctx context.Context, userID uuid.UUID, req internalauth.UpdatePasswordRequest) (*internalauth.AuthResult, error) {
	return s.updatePasswordFn(ctx, userID, req)
}

func (s stubAuthService) VerifyAccess(context.Context, string) (*models.User, error) {
	return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "not implemented")
}

func testJWTCfg() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "secret",
		Issuer:            "audiohive",
		ExpirationMinutes: 30,
		CookieName:        "jwt",
	}
}

func testErrorWriter() *responses.ErrorWriter {
	return responses.NewErrorWriter(nil, false)
}

func authResultFixture() *internalauth.AuthResult {
	return &internalauth.AuthResult{
		Token: "signed.jwt.token",
		User: &users.UserDTO{
			ID:    uuid.New(),
			Name:  "Test User",
			Email: "user@example.com",
			Role:  enums.UserRoleUser,
		},
	}
}

func TestAuthSignup(t *testing.T) {
	svc := stubAuthService{
		signupFn: func(_ context.Context, req internalauth.SignupRequest) (*internalauth.AuthResult, error) {
			if req.Email != "user@example.com" {
				t.Fatalf("unexpected email %s", req.Email)
			}
			return authResultFixture(), nil
		},
	}

	handler := AuthSignup(svc, testJWTCfg(), testErrorWriter())
	body := `{"name":"Test User","email":"user@example.com","password":"pass1234","passwordConfirm":"pass1234"}`
	req := httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader(body))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}

	var envelope struct {
		Status string `json:"status"`
		Token  string `json:"token"`
		Data   struct {
			User map[string]any `json:"user"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if envelope.Status != "success" {
		t.Fatalf("expected success status, got %s", envelope.Status)
	}
	if envelope.Token == "" {
		t.Fatalf("expected token in envelope")
	}
	for key := range envelope.Data.User {
		if strings.Contains(strings.ToLower(key), "password") {
			t.Fatalf("credential field %q leaked into response", key)
		}
	}

	cookie := findCookie(t, resp, "jwt")
	if cookie.Value != "signed.jwt.token" {
		t.Fatalf("unexpected jwt cookie value %q", cookie.Value)
	}
	if !cookie.HttpOnly {
		t.Fatalf("jwt cookie must be http-only")
	}
}

func TestAuthSignupRejectsMismatchedConfirm(t *testing.T) {
	called := false
	svc := stubAuthService{
		signupFn: func(context.Context, internalauth.SignupRequest) (*internalauth.AuthResult, error) {
			called = true
			return authResultFixture(), nil
		},
	}

	handler := AuthSignup(svc, testJWTCfg(), testErrorWriter())
	body := `{"name":"Test User","email":"user@example.com","password":"pass1234","passwordConfirm":"different"}`
	req := httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader(body))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if called {
		t.Fatalf("service must not run on invalid payloads")
	}
}

func TestAuthLoginFailure(t *testing.T) {
	svc := stubAuthService{
		loginFn: func(context.Context, internalauth.LoginRequest) (*internalauth.AuthResult, error) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "Incorrect email or password")
		},
	}

	handler := AuthLogin(svc, testJWTCfg(), testErrorWriter())
	body := `{"email":"user@example.com","password":"wrong"}`
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}

	var envelope struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if envelope.Status != "fail" {
		t.Fatalf("expected fail status, got %s", envelope.Status)
	}
	if envelope.Message != "Incorrect email or password" {
		t.Fatalf("unexpected message %q", envelope.Message)
	}
}

func TestAuthLogoutClearsCookie(t *testing.T) {
	handler := AuthLogout(testJWTCfg())
	req := httptest.NewRequest(http.MethodGet, "/logout", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	cookie := findCookie(t, resp, "jwt")
	if cookie.Value != "logged-out" {
		t.Fatalf("expected dummy cookie value, got %q", cookie.Value)
	}
}

func TestAuthForgotPasswordExposesTokenOutsideProd(t *testing.T) {
	svc := stubAuthService{
		forgotFn: func(context.Context, internalauth.ForgotPasswordRequest) (*internalauth.ResetTokenResult, error) {
			return &internalauth.ResetTokenResult{Message: "Token sent to email", Token: "raw-token"}, nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/forgot-password", strings.NewReader(`{"email":"user@example.com"}`))
	resp := httptest.NewRecorder()
	AuthForgotPassword(svc, true, testErrorWriter()).ServeHTTP(resp, req)

	var envelope struct {
		Data struct {
			Message    string `json:"message"`
			ResetToken string `json:"resetToken"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if envelope.Data.Message != "Token sent to email" {
		t.Fatalf("unexpected message %q", envelope.Data.Message)
	}
	if envelope.Data.ResetToken != "raw-token" {
		t.Fatalf("expected raw token outside prod, got %q", envelope.Data.ResetToken)
	}

	// Production mode keeps the token out of the response.
	resp = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/forgot-password", strings.NewReader(`{"email":"user@example.com"}`))
	AuthForgotPassword(svc, false, testErrorWriter()).ServeHTTP(resp, req)

	envelope.Data.ResetToken = ""
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if envelope.Data.ResetToken != "" {
		t.Fatalf("raw token leaked in production mode")
	}
}

func TestAuthResetPasswordInvalidToken(t *testing.T) {
	svc := stubAuthService{
		resetFn: func(_ context.Context, token string, _ internalauth.ResetPasswordRequest) (*internalauth.AuthResult, error) {
			if token != "deadbeef" {
				t.Fatalf("unexpected token %q", token)
			}
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "Token is invalid or Expired!")
		},
	}

	router := chi.NewRouter()
	router.Patch("/password-reset/{token}", AuthResetPassword(svc, testJWTCfg(), testErrorWriter()))

	body := `{"password":"fresh-pass","passwordConfirm":"fresh-pass"}`
	req := httptest.NewRequest(http.MethodPatch, "/password-reset/deadbeef", strings.NewReader(body))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}

	var envelope struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if envelope.Message != "Token is invalid or Expired!" {
		t.Fatalf("unexpected message %q", envelope.Message)
	}
}

func TestAuthUpdatePassword(t *testing.T) {
	userID := uuid.New()
	svc := stubAuthService{
		updatePasswordFn: func(_ context.Context, id uuid.UUID, req internalauth.UpdatePasswordRequest) (*internalauth.AuthResult, error) {
			if id != userID {
				t.Fatalf("unexpected user id %s", id)
			}
			if req.CurrentPassword != "pass1234" {
				t.Fatalf("unexpected current password")
			}
			return authResultFixture(), nil
		},
	}

	handler := AuthUpdatePassword(svc, testJWTCfg(), testErrorWriter())
	body := `{"currentPassword":"pass1234","password":"fresh-pass","passwordConfirm":"fresh-pass"}`
	req := httptest.NewRequest(http.MethodPatch, "/update-my-password", strings.NewReader(body))
	req = req.WithContext(middleware.WithUserID(req.Context(), userID.String()))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestAuthUpdatePasswordRequiresUserContext(t *testing.T) {
	handler := AuthUpdatePassword(stubAuthService{}, testJWTCfg(), testErrorWriter())
	body := `{"currentPassword":"pass1234","password":"fresh-pass","passwordConfirm":"fresh-pass"}`
	req := httptest.NewRequest(http.MethodPatch, "/update-my-password", strings.NewReader(body))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func findCookie(t *testing.T, resp *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, cookie := range resp.Result().Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	t.Fatalf("cookie %q not set", name)
	return nil
}
