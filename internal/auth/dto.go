package auth

import (
	"github.com/audiohive/audiohive-backend/internal/users"
)

// SignupRequest captures the public registration payload. The role is never
// client-controlled: every signup lands as a regular user.
type SignupRequest struct {
	Name            string `json:"name" validate:"required,min=2,max=120"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8,max=128"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required,eqfield=Password"`
}

// LoginRequest captures the user credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ForgotPasswordRequest identifies the account requesting a reset token.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest carries the replacement password presented alongside
// the raw reset token from the URL.
type ResetPasswordRequest struct {
	Password        string `json:"password" validate:"required,min=8,max=128"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required,eqfield=Password"`
}

// UpdatePasswordRequest is the authenticated password-change payload.
type UpdatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	Password        string `json:"password" validate:"required,min=8,max=128"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required,eqfield=Password"`
}

// AuthResult bundles a freshly minted token with the user it belongs to.
// Controllers place the token both in the envelope and in the jwt cookie.
type AuthResult struct {
	Token string
	User  *users.UserDTO
}

// ResetTokenResult is what forgot-password hands back. Token carries the raw
// (un-hashed) value; outside production it is echoed in the response so the
// flow can be exercised without a mail provider.
type ResetTokenResult struct {
	Message string
	Token   string
}
