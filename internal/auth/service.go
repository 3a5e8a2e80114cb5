package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/audiohive/audiohive-backend/internal/users"
	pkgAuth "github.com/audiohive/audiohive-backend/pkg/auth"
	"github.com/audiohive/audiohive-backend/pkg/config"
	"github.com/audiohive/audiohive-backend/pkg/db"
	"github.com/audiohive/audiohive-backend/pkg/db/models"
	"github.com/audiohive/audiohive-backend/pkg/enums"
	pkgerrors "github.com/audiohive/audiohive-backend/pkg/errors"
	"github.com/audiohive/audiohive-backend/pkg/security"
)

const (
	incorrectCredentialsMessage = "Incorrect email or password"
	resetTokenInvalidMessage    = "Token is invalid or Expired!"
	noUserForEmailMessage       = "No user found with the provided email address!"
	wrongCurrentPasswordMessage = "Your current password is not correct."
)

// Service defines the behavior needed by the auth controller and middleware.
type Service interface {
	Signup(ctx context.Context, req SignupRequest) (*AuthResult, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResult, error)
	ForgotPassword(ctx context.Context, req ForgotPasswordRequest) (*ResetTokenResult, error)
	ResetPassword(ctx context.Context, rawToken string, req ResetPasswordRequest) (*AuthResult, error)
	UpdatePassword(ctx context.Context, userID uuid.UUID, req UpdatePasswordRequest) (*AuthResult, error)
	VerifyAccess(ctx context.Context, tokenString string) (*models.User, error)
}

type userRepository interface {
	Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByResetToken(ctx context.Context, digest string, now time.Time) (*models.User, error)
	SetPassword(ctx context.Context, id uuid.UUID, hash string, changedAt time.Time) error
	SetResetToken(ctx context.Context, id uuid.UUID, digest string, expires time.Time) error
}

type service struct {
	users       userRepository
	jwtCfg      config.JWTConfig
	passwordCfg config.PasswordConfig
	resetCfg    config.ResetTokenConfig
	nowFn       func() time.Time
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	UserRepo    userRepository
	JWTConfig   config.JWTConfig
	Password    config.PasswordConfig
	ResetToken  config.ResetTokenConfig
	Now         func() time.Time
}

// NewService constructs an auth service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	nowFn := params.Now
	if nowFn == nil {
		nowFn = func() time.Time { return time.Now().UTC() }
	}
	return &service{
		users:       params.UserRepo,
		jwtCfg:      params.JWTConfig,
		passwordCfg: params.Password,
		resetCfg:    params.ResetToken,
		nowFn:       nowFn,
	}, nil
}

func (s *service) Signup(ctx context.Context, req SignupRequest) (*AuthResult, error) {
	hash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	// Role is pinned to user regardless of the payload.
	user, err := s.users.Create(ctx, users.CreateUserDTO{
		Name:         req.Name,
		Email:        users.NormalizeEmail(req.Email),
		PasswordHash: hash,
		Role:         enums.UserRoleUser,
	})
	if err != nil {
		if db.IsUniqueViolation(err, "uq_users_email") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDuplicate, err, "Duplicate field value: email. Please use another value!")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
	}

	return s.issueToken(user)
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*AuthResult, error) {
	user, err := s.users.FindByEmail(ctx, users.NormalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, incorrectCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	valid, err := security.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid || !user.Active {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, incorrectCredentialsMessage)
	}

	return s.issueToken(user)
}

func (s *service) ForgotPassword(ctx context.Context, req ForgotPasswordRequest) (*ResetTokenResult, error) {
	user, err := s.users.FindByEmail(ctx, users.NormalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, noUserForEmailMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	raw, digest, err := security.NewResetToken()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate reset token")
	}
	expires := s.nowFn().Add(s.resetCfg.TTL)
	if err := s.users.SetResetToken(ctx, user.ID, digest, expires); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store reset token")
	}

	return &ResetTokenResult{Message: "Token sent to email", Token: raw}, nil
}

func (s *service) ResetPassword(ctx context.Context, rawToken string, req ResetPasswordRequest) (*AuthResult, error) {
	digest := security.HashResetToken(rawToken)
	user, err := s.users.FindByResetToken(ctx, digest, s.nowFn())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, resetTokenInvalidMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup reset token")
	}

	if err := s.changePassword(ctx, user, req.Password); err != nil {
		return nil, err
	}
	return s.issueToken(user)
}

func (s *service) UpdatePassword(ctx context.Context, userID uuid.UUID, req UpdatePasswordRequest) (*AuthResult, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, incorrectCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	valid, err := security.VerifyPassword(req.CurrentPassword, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, wrongCurrentPasswordMessage)
	}

	if err := s.changePassword(ctx, user, req.Password); err != nil {
		return nil, err
	}
	return s.issueToken(user)
}

// VerifyAccess validates a presented token end to end: signature, expiry,
// issuer, a live active user, and an issue time no older than the user's
// last password change.
func (s *service) VerifyAccess(ctx context.Context, tokenString string) (*models.User, error) {
	claims, err := pkgAuth.ParseAccessToken(s.jwtCfg, tokenString)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token")
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "The user belonging to this token no longer exists.")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	if user.PasswordChangedAt != nil && claims.IssuedAt != nil {
		issued := claims.IssuedAt.Time.Truncate(time.Second)
		changed := user.PasswordChangedAt.Truncate(time.Second)
		if issued.Before(changed) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "Password was changed recently. Please log in again.")
		}
	}

	return user, nil
}

// changePassword stores the new hash. The change timestamp is backdated by
// one second so the token minted immediately afterwards still verifies.
func (s *service) changePassword(ctx context.Context, user *models.User, password string) error {
	hash, err := security.HashPassword(password, s.passwordCfg)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	changedAt := s.nowFn().Add(-time.Second)
	if err := s.users.SetPassword(ctx, user.ID, hash, changedAt); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store password")
	}
	user.PasswordHash = hash
	user.PasswordChangedAt = &changedAt
	user.PasswordResetToken = nil
	user.PasswordResetExpires = nil
	return nil
}

func (s *service) issueToken(user *models.User) (*AuthResult, error) {
	token, err := pkgAuth.MintAccessToken(s.jwtCfg, s.nowFn(), pkgAuth.AccessTokenPayload{
		UserID: user.ID,
		Role:   user.Role,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	return &AuthResult{Token: token, User: users.FromModel(user)}, nil
}
