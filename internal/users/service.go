package users

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/audiohive/audiohive-backend/pkg/config"
	"github.com/audiohive/audiohive-backend/pkg/db"
	pkgerrors "github.com/audiohive/audiohive-backend/pkg/errors"
	"github.com/audiohive/audiohive-backend/pkg/enums"
	"github.com/audiohive/audiohive-backend/pkg/listing"
	"github.com/audiohive/audiohive-backend/pkg/security"
)

// ListSchema whitelists the query-shaping surface for user listings.
var ListSchema = listing.Schema{
	Filterable: map[string]string{
		"name":  "name",
		"email": "email",
		"role":  "role",
	},
	Sortable: map[string]string{
		"name":       "name",
		"email":      "email",
		"created_at": "created_at",
	},
	Selectable: map[string]string{
		"id":         "id",
		"name":       "name",
		"email":      "email",
		"role":       "role",
		"active":     "active",
		"created_at": "created_at",
		"updated_at": "updated_at",
	},
}

// Service exposes account management operations: the authenticated user's
// own profile surface plus the admin CRUD surface.
type Service interface {
	Get(ctx context.Context, id uuid.UUID) (*UserDTO, error)
	List(ctx context.Context, query url.Values) ([]*UserDTO, error)
	AdminCreate(ctx context.Context, input AdminCreateInput) (*UserDTO, error)
	AdminUpdate(ctx context.Context, id uuid.UUID, input AdminUpdateInput) (*UserDTO, error)
	AdminDelete(ctx context.Context, id uuid.UUID) error
	UpdateMe(ctx context.Context, id uuid.UUID, input UpdateMeInput) (*UserDTO, error)
	DeactivateMe(ctx context.Context, id uuid.UUID) error
}

// AdminCreateInput is the admin-only user creation payload.
type AdminCreateInput struct {
	Name     string
	Email    string
	Password string
	Role     enums.UserRole
}

// AdminUpdateInput carries optional mutations for the admin surface.
type AdminUpdateInput struct {
	Name  *string
	Email *string
	Role  *enums.UserRole
}

// UpdateMeInput carries the profile fields a user may change themselves.
// Password changes go through the dedicated password route.
type UpdateMeInput struct {
	Name  *string
	Email *string
}

type service struct {
	repo        *Repository
	passwordCfg config.PasswordConfig
}

// NewService constructs the users service.
func NewService(repo *Repository, passwordCfg config.PasswordConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("users repository is required")
	}
	return &service{repo: repo, passwordCfg: passwordCfg}, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*UserDTO, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, normalizeLookupErr(err, "user")
	}
	return FromModel(user), nil
}

func (s *service) List(ctx context.Context, query url.Values) ([]*UserDTO, error) {
	params, err := listing.Parse(query, ListSchema)
	if err != nil {
		return nil, err
	}
	list, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list users")
	}
	return FromModels(list), nil
}

func (s *service) AdminCreate(ctx context.Context, input AdminCreateInput) (*UserDTO, error) {
	role := input.Role
	if role == "" {
		role = enums.UserRoleUser
	}
	if !role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role").
			WithDetails(map[string]any{"role": string(input.Role)})
	}

	hash, err := security.HashPassword(input.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user, err := s.repo.Create(ctx, CreateUserDTO{
		Name:         input.Name,
		Email:        NormalizeEmail(input.Email),
		PasswordHash: hash,
		Role:         role,
	})
	if err != nil {
		return nil, normalizeWriteErr(err)
	}
	return FromModel(user), nil
}

func (s *service) AdminUpdate(ctx context.Context, id uuid.UUID, input AdminUpdateInput) (*UserDTO, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, normalizeLookupErr(err, "user")
	}

	updates := map[string]any{}
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.Email != nil {
		updates["email"] = NormalizeEmail(*input.Email)
	}
	if input.Role != nil {
		if !input.Role.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role").
				WithDetails(map[string]any{"role": string(*input.Role)})
		}
		updates["role"] = *input.Role
	}
	if len(updates) == 0 {
		return s.Get(ctx, id)
	}

	user, err := s.repo.UpdateProfile(ctx, id, updates)
	if err != nil {
		return nil, normalizeWriteErr(err)
	}
	return FromModel(user), nil
}

func (s *service) AdminDelete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return normalizeLookupErr(err, "user")
	}
	return nil
}

func (s *service) UpdateMe(ctx context.Context, id uuid.UUID, input UpdateMeInput) (*UserDTO, error) {
	updates := map[string]any{}
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.Email != nil {
		updates["email"] = NormalizeEmail(*input.Email)
	}
	if len(updates) == 0 {
		return s.Get(ctx, id)
	}

	user, err := s.repo.UpdateProfile(ctx, id, updates)
	if err != nil {
		return nil, normalizeWriteErr(err)
	}
	return FromModel(user), nil
}

func (s *service) DeactivateMe(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deactivate user")
	}
	return nil
}

// NormalizeEmail case-folds an address the way the store expects it.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func normalizeLookupErr(err error, resource string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("No %s found with the requested id.", resource))
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup "+resource)
}

func normalizeWriteErr(err error) error {
	if db.IsUniqueViolation(err, "uq_users_email") {
		return pkgerrors.Wrap(pkgerrors.CodeDuplicate, err, "Duplicate field value: email. Please use another value!")
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write user")
}
