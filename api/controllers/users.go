package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/audiohive/audiohive-backend/api/responses"
	"github.com/audiohive/audiohive-backend/api/validators"
	"github.com/audiohive/audiohive-backend/internal/users"
	"github.com/audiohive/audiohive-backend/pkg/enums"
	pkgerrors "github.com/audiohive/audiohive-backend/pkg/errors"
)

const updateMeWrongRouteMessage = "This route is not for updating password. If you want to update your password please go to '/update-my-password' route"

// Me returns the authenticated user's own record.
func Me(svc users.Service, ew *responses.ErrorWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			ew.Write(r.Context(), w, pkgerrors.New(pkgerrors.CodeInternal, "users service unavailable"))
			return
		}

		userID, err := currentUserID(r)
		if err != nil {
			ew.Write(r.Context(), w, err)
			return
		}

		user, err := svc.Get(r.Context(), userID)
		if err != nil {
			ew.Write(r.Context(), w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"user": user})
	}
}

type updateMeRequest struct {
	Name            *string `json:"name,omitempty" validate:"omitempty,min=2,max=120"`
	Email           *string `json:"email,omitempty" validate:"omitempty,email"`
	Password        *string `json:"password,omitempty"`
	PasswordConfirm *string `json:"passwordConfirm,omitempty"`
}

// UpdateMe mutates the caller's name/email. Password fields are declared so
// they decode, then rejected with a pointer at the password route.
func UpdateMe(svc users.Service, ew *responses.ErrorWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			ew.Write(r.Context(), w, pkgerrors.New(pkgerrors.CodeInternal, "users service unavailable"))
			return
		}

		userID, err := currentUserID(r)
		if err != nil {
			ew.Write(r.Context(), w, err)
			return
		}

		var body updateMeRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			ew.Write(r.Context(), w, err)
			return
		}

		if body.Password != nil || body.PasswordConfirm != nil {
			ew.Write(r.Context(), w, pkgerrors.New(pkgerrors.CodeUnauthorized, updateMeWrongRouteMessage))
			return
		}

		user, err := svc.UpdateMe(r.Context(), userID, users.UpdateMeInput{
			Name:  body.Name,
			Email: body.Email,
		})
		if err != nil {
			ew.Write(r.Context(), w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"user": user})
	}
}

// DeleteMe soft-deactivates the caller's account.
func DeleteMe(svc users.Service, ew *responses.ErrorWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			ew.Write(r.Context(), w, pkgerrors.New(pkgerrors.CodeInternal, "users service unavailable"))
			return
		}

		userID, err := currentUserID(r)
		if err != nil {
			ew.Write(r.Context(), w, err)
			return
		}

		if err := svc.DeactivateMe(r.Context(), userID); err != nil {
			ew.Write(r.Context(), w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// ListUsers is the admin listing endpoint with the generic query shaping.
func ListUsers(svc users.Service, ew *responses.ErrorWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			ew.Write(r.Context(), w, pkgerrors.New(pkgerrors.CodeInternal, "users service unavailable"))
			return
		}

		list, err := svc.List(r.Context(), r.URL.Query())
		if err != nil {
			ew.Write(r.Context(), w, err)
			return
		}

		responses.WriteList(w, len(list), map[string]any{"users": list})
	}
}

type adminCreateUserRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=120"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=128"`
	Role     string `json:"role" validate:"required,oneof=user admin"`
}

func AdminCreateUser(svc users.Service, ew *responses.ErrorWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			ew.Write(r.Context(), w, pkgerrors.New(pkgerrors.CodeInternal, "users service unavailable"))
			return
		}

		var body adminCreateUserRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			ew.Write(r.Context(), w, err)
			return
		}

		user, err := svc.AdminCreate(r.Context(), users.AdminCreateInput{
			Name:     body.Name,
			Email:    body.Email,
			Password: body.Password,
			Role:     enums.UserRole(body.Role),
		})
		if err != nil {
			ew.Write(r.Context(), w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{"user": user})
	}
}

func GetUser(svc users.Service, ew *responses.ErrorWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			ew.Write(r.Context(), w, pkgerrors.New(pkgerrors.CodeInternal, "users service unavailable"))
			return
		}

		id, err := pathUUID(r, "id")
		if err != nil {
			ew.Write(r.Context(), w, err)
			return
		}

		user, err := svc.Get(r.Context(), id)
		if err != nil {
			ew.Write(r.Context(), w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"user": user})
	}
}

type adminUpdateUserRequest struct {
	Name  *string `json:"name,omitempty" validate:"omitempty,min=2,max=120"`
	Email *string `json:"email,omitempty" validate:"omitempty,email"`
	Role  *string `json:"role,omitempty" validate:"omitempty,oneof=user admin"`
}

func AdminUpdateUser(svc users.Service, ew *responses.ErrorWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			ew.Write(r.Context(), w, pkgerrors.New(pkgerrors.CodeInternal, "users service unavailable"))
			return
		}

		id, err := pathUUID(r, "id")
		if err != nil {
			ew.Write(r.Context(), w, err)
			return
		}

		var body adminUpdateUserRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			ew.Write(r.Context(), w, err)
			return
		}

		input := users.AdminUpdateInput{Name: body.Name, Email: body.Email}
		if body.Role != nil {
			role := enums.UserRole(*body.Role)
			input.Role = &role
		}

		user, err := svc.AdminUpdate(r.Context(), id, input)
		if err != nil {
			ew.Write(r.Context(), w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"user": user})
	}
}

func AdminDeleteUser(svc users.Service, ew *responses.ErrorWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			ew.Write(r.Context(), w, pkgerrors.New(pkgerrors.CodeInternal, "users service unavailable"))
			return
		}

		id, err := pathUUID(r, "id")
		if err != nil {
			ew.Write(r.Context(), w, err)
			return
		}

		if err := svc.AdminDelete(r.Context(), id); err != nil {
			ew.Write(r.Context(), w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func pathUUID(r *http.Request, key string) (uuid.UUID, error) {
	raw := chi.URLParam(r, key)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid id").
			WithDetails(map[string]any{"param": key})
	}
	return id, nil
}
