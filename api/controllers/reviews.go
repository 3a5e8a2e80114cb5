package controllers

import (
	"net/http"

	"github.com/audiohive/audiohive-backend/api/responses"
	"github.com/audiohive/audiohive-backend/api/validators"
	"github.com/audiohive/audiohive-backend/internal/reviews"
	pkgerrors "github.com/audiohive/audiohive-backend/pkg/errors"
)

type createReviewRequest struct {
	Rating int    `json:"rating" validate:"required,gte=1,lte=5"`
	Body   string `json:"body" validate:"required,max=2000"`
}

// CreateReview creates the caller's review on the product from the path.
// Product and user identity never come from the body.
func CreateReview(svc reviews.Service, ew *responses.ErrorWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			ew.Write(r.Context(), w, pkgerrors.New(pkgerrors.CodeInternal, "review service unavailable"))
			return
		}

		productID, err := pathUUID(r, "productId")
		if err != nil {
			ew.Write(r.Context(), w, err)
			return
		}

		userID, err := currentUserID(r)
		if err != nil {
			ew.Write(r.Context(), w, err)
			return
		}

		var body createReviewRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			ew.Write(r.Context(), w, err)
			return
		}

		review, err := svc.Create(r.Context(), productID, userID, reviews.CreateReviewInput{
			Rating: body.Rating,
			Body:   body.Body,
		})
		if err != nil {
			ew.Write(r.Context(), w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{"review": review})
	}
}

type updateReviewRequest struct {
	Rating *int    `json:"rating,omitempty" validate:"omitempty,gte=1,lte=5"`
	Body   *string `json:"body,omitempty" validate:"omitempty,max=2000"`
}

// UpdateReview mutates the caller's own review on the product from the
// path. Another user's review on the same product is unreachable from here.
func UpdateReview(svc reviews.Service, ew *responses.ErrorWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			ew.Write(r.Context(), w, pkgerrors.New(pkgerrors.CodeInternal, "review service unavailable"))
			return
		}

		productID, err := pathUUID(r, "productId")
		if err != nil {
			ew.Write(r.Context(), w, err)
			return
		}

		userID, err := currentUserID(r)
		if err != nil {
			ew.Write(r.Context(), w, err)
			return
		}

		var body updateReviewRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			ew.Write(r.Context(), w, err)
			return
		}

		review, err := svc.Update(r.Context(), productID, userID, reviews.UpdateReviewInput{
			Rating: body.Rating,
			Body:   body.Body,
		})
		if err != nil {
			ew.Write(r.Context(), w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"review": review})
	}
}

func DeleteReview(svc reviews.Service, ew *responses.ErrorWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			ew.Write(r.Context(), w, pkgerrors.New(pkgerrors.CodeInternal, "review service unavailable"))
			return
		}

		productID, err := pathUUID(r, "productId")
		if err != nil {
			ew.Write(r.Context(), w, err)
			return
		}

		userID, err := currentUserID(r)
		if err != nil {
			ew.Write(r.Context(), w, err)
			return
		}

		if err := svc.Delete(r.Context(), productID, userID); err != nil {
			ew.Write(r.Context(), w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func GetReview(svc reviews.Service, ew *responses.ErrorWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			ew.Write(r.Context(), w, pkgerrors.New(pkgerrors.CodeInternal, "review service unavailable"))
			return
		}

		id, err := pathUUID(r, "id")
		if err != nil {
			ew.Write(r.Context(), w, err)
			return
		}

		review, err := svc.GetByID(r.Context(), id)
		if err != nil {
			ew.Write(r.Context(), w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"review": review})
	}
}

func ListProductReviews(svc reviews.Service, ew *responses.ErrorWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			ew.Write(r.Context(), w, pkgerrors.New(pkgerrors.CodeInternal, "review service unavailable"))
			return
		}

		productID, err := pathUUID(r, "id")
		if err != nil {
			ew.Write(r.Context(), w, err)
			return
		}

		list, err := svc.ListByProduct(r.Context(), productID)
		if err != nil {
			ew.Write(r.Context(), w, err)
			return
		}

		responses.WriteList(w, len(list), map[string]any{"reviews": list})
	}
}

func ListUserReviews(svc reviews.Service, ew *responses.ErrorWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			ew.Write(r.Context(), w, pkgerrors.New(pkgerrors.CodeInternal, "review service unavailable"))
			return
		}

		userID, err := pathUUID(r, "id")
		if err != nil {
			ew.Write(r.Context(), w, err)
			return
		}

		list, err := svc.ListByUser(r.Context(), userID)
		if err != nil {
			ew.Write(r.Context(), w, err)
			return
		}

		responses.WriteList(w, len(list), map[string]any{"reviews": list})
	}
}
