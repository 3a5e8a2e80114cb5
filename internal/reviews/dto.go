package reviews

import (
	"time"

	"github.com/google/uuid"

	"github.com/audiohive/audiohive-backend/pkg/db/models"
)

// ReviewDTO is the review transport shape.
type ReviewDTO struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"product_id"`
	UserID    uuid.UUID `json:"user_id"`
	Rating    int       `json:"rating"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateReviewInput is the validated payload to create a review. Product
// and user identifiers come from the path and the authenticated session,
// never from the body.
type CreateReviewInput struct {
	Rating int
	Body   string
}

// UpdateReviewInput holds optional mutation values for a review.
type UpdateReviewInput struct {
	Rating *int
	Body   *string
}

func FromModel(r *models.Review) *ReviewDTO {
	if r == nil {
		return nil
	}

	return &ReviewDTO{
		ID:        r.ID,
		ProductID: r.ProductID,
		UserID:    r.UserID,
		Rating:    r.Rating,
		Body:      r.Body,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func FromModels(list []models.Review) []*ReviewDTO {
	out := make([]*ReviewDTO, 0, len(list))
	for i := range list {
		out = append(out, FromModel(&list[i]))
	}
	return out
}
