package reviews

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/audiohive/audiohive-backend/pkg/db"
	"github.com/audiohive/audiohive-backend/pkg/db/models"
	pkgerrors "github.com/audiohive/audiohive-backend/pkg/errors"
)

const (
	reviewNotFoundMessage   = "Review not found"
	duplicateReviewMessage  = "You have already reviewed this product."
	noProductReviewsMessage = "There are no reviews for this product"
	noUserReviewsMessage    = "This user hasn't reviewed any product"
	ratingOutOfRangeMessage = "Rating must be between 1 and 5"
)

// Service exposes the review lifecycle. Every mutation recomputes the
// product's rating aggregate inside the same transaction, so readers never
// observe a product whose aggregate matches neither the pre- nor
// post-mutation review set.
type Service interface {
	Create(ctx context.Context, productID, userID uuid.UUID, input CreateReviewInput) (*ReviewDTO, error)
	Update(ctx context.Context, productID, userID uuid.UUID, input UpdateReviewInput) (*ReviewDTO, error)
	Delete(ctx context.Context, productID, userID uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*ReviewDTO, error)
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]*ReviewDTO, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*ReviewDTO, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo *Repository
	tx   txRunner
}

// NewService constructs the reviews service.
func NewService(repo *Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("reviews repository is required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) Create(ctx context.Context, productID, userID uuid.UUID, input CreateReviewInput) (*ReviewDTO, error) {
	if err := validateRating(input.Rating); err != nil {
		return nil, err
	}

	review := &models.Review{
		ProductID: productID,
		UserID:    userID,
		Rating:    input.Rating,
		Body:      input.Body,
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.Create(ctx, review); err != nil {
			return err
		}
		return repo.RecomputeProductRatings(ctx, productID)
	})
	if err != nil {
		return nil, normalizeMutationErr(err)
	}
	return FromModel(review), nil
}

func (s *service) Update(ctx context.Context, productID, userID uuid.UUID, input UpdateReviewInput) (*ReviewDTO, error) {
	updates := map[string]any{}
	if input.Rating != nil {
		if err := validateRating(*input.Rating); err != nil {
			return nil, err
		}
		updates["rating"] = *input.Rating
	}
	if input.Body != nil {
		updates["body"] = *input.Body
	}
	if len(updates) == 0 {
		review, err := s.repo.FindByProductAndUser(ctx, productID, userID)
		if err != nil {
			return nil, normalizeMutationErr(err)
		}
		return FromModel(review), nil
	}

	var review *models.Review
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		updated, err := repo.Update(ctx, productID, userID, updates)
		if err != nil {
			return err
		}
		review = updated
		return repo.RecomputeProductRatings(ctx, productID)
	})
	if err != nil {
		return nil, normalizeMutationErr(err)
	}
	return FromModel(review), nil
}

func (s *service) Delete(ctx context.Context, productID, userID uuid.UUID) error {
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.Delete(ctx, productID, userID); err != nil {
			return err
		}
		return repo.RecomputeProductRatings(ctx, productID)
	})
	if err != nil {
		return normalizeMutationErr(err)
	}
	return nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*ReviewDTO, error) {
	review, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, reviewNotFoundMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup review")
	}
	return FromModel(review), nil
}

func (s *service) ListByProduct(ctx context.Context, productID uuid.UUID) ([]*ReviewDTO, error) {
	list, err := s.repo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list reviews")
	}
	if len(list) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, noProductReviewsMessage)
	}
	return FromModels(list), nil
}

func (s *service) ListByUser(ctx context.Context, userID uuid.UUID) ([]*ReviewDTO, error) {
	list, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list reviews")
	}
	if len(list) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, noUserReviewsMessage)
	}
	return FromModels(list), nil
}

func validateRating(rating int) error {
	if rating < 1 || rating > 5 {
		return pkgerrors.New(pkgerrors.CodeValidation, ratingOutOfRangeMessage).
			WithDetails(map[string]any{"rating": rating})
	}
	return nil
}

// normalizeMutationErr maps store-layer failures from the review write +
// rollup unit onto the taxonomy. gorm.ErrRecordNotFound can only surface
// from the review write: the rollup tolerates a missing product row.
func normalizeMutationErr(err error) error {
	if db.IsUniqueViolation(err, "uq_reviews_product_user") {
		return pkgerrors.Wrap(pkgerrors.CodeDuplicate, err, duplicateReviewMessage)
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, reviewNotFoundMessage)
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write review")
}
