package products

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/audiohive/audiohive-backend/pkg/db"
	"github.com/audiohive/audiohive-backend/pkg/db/models"
	pkgerrors "github.com/audiohive/audiohive-backend/pkg/errors"
	"github.com/audiohive/audiohive-backend/pkg/enums"
	"github.com/audiohive/audiohive-backend/pkg/listing"
)

const productNotFoundMessage = "No product found with the requested id."

// ListSchema whitelists the query-shaping surface for product listings.
var ListSchema = listing.Schema{
	Filterable: map[string]string{
		"main_category":   "main_category",
		"sub_category":    "sub_category",
		"price":           "price",
		"ratings_average": "ratings_average",
		"title":           "title",
	},
	Sortable: map[string]string{
		"price":           "price",
		"ratings_average": "ratings_average",
		"created_at":      "created_at",
		"title":           "title",
	},
	Selectable: map[string]string{
		"id":               "id",
		"title":            "title",
		"price":            "price",
		"sku":              "sku",
		"main_category":    "main_category",
		"sub_category":     "sub_category",
		"description":      "description",
		"features_summary": "features_summary",
		"images":           "images",
		"ratings_average":  "ratings_average",
		"ratings_quantity": "ratings_quantity",
		"created_at":       "created_at",
		"updated_at":       "updated_at",
	},
}

// Service exposes catalog management operations. Reads are open; writes sit
// behind the admin role at the routing layer.
type Service interface {
	Create(ctx context.Context, input CreateProductInput) (*ProductDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*ProductWithReviewsDTO, error)
	List(ctx context.Context, query url.Values) ([]*ProductDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type reviewLoader interface {
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]models.Review, error)
}

type service struct {
	repo    *Repository
	reviews reviewLoader
}

// NewService constructs the products service.
func NewService(repo *Repository, reviews reviewLoader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("products repository is required")
	}
	if reviews == nil {
		return nil, fmt.Errorf("review loader is required")
	}
	return &service{repo: repo, reviews: reviews}, nil
}

func (s *service) Create(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	if err := validateCategories(input.MainCategory, input.SubCategory); err != nil {
		return nil, err
	}

	product := &models.Product{
		Title:           input.Title,
		Price:           input.Price,
		SKU:             input.SKU,
		MainCategory:    input.MainCategory,
		SubCategory:     input.SubCategory,
		Description:     input.Description,
		FeaturesSummary: input.FeaturesSummary,
		Images:          input.Images,
	}

	created, err := s.repo.Create(ctx, product)
	if err != nil {
		return nil, normalizeWriteErr(err)
	}
	return FromModel(created), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*ProductWithReviewsDTO, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup product")
	}

	reviews, err := s.reviews.ListByProduct(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load reviews")
	}

	return &ProductWithReviewsDTO{
		ProductDTO: *FromModel(product),
		Reviews:    reviewSummaries(reviews),
	}, nil
}

func (s *service) List(ctx context.Context, query url.Values) ([]*ProductDTO, error) {
	params, err := listing.Parse(query, ListSchema)
	if err != nil {
		return nil, err
	}
	list, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list products")
	}
	return FromModels(list), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	updates := map[string]any{}
	if input.Title != nil {
		updates["title"] = *input.Title
	}
	if input.Price != nil {
		updates["price"] = *input.Price
	}
	if input.SKU != nil {
		updates["sku"] = *input.SKU
	}
	if input.MainCategory != nil {
		if !input.MainCategory.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid main_category").
				WithDetails(map[string]any{"main_category": string(*input.MainCategory)})
		}
		updates["main_category"] = *input.MainCategory
	}
	if input.SubCategory != nil {
		if !input.SubCategory.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid sub_category").
				WithDetails(map[string]any{"sub_category": string(*input.SubCategory)})
		}
		updates["sub_category"] = *input.SubCategory
	}
	if input.Description != nil {
		updates["description"] = pq.StringArray(*input.Description)
	}
	if input.FeaturesSummary != nil {
		updates["features_summary"] = pq.StringArray(*input.FeaturesSummary)
	}
	if input.Images != nil {
		updates["images"] = pq.StringArray(*input.Images)
	}
	if len(updates) == 0 {
		product, err := s.repo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, productNotFoundMessage)
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup product")
		}
		return FromModel(product), nil
	}

	product, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, productNotFoundMessage)
		}
		return nil, normalizeWriteErr(err)
	}
	return FromModel(product), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, productNotFoundMessage)
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete product")
	}
	return nil
}

func validateCategories(main enums.MainCategory, sub enums.SubCategory) error {
	if !main.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid main_category").
			WithDetails(map[string]any{"main_category": string(main)})
	}
	if !sub.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid sub_category").
			WithDetails(map[string]any{"sub_category": string(sub)})
	}
	return nil
}

func normalizeWriteErr(err error) error {
	if db.IsUniqueViolation(err, "uq_products_title") {
		return pkgerrors.Wrap(pkgerrors.CodeDuplicate, err, "Duplicate field value: title. Please use another value!")
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write product")
}
