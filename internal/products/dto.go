package products

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/audiohive/audiohive-backend/pkg/db/models"
	"github.com/audiohive/audiohive-backend/pkg/enums"
)

// ProductDTO is the catalog transport shape.
type ProductDTO struct {
	ID              uuid.UUID          `json:"id"`
	Title           string             `json:"title"`
	Price           decimal.Decimal    `json:"price"`
	SKU             *string            `json:"sku,omitempty"`
	MainCategory    enums.MainCategory `json:"main_category"`
	SubCategory     enums.SubCategory  `json:"sub_category"`
	Description     []string           `json:"description"`
	FeaturesSummary []string           `json:"features_summary"`
	Images          []string           `json:"images"`
	RatingsAverage  float64            `json:"ratings_average"`
	RatingsQuantity int                `json:"ratings_quantity"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

// ProductWithReviewsDTO augments a product with its review set for the
// detail endpoint.
type ProductWithReviewsDTO struct {
	ProductDTO
	Reviews []ReviewSummary `json:"reviews"`
}

// ReviewSummary is the review shape embedded in a product detail response.
type ReviewSummary struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Rating    int       `json:"rating"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	Title           string
	Price           decimal.Decimal
	SKU             *string
	MainCategory    enums.MainCategory
	SubCategory     enums.SubCategory
	Description     []string
	FeaturesSummary []string
	Images          []string
}

// UpdateProductInput holds optional mutation values for a product. The
// rating aggregates are absent on purpose; only review writes move them.
type UpdateProductInput struct {
	Title           *string
	Price           *decimal.Decimal
	SKU             *string
	MainCategory    *enums.MainCategory
	SubCategory     *enums.SubCategory
	Description     *[]string
	FeaturesSummary *[]string
	Images          *[]string
}

func FromModel(p *models.Product) *ProductDTO {
	if p == nil {
		return nil
	}

	return &ProductDTO{
		ID:              p.ID,
		Title:           p.Title,
		Price:           p.Price,
		SKU:             p.SKU,
		MainCategory:    p.MainCategory,
		SubCategory:     p.SubCategory,
		Description:     p.Description,
		FeaturesSummary: p.FeaturesSummary,
		Images:          p.Images,
		RatingsAverage:  p.RatingsAverage,
		RatingsQuantity: p.RatingsQuantity,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

func FromModels(list []models.Product) []*ProductDTO {
	out := make([]*ProductDTO, 0, len(list))
	for i := range list {
		out = append(out, FromModel(&list[i]))
	}
	return out
}

func reviewSummaries(list []models.Review) []ReviewSummary {
	out := make([]ReviewSummary, 0, len(list))
	for _, r := range list {
		out = append(out, ReviewSummary{
			ID:        r.ID,
			UserID:    r.UserID,
			Rating:    r.Rating,
			Body:      r.Body,
			CreatedAt: r.CreatedAt,
		})
	}
	return out
}
