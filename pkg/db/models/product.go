package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/audiohive/audiohive-backend/pkg/enums"
)

// Product represents a catalog listing. RatingsAverage and RatingsQuantity
// are derived from the product's review set and rewritten on every review
// mutation; they must never be set directly by callers.
type Product struct {
	ID              uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Title           string             `gorm:"column:title;not null;uniqueIndex:uq_products_title"`
	Price           decimal.Decimal    `gorm:"column:price;type:numeric(10,2);not null"`
	SKU             *string            `gorm:"column:sku"`
	MainCategory    enums.MainCategory `gorm:"column:main_category;type:text;not null"`
	SubCategory     enums.SubCategory  `gorm:"column:sub_category;type:text;not null"`
	Description     pq.StringArray     `gorm:"column:description;type:text[];not null;default:ARRAY[]::text[]"`
	FeaturesSummary pq.StringArray     `gorm:"column:features_summary;type:text[];not null;default:ARRAY[]::text[]"`
	Images          pq.StringArray     `gorm:"column:images;type:text[];not null;default:ARRAY[]::text[]"`
	RatingsAverage  float64            `gorm:"column:ratings_average;type:numeric(3,2);not null;default:0"`
	RatingsQuantity int                `gorm:"column:ratings_quantity;not null;default:0"`
	CreatedAt       time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
