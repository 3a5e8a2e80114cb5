package models

import (
	"time"

	"github.com/google/uuid"
)

// Review references exactly one product and one user. The (product_id,
// user_id) pair is unique: a user reviews a given product at most once.
// References are one-directional foreign keys; related rows are fetched
// with explicit query-time lookups, never model back-pointers.
type Review struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null;uniqueIndex:uq_reviews_product_user,priority:1"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:uq_reviews_product_user,priority:2"`
	Rating    int       `gorm:"column:rating;not null"`
	Body      string    `gorm:"column:body;not null;default:''"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
