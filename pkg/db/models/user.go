package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/audiohive/audiohive-backend/pkg/enums"
)

// User represents the canonical identity entity. Accounts are never
// hard-deleted; Active=false soft-deletes the record out of default reads.
type User struct {
	ID                   uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name                 string         `gorm:"column:name;not null"`
	Email                string         `gorm:"type:text;not null;uniqueIndex:uq_users_email"`
	PasswordHash         string         `gorm:"column:password_hash;not null"`
	Role                 enums.UserRole `gorm:"column:role;type:text;not null;default:user"`
	Active               bool           `gorm:"column:active;not null;default:true"`
	PasswordChangedAt    *time.Time     `gorm:"column:password_changed_at"`
	PasswordResetToken   *string        `gorm:"column:password_reset_token"`
	PasswordResetExpires *time.Time     `gorm:"column:password_reset_expires"`
	CreatedAt            time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
