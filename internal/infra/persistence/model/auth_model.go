package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RefreshTokenModel mirrors the 'refresh_tokens' table. Only the SHA-256 hash of the token is stored.
type RefreshTokenModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	CustomerID uuid.UUID `gorm:"type:uuid;not null;index"`
	TokenHash  string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_refresh_tokens_hash"`
	ExpiresAt  time.Time `gorm:"not null;index"`
	CreatedAt  time.Time

	Customer *CustomerModel `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE"`
}

// TableName explicitly sets the table name for GORM.
func (RefreshTokenModel) TableName() string {
	return "refresh_tokens"
}

// BeforeCreate assigns the primary key.
func (m *RefreshTokenModel) BeforeCreate(*gorm.DB) error {
	return assignID(&m.ID)
}
