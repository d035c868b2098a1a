package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CustomerModel mirrors the 'customers' table.
type CustomerModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email         string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_customers_email"`
	Username      string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_customers_username"`
	PhoneNumber   string    `gorm:"type:varchar(30)"`
	Address       string    `gorm:"type:text"`
	PasswordHash  string    `gorm:"type:varchar(255);not null"`
	Role          string    `gorm:"type:varchar(20);not null;index"`
	LoginAttempts int       `gorm:"not null"`
	LastAttemptAt *time.Time
	LockedUntil   *time.Time
	LastLoginAt   *time.Time
	IsFirstLogin  bool `gorm:"not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TableName explicitly sets the table name for GORM.
func (CustomerModel) TableName() string {
	return "customers"
}

// BeforeCreate assigns the primary key.
func (m *CustomerModel) BeforeCreate(*gorm.DB) error {
	return assignID(&m.ID)
}
