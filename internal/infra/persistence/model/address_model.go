package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ShippingAddressModel mirrors the 'shipping_addresses' table.
type ShippingAddressModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	CustomerID    uuid.UUID `gorm:"type:uuid;not null;index"`
	RecipientName string    `gorm:"type:varchar(100);not null"`
	Street        string    `gorm:"type:varchar(255);not null"`
	City          string    `gorm:"type:varchar(100);not null"`
	Region        string    `gorm:"type:varchar(100)"`
	PostalCode    string    `gorm:"type:varchar(20)"`
	Phone         string    `gorm:"type:varchar(30)"`
	IsPrimary     bool      `gorm:"not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Customer *CustomerModel `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE"`
}

// TableName explicitly sets the table name for GORM.
func (ShippingAddressModel) TableName() string {
	return "shipping_addresses"
}

// BeforeCreate assigns the primary key.
func (m *ShippingAddressModel) BeforeCreate(*gorm.DB) error {
	return assignID(&m.ID)
}
