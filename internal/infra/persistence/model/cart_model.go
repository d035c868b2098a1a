package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CartLineModel mirrors the 'cart_lines' table; one row per (customer, product).
type CartLineModel struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CustomerID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_cart_lines_customer_product,priority:1"`
	ProductID  uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_cart_lines_customer_product,priority:2;index:idx_cart_lines_product"`
	Quantity   int             `gorm:"not null;check:chk_cart_lines_quantity_positive,quantity > 0"`
	TotalPrice decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Customer *CustomerModel `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE"`
	Product  *ProductModel  `gorm:"foreignKey:ProductID"`
}

// TableName explicitly sets the table name for GORM.
func (CartLineModel) TableName() string {
	return "cart_lines"
}

// BeforeCreate assigns the primary key.
func (m *CartLineModel) BeforeCreate(*gorm.DB) error {
	return assignID(&m.ID)
}
