package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WishlistItemModel mirrors the 'wishlist_items' table.
type WishlistItemModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	CustomerID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_wishlist_items_customer_product,priority:1"`
	ProductID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_wishlist_items_customer_product,priority:2;index:idx_wishlist_items_product"`
	CreatedAt  time.Time

	Customer *CustomerModel `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE"`
	Product  *ProductModel  `gorm:"foreignKey:ProductID"`
}

// TableName explicitly sets the table name for GORM.
func (WishlistItemModel) TableName() string {
	return "wishlist_items"
}

// BeforeCreate assigns the primary key.
func (m *WishlistItemModel) BeforeCreate(*gorm.DB) error {
	return assignID(&m.ID)
}
