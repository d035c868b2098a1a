package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CategoryModel mirrors the 'categories' table.
type CategoryModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name        string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_categories_name"`
	Description string    `gorm:"type:text"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName explicitly sets the table name for GORM.
func (CategoryModel) TableName() string {
	return "categories"
}

// BeforeCreate assigns the primary key.
func (m *CategoryModel) BeforeCreate(*gorm.DB) error {
	return assignID(&m.ID)
}

// ProductModel mirrors the 'products' table. Rows are soft-deleted so order
// items keep a valid reference.
type ProductModel struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Name          string          `gorm:"type:varchar(150);not null;index"`
	Description   string          `gorm:"type:text"`
	CurrentPrice  decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	PreviousPrice decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	StockQuantity int             `gorm:"not null;check:chk_products_stock_non_negative,stock_quantity >= 0"`
	InStock       bool            `gorm:"not null"`
	FlashSale     bool            `gorm:"not null;index"`
	PictureKey    string          `gorm:"type:varchar(255)"`
	CategoryID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	CreatedBy     *uuid.UUID      `gorm:"type:uuid"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     gorm.DeletedAt `gorm:"index"`

	Category *CategoryModel `gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT"`
	Creator  *CustomerModel `gorm:"foreignKey:CreatedBy;constraint:OnDelete:SET NULL"`
}

// TableName explicitly sets the table name for GORM.
func (ProductModel) TableName() string {
	return "products"
}

// BeforeCreate assigns the primary key.
func (m *ProductModel) BeforeCreate(*gorm.DB) error {
	return assignID(&m.ID)
}
