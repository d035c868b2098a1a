package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderModel mirrors the 'orders' table.
type OrderModel struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CustomerID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Status          string          `gorm:"type:varchar(30);not null;index"`
	Total           decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	ShippingFee     decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	ShippingAddress string          `gorm:"type:text"`
	PaymentMethod   string          `gorm:"type:varchar(30);not null"`
	PaymentStatus   string          `gorm:"type:varchar(20);not null"`
	CreatedAt       time.Time       `gorm:"index"`
	UpdatedAt       time.Time

	Customer *CustomerModel    `gorm:"foreignKey:CustomerID"`
	Items    []*OrderItemModel `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName explicitly sets the table name for GORM.
func (OrderModel) TableName() string {
	return "orders"
}

// BeforeCreate assigns the primary key.
func (m *OrderModel) BeforeCreate(*gorm.DB) error {
	return assignID(&m.ID)
}

// OrderItemModel mirrors the 'order_items' table. Price and ProductName are
// snapshots taken at checkout.
type OrderItemModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName string          `gorm:"type:varchar(150);not null"`
	Quantity    int             `gorm:"not null;check:chk_order_items_quantity_positive,quantity > 0"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null"`

	Product *ProductModel `gorm:"foreignKey:ProductID"`
}

// TableName explicitly sets the table name for GORM.
func (OrderItemModel) TableName() string {
	return "order_items"
}

// BeforeCreate assigns the primary key.
func (m *OrderItemModel) BeforeCreate(*gorm.DB) error {
	return assignID(&m.ID)
}
