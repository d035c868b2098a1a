package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a sellable catalog item.
type Product struct {
	ID            uuid.UUID
	Name          string
	Description   string
	CurrentPrice  decimal.Decimal
	PreviousPrice decimal.Decimal
	StockQuantity int
	InStock       bool
	FlashSale     bool
	PictureKey    string
	CategoryID    uuid.UUID
	CreatedBy     *uuid.UUID
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// SetStock assigns the stock quantity and keeps the in-stock flag derived from it.
func (p *Product) SetStock(quantity int) {
	p.StockQuantity = quantity
	p.InStock = quantity > 0
}

// CanSupply reports whether the requested quantity is available.
func (p *Product) CanSupply(quantity int) bool {
	return quantity > 0 && quantity <= p.StockQuantity
}

// ProductSort is a column products can be ordered by.
type ProductSort string

const (
	ProductSortName      ProductSort = "name"
	ProductSortPrice     ProductSort = "price"
	ProductSortCreatedAt ProductSort = "created_at"
)

// IsValid checks if the sort column is supported.
func (s ProductSort) IsValid() bool {
	switch s {
	case ProductSortName, ProductSortPrice, ProductSortCreatedAt:
		return true
	default:
		return false
	}
}

// ProductFilter narrows a product listing.
type ProductFilter struct {
	Query      string
	CategoryID *uuid.UUID
	FlashSale  bool
	Sort       ProductSort
	Descending bool
	Page       PageRequest
}
