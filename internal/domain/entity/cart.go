package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartLine is one (customer, product) pair the customer intends to buy.
// Quantity is always at least one; a line reaching zero is deleted.
type CartLine struct {
	ID         uuid.UUID
	CustomerID uuid.UUID
	ProductID  uuid.UUID
	Quantity   int
	TotalPrice decimal.Decimal
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Product *Product // populated on reads that join the catalog
}

// Reprice recomputes the cached line total from a unit price.
func (l *CartLine) Reprice(unitPrice decimal.Decimal) {
	l.TotalPrice = unitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is the priced view of a customer's cart lines.
type Cart struct {
	CustomerID  uuid.UUID
	Lines       []*CartLine
	Subtotal    decimal.Decimal
	ShippingFee decimal.Decimal
	Total       decimal.Decimal
}

// NewCart prices the lines against their current product prices.
func NewCart(customerID uuid.UUID, lines []*CartLine, shippingFee decimal.Decimal) *Cart {
	subtotal := decimal.Zero
	for _, line := range lines {
		if line.Product != nil {
			line.Reprice(line.Product.CurrentPrice)
		}
		subtotal = subtotal.Add(line.TotalPrice)
	}

	cart := &Cart{
		CustomerID: customerID,
		Lines:      lines,
		Subtotal:   subtotal,
	}
	if len(lines) > 0 {
		cart.ShippingFee = shippingFee
	}
	cart.Total = cart.Subtotal.Add(cart.ShippingFee)

	return cart
}
