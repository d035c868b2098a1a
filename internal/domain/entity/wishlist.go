package entity

import (
	"time"

	"github.com/google/uuid"
)

// WishlistItem is a product a customer saved for later.
type WishlistItem struct {
	ID         uuid.UUID
	CustomerID uuid.UUID
	ProductID  uuid.UUID
	CreatedAt  time.Time

	Product *Product
}
