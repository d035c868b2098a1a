package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ShippingAddress is a saved delivery address of a customer.
type ShippingAddress struct {
	ID            uuid.UUID
	CustomerID    uuid.UUID
	RecipientName string
	Street        string
	City          string
	Region        string
	PostalCode    string
	Phone         string
	IsPrimary     bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Format renders the address as the single line stored on orders.
func (a *ShippingAddress) Format() string {
	parts := make([]string, 0, 5)
	for _, part := range []string{a.RecipientName, a.Street, a.City, a.Region, a.PostalCode} {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}

	return strings.Join(parts, ", ")
}
