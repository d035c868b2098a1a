package service

import (
	"context"
	"time"
)

// Event types published after a committed change.
const (
	EventOrderPlaced            = "order.placed"
	EventAccountRegistered      = "account.registered"
	EventAccountPasswordChanged = "account.password_changed"
)

// OrderPlacedItem is one line of an OrderPlacedEvent.
type OrderPlacedItem struct {
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	Price       string `json:"price"`
}

// OrderPlacedEvent announces a committed checkout to the notifier worker.
type OrderPlacedEvent struct {
	RequestID       string            `json:"request_id,omitempty"` // For distributed tracing
	OrderID         string            `json:"order_id"`
	CustomerID      string            `json:"customer_id"`
	CustomerEmail   string            `json:"customer_email"`
	CustomerName    string            `json:"customer_name"`
	Total           string            `json:"total"`
	ShippingFee     string            `json:"shipping_fee"`
	ShippingAddress string            `json:"shipping_address"`
	Items           []OrderPlacedItem `json:"items"`
	PlacedAt        time.Time         `json:"placed_at"`
}

// AccountEvent announces an account change that warrants an e-mail.
type AccountEvent struct {
	RequestID  string    `json:"request_id,omitempty"`
	Type       string    `json:"type"`
	CustomerID string    `json:"customer_id"`
	Email      string    `json:"email"`
	Username   string    `json:"username"`
	OccurredAt time.Time `json:"occurred_at"`
}

// EventPublisher defines the interface for publishing events to a message queue
type EventPublisher interface {
	// PublishOrderPlaced publishes an order confirmation event
	PublishOrderPlaced(ctx context.Context, event *OrderPlacedEvent) error

	// PublishAccountEvent publishes an account notification event
	PublishAccountEvent(ctx context.Context, event *AccountEvent) error

	// Close releases any resources held by the publisher
	Close() error
}
