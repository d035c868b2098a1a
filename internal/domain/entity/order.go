package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus is the fulfilment state of an order.
type OrderStatus string

const (
	OrderStatusPending        OrderStatus = "pending"
	OrderStatusAccepted       OrderStatus = "accepted"
	OrderStatusOutForDelivery OrderStatus = "out_for_delivery"
	OrderStatusDelivered      OrderStatus = "delivered"
	OrderStatusCanceled       OrderStatus = "canceled"
)

// orderTransitions lists the statuses reachable from each status.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:        {OrderStatusAccepted, OrderStatusCanceled},
	OrderStatusAccepted:       {OrderStatusOutForDelivery, OrderStatusCanceled},
	OrderStatusOutForDelivery: {OrderStatusDelivered},
}

// IsValid checks if the status is known.
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusAccepted, OrderStatusOutForDelivery,
		OrderStatusDelivered, OrderStatusCanceled:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further transition is possible.
func (s OrderStatus) IsTerminal() bool {
	return len(orderTransitions[s]) == 0
}

// CanTransitionTo reports whether moving from s to next is allowed.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}

	return false
}

// PaymentMethod is how an order is paid.
type PaymentMethod string

const PaymentMethodCashOnDelivery PaymentMethod = "cash_on_delivery"

// PaymentStatus tracks whether the order has been paid.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
)

// Order is the immutable record of a completed checkout. Only Status and
// PaymentStatus change after creation.
type Order struct {
	ID              uuid.UUID
	CustomerID      uuid.UUID
	Status          OrderStatus
	Total           decimal.Decimal
	ShippingFee     decimal.Decimal
	ShippingAddress string
	PaymentMethod   PaymentMethod
	PaymentStatus   PaymentStatus
	Items           []*OrderItem
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// OrderItem is a price-snapshotted line of an order. Price is the product's
// price at checkout time and is never recomputed.
type OrderItem struct {
	ID          uuid.UUID
	OrderID     uuid.UUID
	ProductID   uuid.UUID
	ProductName string
	Quantity    int
	Price       decimal.Decimal
}

// LineTotal returns quantity × snapshot price.
func (i *OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// OrderFilter narrows an order listing.
type OrderFilter struct {
	CustomerID *uuid.UUID
	Status     *OrderStatus
	Page       PageRequest
}

// DashboardStats summarises the store for the back office.
type DashboardStats struct {
	Customers     int64
	Products      int64
	Orders        int64
	PendingOrders int64
	RecentOrders  []*Order
}
