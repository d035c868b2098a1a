package usecase

import (
	"context"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// CheckoutFailure classifies an order placement that did not produce an order.
type CheckoutFailure string

const (
	CheckoutSucceeded     CheckoutFailure = ""
	FailureEmptyCart      CheckoutFailure = "EMPTY_CART"
	FailureStockShortfall CheckoutFailure = "STOCK_SHORTFALL"
	FailureInternal       CheckoutFailure = "CHECKOUT_FAILED"
)

// Outcome returns the label recorded in checkout metrics.
func (f CheckoutFailure) Outcome() string {
	if f == CheckoutSucceeded {
		return "success"
	}

	return string(f)
}

// StockShortfall reports a cart line that asks for more than is in stock.
type StockShortfall struct {
	ProductID   uuid.UUID
	ProductName string
	Requested   int
	Available   int
}

// PlaceOrderInput selects where the order is shipped.
// Without AddressID the customer's stored address is used.
type PlaceOrderInput struct {
	AddressID *uuid.UUID
}

// CheckoutResult is the outcome of an order placement. Exactly one of Order
// or Failure is set; Shortfalls accompany FailureStockShortfall.
type CheckoutResult struct {
	Order      *entity.Order
	Failure    CheckoutFailure
	Shortfalls []StockShortfall
}

// Succeeded reports whether an order was placed.
func (r *CheckoutResult) Succeeded() bool {
	return r.Failure == CheckoutSucceeded && r.Order != nil
}

// CheckoutUsecase converts a cart into an order.
type CheckoutUsecase interface {
	// PlaceOrder runs the order-placement transaction. Business failures are
	// reported in the result; the error is reserved for unmet preconditions
	// such as an unknown customer or a staff account.
	PlaceOrder(ctx context.Context, customerID uuid.UUID, input *PlaceOrderInput) (*CheckoutResult, error)
}
