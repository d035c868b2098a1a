package service

import "time"

// CheckoutMetrics records the outcome of order placements.
type CheckoutMetrics interface {
	// ObserveCheckout records one checkout attempt; outcome is "success" or a failure code.
	ObserveCheckout(outcome string, elapsed time.Duration)

	// AddItemsSold counts units leaving stock through orders.
	AddItemsSold(units int)
}
