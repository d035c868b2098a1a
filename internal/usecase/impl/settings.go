package impl

import (
	"storefront/config"
	"storefront/internal/errors"

	"github.com/shopspring/decimal"
)

// parseShippingFee reads the flat surcharge added to every order.
func parseShippingFee(cfg *config.Config) (decimal.Decimal, error) {
	if cfg == nil || cfg.Checkout == nil || cfg.Checkout.ShippingFee == "" {
		return decimal.Zero, nil
	}

	fee, err := decimal.NewFromString(cfg.Checkout.ShippingFee)
	if err != nil {
		return decimal.Zero, errors.Wrapf(err, "invalid checkout shipping fee %q", cfg.Checkout.ShippingFee)
	}
	if fee.IsNegative() {
		return decimal.Zero, errors.Errorf("checkout shipping fee must not be negative: %s", fee)
	}

	return fee, nil
}

// pageSize returns the configured listing size, falling back to def.
func pageSize(configured, def int) int {
	if configured > 0 {
		return configured
	}

	return def
}
