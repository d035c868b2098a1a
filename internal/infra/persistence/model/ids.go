// Package model contains the GORM row types. IDs are UUIDv7 assigned before insert.
package model

import (
	"github.com/google/uuid"
	"storefront/internal/errors"
)

// assignID fills an empty primary key with a time-ordered UUID.
func assignID(id *uuid.UUID) error {
	if *id != uuid.Nil {
		return nil
	}

	generated, err := uuid.NewV7()
	if err != nil {
		return errors.Wrap(err, "failed to generate id")
	}
	*id = generated

	return nil
}

// All lists every model, in dependency order, for AutoMigrate in tests and tooling.
func All() []any {
	return []any{
		&CustomerModel{},
		&RefreshTokenModel{},
		&CategoryModel{},
		&ProductModel{},
		&CartLineModel{},
		&OrderModel{},
		&OrderItemModel{},
		&ShippingAddressModel{},
		&WishlistItemModel{},
	}
}
