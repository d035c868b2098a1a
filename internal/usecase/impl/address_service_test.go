package impl

import (
	"context"
	"testing"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestAddressService(t *testing.T) (*testEnv, usecase.AddressUsecase) {
	env := newTestEnv(t)

	return env, NewAddressService(AddressServiceParams{
		TxManager:   env.txManager,
		AddressRepo: env.addresses,
		Logger:      newDiscardLogger(),
	})
}

func addressInput(street string, primary bool) *usecase.AddressInput {
	return &usecase.AddressInput{
		RecipientName: "Ana Lee",
		Street:        street,
		City:          "Springfield",
		PostalCode:    "12345",
		IsPrimary:     primary,
	}
}

func primaryOf(addresses []*entity.ShippingAddress) []uuid.UUID {
	var ids []uuid.UUID
	for _, address := range addresses {
		if address.IsPrimary {
			ids = append(ids, address.ID)
		}
	}

	return ids
}

func TestAddressService_Create(t *testing.T) {
	env, srv := createTestAddressService(t)
	ctx := context.Background()
	customer := env.customer(t, entity.RoleCustomer, "")

	first, err := srv.CreateAddress(ctx, customer.ID, addressInput("1 Main St", false))
	require.NoError(t, err)
	assert.True(t, first.IsPrimary, "the first address becomes primary")

	second, err := srv.CreateAddress(ctx, customer.ID, addressInput("2 Side St", false))
	require.NoError(t, err)
	assert.False(t, second.IsPrimary)

	third, err := srv.CreateAddress(ctx, customer.ID, addressInput("3 High St", true))
	require.NoError(t, err)

	addresses, err := srv.ListAddresses(ctx, customer.ID)
	require.NoError(t, err)
	require.Len(t, addresses, 3)
	assert.Equal(t, []uuid.UUID{third.ID}, primaryOf(addresses))
	assert.Equal(t, third.ID, addresses[0].ID, "primary is listed first")

	_, err = srv.CreateAddress(ctx, customer.ID, &usecase.AddressInput{RecipientName: "Ana", City: "Springfield"})
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
}

func TestAddressService_UpdateAndSetPrimary(t *testing.T) {
	env, srv := createTestAddressService(t)
	ctx := context.Background()
	customer := env.customer(t, entity.RoleCustomer, "")
	stranger := env.customer(t, entity.RoleCustomer, "")

	first, err := srv.CreateAddress(ctx, customer.ID, addressInput("1 Main St", false))
	require.NoError(t, err)
	second, err := srv.CreateAddress(ctx, customer.ID, addressInput("2 Side St", false))
	require.NoError(t, err)

	updated, err := srv.UpdateAddress(ctx, customer.ID, first.ID, addressInput("1A Main St", false))
	require.NoError(t, err)
	assert.Equal(t, "1A Main St", updated.Street)
	assert.True(t, updated.IsPrimary, "an update cannot drop the primary flag")

	promoted, err := srv.SetPrimaryAddress(ctx, customer.ID, second.ID)
	require.NoError(t, err)
	assert.True(t, promoted.IsPrimary)

	addresses, err := srv.ListAddresses(ctx, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{second.ID}, primaryOf(addresses))

	_, err = srv.UpdateAddress(ctx, stranger.ID, first.ID, addressInput("9 Evil St", false))
	assert.ErrorIs(t, err, domainerrors.ErrAddressOwnership)

	_, err = srv.SetPrimaryAddress(ctx, customer.ID, uuid.New())
	assert.ErrorIs(t, err, domainerrors.ErrAddressNotFound)
}

func TestAddressService_Delete(t *testing.T) {
	env, srv := createTestAddressService(t)
	ctx := context.Background()
	customer := env.customer(t, entity.RoleCustomer, "")
	stranger := env.customer(t, entity.RoleCustomer, "")

	first, err := srv.CreateAddress(ctx, customer.ID, addressInput("1 Main St", false))
	require.NoError(t, err)
	second, err := srv.CreateAddress(ctx, customer.ID, addressInput("2 Side St", false))
	require.NoError(t, err)
	_, err = srv.CreateAddress(ctx, customer.ID, addressInput("3 High St", false))
	require.NoError(t, err)

	assert.ErrorIs(t, srv.DeleteAddress(ctx, stranger.ID, first.ID), domainerrors.ErrAddressOwnership)

	require.NoError(t, srv.DeleteAddress(ctx, customer.ID, first.ID))

	addresses, err := srv.ListAddresses(ctx, customer.ID)
	require.NoError(t, err)
	require.Len(t, addresses, 2)
	assert.Equal(t, []uuid.UUID{second.ID}, primaryOf(addresses), "the oldest remaining address takes over")

	assert.ErrorIs(t, srv.DeleteAddress(ctx, customer.ID, first.ID), domainerrors.ErrAddressNotFound)
}
