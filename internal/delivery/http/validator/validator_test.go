package validator

import (
	"testing"

	domainerrors "storefront/internal/domain/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signUp struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,max=8"`
	Role     string `json:"role" validate:"omitempty,oneof=admin super_admin"`
	Quantity int    `json:"quantity" validate:"min=1"`
}

func TestValidator(t *testing.T) {
	v := New()

	require.NoError(t, v.Validate(&signUp{Email: "ana@example.com", Username: "ana", Quantity: 1}))

	err := v.Validate(&signUp{Email: "nope", Username: "much-too-long", Role: "owner"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)

	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Contains(t, appErr.Details(), "email: must be a valid e-mail address")
	assert.Contains(t, appErr.Details(), "username: must be at most 8")
	assert.Contains(t, appErr.Details(), "role: must be one of [admin super_admin]")
	assert.Contains(t, appErr.Details(), "quantity: must be at least 1")
}
