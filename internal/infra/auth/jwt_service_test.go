package auth

import (
	"testing"
	"time"

	"storefront/config"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConfig() *config.Config {
	cfg := &config.Config{
		Auth: &config.AuthConfig{
			AccessTokenTTL:  time.Minute,
			RefreshTokenTTL: time.Hour,
		},
	}
	cfg.SecretKey.Access = "test_access_secret_key_very_long_for_testing"
	cfg.SecretKey.Refresh = "test_refresh_secret_key_very_long_for_testing"

	return cfg
}

func TestJWTService_GenerateAndValidateTokens(t *testing.T) {
	jwtService, err := NewJWTService(newTestConfig())
	require.NoError(t, err)

	customerID := uuid.New()
	accessToken, refreshToken, err := jwtService.GenerateTokens(customerID, entity.RoleAdmin.String())
	require.NoError(t, err)
	assert.NotEmpty(t, accessToken)
	assert.NotEmpty(t, refreshToken)

	accessClaims, err := jwtService.ValidateAccessToken(accessToken)
	require.NoError(t, err)
	assert.Equal(t, customerID, accessClaims.CustomerID)
	assert.Equal(t, "admin", accessClaims.Role)
	assert.Equal(t, service.TokenTypeAccess, accessClaims.Type)

	refreshClaims, err := jwtService.ValidateRefreshToken(refreshToken)
	require.NoError(t, err)
	assert.Equal(t, customerID, refreshClaims.CustomerID)
	assert.Empty(t, refreshClaims.Role)
	assert.Equal(t, service.TokenTypeRefresh, refreshClaims.Type)

	assert.Equal(t, time.Hour, jwtService.GetRefreshTokenDuration())
}

func TestJWTService_RejectsSwappedTokenTypes(t *testing.T) {
	jwtService, err := NewJWTService(newTestConfig())
	require.NoError(t, err)

	accessToken, refreshToken, err := jwtService.GenerateTokens(uuid.New(), "customer")
	require.NoError(t, err)

	_, err = jwtService.ValidateAccessToken(refreshToken)
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)

	_, err = jwtService.ValidateRefreshToken(accessToken)
	assert.ErrorIs(t, err, domainerrors.ErrRefreshTokenInvalid)
}

func TestJWTService_InvalidToken(t *testing.T) {
	jwtService, err := NewJWTService(newTestConfig())
	require.NoError(t, err)

	claims, err := jwtService.ValidateAccessToken("clearly-not-a-jwt-token-format")
	assert.Error(t, err)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)
}

func TestJWTService_ExpiredToken(t *testing.T) {
	cfg := newTestConfig()
	jwtService, err := NewJWTService(cfg)
	require.NoError(t, err)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, service.Claims{
		CustomerID: uuid.New(),
		Type:       service.TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})
	signed, err := expired.SignedString([]byte(cfg.SecretKey.Access))
	require.NoError(t, err)

	_, err = jwtService.ValidateAccessToken(signed)
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)
}

func TestJWTService_HashTokenIsStableAndUnique(t *testing.T) {
	jwtService, err := NewJWTService(newTestConfig())
	require.NoError(t, err)

	_, first, err := jwtService.GenerateTokens(uuid.New(), "customer")
	require.NoError(t, err)
	_, second, err := jwtService.GenerateTokens(uuid.New(), "customer")
	require.NoError(t, err)

	assert.Equal(t, jwtService.HashToken(first), jwtService.HashToken(first))
	assert.Len(t, jwtService.HashToken(first), 64)
	assert.NotEqual(t, jwtService.HashToken(first), jwtService.HashToken(second))
}

func TestNewJWTService_RequiresSecrets(t *testing.T) {
	_, err := NewJWTService(&config.Config{})
	assert.Error(t, err)
}
