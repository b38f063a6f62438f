package auth

import (
	"testing"
	"time"

	"github.com/bizfin/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:                 "test-access-secret-for-unit-tests",
		RefreshSecret:          "test-refresh-secret-for-unit-tests",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 168 * time.Hour,
		Issuer:                 "bizfin-test",
		MaxRefreshCount:        3,
	})
}

func TestJWTService_GenerateTokenPair(t *testing.T) {
	svc := newTestJWTService()
	userID := uuid.New()
	businessID := uuid.New()

	pair, err := svc.GenerateTokenPair(GenerateTokenInput{
		UserID:     userID,
		Email:      "owner@example.com",
		BusinessID: businessID,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, "Bearer", pair.TokenType)
	assert.True(t, pair.AccessTokenExpiresAt.After(time.Now()))
	assert.True(t, pair.RefreshTokenExpiresAt.After(pair.AccessTokenExpiresAt))

	t.Run("access token claims", func(t *testing.T) {
		claims, err := svc.ValidateAccessToken(pair.AccessToken)
		require.NoError(t, err)

		assert.Equal(t, userID.String(), claims.UserID)
		assert.Equal(t, "owner@example.com", claims.Email)
		assert.Equal(t, businessID.String(), claims.BusinessID)
		assert.Equal(t, TokenTypeAccess, claims.TokenType)

		parsed, err := claims.GetBusinessUUID()
		require.NoError(t, err)
		assert.Equal(t, businessID, parsed)
	})

	t.Run("refresh token carries minimal claims", func(t *testing.T) {
		claims, err := svc.ValidateRefreshToken(pair.RefreshToken)
		require.NoError(t, err)

		assert.Equal(t, userID.String(), claims.UserID)
		assert.Empty(t, claims.Email)
		assert.Equal(t, TokenTypeRefresh, claims.TokenType)
		assert.Equal(t, 0, claims.RefreshCount)
	})

	t.Run("no business yields empty claim", func(t *testing.T) {
		pair, err := svc.GenerateTokenPair(GenerateTokenInput{
			UserID: userID,
			Email:  "owner@example.com",
		})
		require.NoError(t, err)

		claims, err := svc.ValidateAccessToken(pair.AccessToken)
		require.NoError(t, err)

		id, err := claims.GetBusinessUUID()
		require.NoError(t, err)
		assert.Equal(t, uuid.Nil, id)
	})
}

func TestJWTService_ValidateAccessToken(t *testing.T) {
	svc := newTestJWTService()

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := svc.ValidateAccessToken("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects refresh token as access token", func(t *testing.T) {
		pair, err := svc.GenerateTokenPair(GenerateTokenInput{UserID: uuid.New()})
		require.NoError(t, err)

		_, err = svc.ValidateAccessToken(pair.RefreshToken)
		assert.Error(t, err)
	})

	t.Run("rejects token signed with other secret", func(t *testing.T) {
		other := NewJWTService(config.JWTConfig{
			Secret:                 "a-completely-different-secret-key",
			AccessTokenExpiration:  time.Minute,
			RefreshTokenExpiration: time.Hour,
			Issuer:                 "other",
			MaxRefreshCount:        1,
		})
		pair, err := other.GenerateTokenPair(GenerateTokenInput{UserID: uuid.New()})
		require.NoError(t, err)

		_, err = svc.ValidateAccessToken(pair.AccessToken)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects expired token", func(t *testing.T) {
		expired := NewJWTService(config.JWTConfig{
			Secret:                 "test-access-secret-for-unit-tests",
			RefreshSecret:          "test-refresh-secret-for-unit-tests",
			AccessTokenExpiration:  -time.Minute,
			RefreshTokenExpiration: time.Hour,
			Issuer:                 "bizfin-test",
			MaxRefreshCount:        1,
		})
		pair, err := expired.GenerateTokenPair(GenerateTokenInput{UserID: uuid.New()})
		require.NoError(t, err)

		_, err = svc.ValidateAccessToken(pair.AccessToken)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})
}

func TestJWTService_RefreshTokenPair(t *testing.T) {
	svc := newTestJWTService()
	userID := uuid.New()
	businessID := uuid.New()

	pair, err := svc.GenerateTokenPair(GenerateTokenInput{
		UserID:     userID,
		Email:      "owner@example.com",
		BusinessID: businessID,
	})
	require.NoError(t, err)

	t.Run("issues new pair with incremented count", func(t *testing.T) {
		refreshed, err := svc.RefreshTokenPair(pair.RefreshToken, "owner@example.com", businessID)
		require.NoError(t, err)

		claims, err := svc.ValidateRefreshToken(refreshed.RefreshToken)
		require.NoError(t, err)
		assert.Equal(t, 1, claims.RefreshCount)

		accessClaims, err := svc.ValidateAccessToken(refreshed.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, businessID.String(), accessClaims.BusinessID)
	})

	t.Run("enforces max refresh count", func(t *testing.T) {
		current := pair.RefreshToken
		for i := 0; i < 3; i++ {
			refreshed, err := svc.RefreshTokenPair(current, "owner@example.com", businessID)
			require.NoError(t, err)
			current = refreshed.RefreshToken
		}

		_, err := svc.RefreshTokenPair(current, "owner@example.com", businessID)
		assert.ErrorIs(t, err, ErrMaxRefreshExceeded)
	})

	t.Run("rejects access token as refresh token", func(t *testing.T) {
		_, err := svc.RefreshTokenPair(pair.AccessToken, "owner@example.com", businessID)
		assert.Error(t, err)
	})
}
