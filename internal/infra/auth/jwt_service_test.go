package auth

import (
	"testing"
	"time"

	"triplan/config"
	"triplan/internal/domain/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConfig() *config.Config {
	cfg := &config.Config{}
	cfg.SecretKey.Access = "test_access_secret_key_very_long_for_testing"
	cfg.SecretKey.Refresh = "test_refresh_secret_key_very_long_for_testing"
	cfg.Token = &config.TokenConfig{
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 7 * 24 * time.Hour,
	}

	return cfg
}

func TestJWTService_GenerateAndValidateTokens(t *testing.T) {
	jwtService, err := NewJWTService(newTestConfig())
	require.NoError(t, err)
	require.NotNil(t, jwtService)

	userID := uuid.New()
	email := "test@example.com"

	accessToken, refreshToken, err := jwtService.GenerateTokens(userID, email)
	require.NoError(t, err)
	assert.NotEmpty(t, accessToken)
	assert.NotEmpty(t, refreshToken)

	accessClaims, err := jwtService.ValidateAccessToken(accessToken)
	require.NoError(t, err)
	assert.Equal(t, userID, accessClaims.UserID)
	assert.Equal(t, email, accessClaims.Email)
	assert.Equal(t, "access", accessClaims.Type)

	refreshClaims, err := jwtService.ValidateRefreshToken(refreshToken)
	require.NoError(t, err)
	assert.Equal(t, userID, refreshClaims.UserID)
	assert.Equal(t, "refresh", refreshClaims.Type)
}

func TestJWTService_TokenKindSeparation(t *testing.T) {
	jwtService, err := NewJWTService(newTestConfig())
	require.NoError(t, err)

	accessToken, refreshToken, err := jwtService.GenerateTokens(uuid.New(), "kind@example.com")
	require.NoError(t, err)

	// A refresh token must never verify against the access verifier.
	claims, err := jwtService.ValidateAccessToken(refreshToken)
	assert.ErrorIs(t, err, service.ErrTokenInvalid)
	assert.Nil(t, claims)

	// And vice versa.
	claims, err = jwtService.ValidateRefreshToken(accessToken)
	assert.ErrorIs(t, err, service.ErrTokenInvalid)
	assert.Nil(t, claims)
}

func TestJWTService_ExpiredToken(t *testing.T) {
	cfg := newTestConfig()
	cfg.Token.AccessTTL = -time.Minute

	jwtService, err := NewJWTService(cfg)
	require.NoError(t, err)

	accessToken, err := jwtService.GenerateAccessToken(uuid.New(), "expired@example.com")
	require.NoError(t, err)

	claims, err := jwtService.ValidateAccessToken(accessToken)
	assert.ErrorIs(t, err, service.ErrTokenExpired)
	assert.Nil(t, claims)
}

func TestJWTService_HonorsConfiguredLifetimes(t *testing.T) {
	cfg := newTestConfig()
	cfg.Token.AccessTTL = -time.Minute
	cfg.Token.RefreshTTL = time.Hour

	jwtService, err := NewJWTService(cfg)
	require.NoError(t, err)

	// Configured lifetimes pass through unchanged; a negative lifetime is
	// not silently replaced by the default.
	assert.Equal(t, -time.Minute, jwtService.AccessTokenDuration())
	assert.Equal(t, time.Hour, jwtService.RefreshTokenDuration())

	// Only a zero lifetime falls back to the defaults.
	cfg = newTestConfig()
	cfg.Token.AccessTTL = 0
	cfg.Token.RefreshTTL = 0

	jwtService, err = NewJWTService(cfg)
	require.NoError(t, err)
	assert.Equal(t, 15*time.Minute, jwtService.AccessTokenDuration())
	assert.Equal(t, 7*24*time.Hour, jwtService.RefreshTokenDuration())
}

func TestJWTService_InvalidToken(t *testing.T) {
	jwtService, err := NewJWTService(newTestConfig())
	require.NoError(t, err)

	claims, err := jwtService.ValidateAccessToken("clearly-not-a-jwt-token-format")
	assert.ErrorIs(t, err, service.ErrTokenInvalid)
	assert.Nil(t, claims)
}

func TestJWTService_RejectsMissingOrEqualSecrets(t *testing.T) {
	cfg := newTestConfig()
	cfg.SecretKey.Access = ""

	_, err := NewJWTService(cfg)
	assert.Error(t, err)

	cfg = newTestConfig()
	cfg.SecretKey.Refresh = cfg.SecretKey.Access

	_, err = NewJWTService(cfg)
	assert.Error(t, err)
}
