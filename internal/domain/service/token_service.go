package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token verification failure kinds. Callers react differently to the two:
// an expired access token triggers a silent refresh attempt, while an
// invalid one is hard-rejected.
var (
	// ErrTokenExpired marks a structurally valid, correctly signed token
	// whose expiry has passed.
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenInvalid marks a token whose signature, structure, or kind
	// does not verify.
	ErrTokenInvalid = errors.New("token invalid")
)

// Claims defines the custom claims carried by both token kinds.
type Claims struct {
	UserID uuid.UUID `json:"uid"`
	Email  string    `json:"email"`
	Type   string    `json:"type"` // "access" or "refresh"
	jwt.RegisteredClaims
}

// TokenService defines the interface for generating and validating the
// access/refresh token pair. The two kinds are signed with independent
// secrets so possession of one never implies the ability to forge the other.
type TokenService interface {
	// GenerateTokens creates a new access token and refresh token for a given user.
	GenerateTokens(userID uuid.UUID, email string) (accessToken string, refreshToken string, err error)

	// GenerateAccessToken creates only a new access token, used by the
	// refresh flow. The refresh token is not rotated in this design.
	GenerateAccessToken(userID uuid.UUID, email string) (string, error)

	// ValidateAccessToken checks a token against the access secret and kind.
	ValidateAccessToken(tokenString string) (*Claims, error)

	// ValidateRefreshToken checks a token against the refresh secret and kind.
	ValidateRefreshToken(tokenString string) (*Claims, error)

	// AccessTokenDuration returns the configured access token lifetime.
	AccessTokenDuration() time.Duration

	// RefreshTokenDuration returns the configured refresh token lifetime.
	RefreshTokenDuration() time.Duration
}
