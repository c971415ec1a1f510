// Package usecase contains the application-specific business rules.
package usecase

import (
	"context"

	"triplan/internal/domain/entity"

	"github.com/google/uuid"
)

// RegisterInput carries the data needed to create a new account.
type RegisterInput struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required,max=100"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// RegisterOutput is the result of a successful registration.
type RegisterOutput struct {
	User *entity.PublicUser `json:"user"`
}

// LoginInput carries the credentials for a login attempt.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginOutput is the result of a successful login. The controller layer is
// responsible for writing the tokens into cookies.
type LoginOutput struct {
	AccessToken  string
	RefreshToken string
	User         *entity.PublicUser
}

// RefreshOutput is the result of a successful access-token refresh.
// The refresh token itself is not rotated.
type RefreshOutput struct {
	AccessToken string
}

// UserUsecase defines the session lifecycle operations.
type UserUsecase interface {
	// Register creates the user and their default tag in one atomic unit.
	Register(ctx context.Context, input *RegisterInput) (*RegisterOutput, error)

	// Login verifies credentials and issues a fresh token pair.
	Login(ctx context.Context, input *LoginInput) (*LoginOutput, error)

	// RefreshAccessToken verifies the refresh token, re-resolves the user,
	// and issues a new access token only.
	RefreshAccessToken(ctx context.Context, refreshToken string) (*RefreshOutput, error)

	// GetCurrentUser returns the public projection for a verified identity.
	GetCurrentUser(ctx context.Context, userID uuid.UUID) (*entity.PublicUser, error)
}
