// Package impl contains the concrete usecase implementations.
package impl

import (
	"context"
	"log/slog"

	deliverycontext "triplan/internal/delivery/context"
	"triplan/internal/domain/entity"
	domainerrors "triplan/internal/domain/errors"
	"triplan/internal/domain/repository"
	"triplan/internal/domain/service"
	"triplan/internal/errors"
	"triplan/internal/usecase"

	"github.com/google/uuid"
)

type userService struct {
	txManager    repository.TransactionManager
	userRepo     repository.UserRepository
	tokenService service.TokenService
	hasher       service.PasswordHasher
	logger       *slog.Logger
}

// NewUserService creates the session-lifecycle usecase.
func NewUserService(
	txManager repository.TransactionManager,
	userRepo repository.UserRepository,
	tokenService service.TokenService,
	hasher service.PasswordHasher,
	logger *slog.Logger,
) usecase.UserUsecase {
	return &userService{
		txManager:    txManager,
		userRepo:     userRepo,
		tokenService: tokenService,
		hasher:       hasher,
		logger:       logger,
	}
}

func (s *userService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, s.logger)
}

// Register creates the account together with its default tag so a brand-new
// user can save a place without a setup step first.
func (s *userService) Register(ctx context.Context, input *usecase.RegisterInput) (*usecase.RegisterOutput, error) {
	// bcrypt is CPU-bound; hash before entering the transaction so the
	// connection is not held during the work.
	passwordHash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, errors.Wrap(err, "failed to hash password")
	}

	var created *entity.User
	err = s.txManager.Execute(ctx, func(txRepo repository.RepositoryFactory) error {
		user := &entity.User{
			ID:           uuid.New(),
			Email:        input.Email,
			Name:         input.Name,
			PasswordHash: passwordHash,
		}

		// The unique index on email is the authority; the repository maps
		// the constraint violation to ErrEmailAlreadyExists.
		if err := txRepo.UserRepo().Create(ctx, user); err != nil {
			return errors.Wrap(err, "failed to create user")
		}

		defaultTag := &entity.Tag{
			ID:     uuid.New(),
			UserID: user.ID,
			Name:   entity.DefaultTagName,
		}
		if err := txRepo.TagRepo().Create(ctx, defaultTag); err != nil {
			return errors.Wrap(err, "failed to create default tag")
		}

		created = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log(ctx).Info("user registered", slog.String("user_id", created.ID.String()))

	return &usecase.RegisterOutput{User: created.Public()}, nil
}

// Login verifies the credentials and issues a token pair. A missing account
// and a wrong password produce the same error so the response does not
// reveal which part failed.
func (s *userService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.LoginOutput, error) {
	user, err := s.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "unknown email")
		}
		return nil, errors.Wrap(err, "failed to load user for login")
	}

	if !s.hasher.Check(input.Password, user.PasswordHash) {
		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "password mismatch")
	}

	accessToken, refreshToken, err := s.tokenService.GenerateTokens(user.ID, user.Email)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate tokens")
	}

	s.log(ctx).Info("user logged in", slog.String("user_id", user.ID.String()))

	return &usecase.LoginOutput{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user.Public(),
	}, nil
}

// RefreshAccessToken trades a valid refresh token for a new access token.
// The user is re-resolved so a deleted account cannot keep minting access
// tokens from an old refresh token.
func (s *userService) RefreshAccessToken(ctx context.Context, refreshToken string) (*usecase.RefreshOutput, error) {
	claims, err := s.tokenService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, errors.Wrap(domainerrors.ErrUnauthenticated, "invalid refresh token")
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, errors.Wrap(domainerrors.ErrUnauthenticated, "user no longer exists")
		}
		return nil, errors.Wrap(err, "failed to load user for refresh")
	}

	accessToken, err := s.tokenService.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate access token")
	}

	return &usecase.RefreshOutput{AccessToken: accessToken}, nil
}

func (s *userService) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*entity.PublicUser, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, errors.Wrap(domainerrors.ErrUnauthenticated, "user no longer exists")
		}
		return nil, errors.Wrap(err, "failed to load current user")
	}
	return user.Public(), nil
}
