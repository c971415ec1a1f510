package impl

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"triplan/config"
	"triplan/internal/domain/entity"
	domainerrors "triplan/internal/domain/errors"
	"triplan/internal/domain/service"
	"triplan/internal/infra/auth"
	"triplan/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testConfig() *config.Config {
	cfg := &config.Config{
		Token:  &config.TokenConfig{AccessTTL: 15 * time.Minute, RefreshTTL: 7 * 24 * time.Hour},
		Auth:   &config.AuthConfig{BcryptCost: bcrypt.MinCost},
		Cookie: &config.CookieConfig{Secure: false},
	}
	cfg.SecretKey.Access = "access-secret-for-tests"
	cfg.SecretKey.Refresh = "refresh-secret-for-tests"
	return cfg
}

func newTestUserService(t *testing.T, store *memStore) (usecase.UserUsecase, service.TokenService) {
	t.Helper()

	cfg := testConfig()
	tokenSvc, err := auth.NewJWTService(cfg)
	require.NoError(t, err)

	svc := NewUserService(
		newFakeTxManager(store),
		&fakeUserRepo{store: store},
		tokenSvc,
		auth.NewBcryptHasher(cfg),
		slog.Default(),
	)
	return svc, tokenSvc
}

func TestUserService_RegisterCreatesDefaultTag(t *testing.T) {
	store := newMemStore()
	svc, _ := newTestUserService(t, store)

	output, err := svc.Register(context.Background(), &usecase.RegisterInput{
		Email:    "alice@example.com",
		Name:     "Alice",
		Password: "correct horse battery",
	})
	require.NoError(t, err)
	require.NotNil(t, output.User)
	assert.Equal(t, "alice@example.com", output.User.Email)

	// The account comes with one usable tag so the first place save works
	// without any setup step.
	tags, err := (&fakeTagRepo{store: store}).ListByUser(context.Background(), output.User.ID)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, entity.DefaultTagName, tags[0].Name)
}

func TestUserService_RegisterDuplicateEmail(t *testing.T) {
	store := newMemStore()
	svc, _ := newTestUserService(t, store)

	input := &usecase.RegisterInput{Email: "alice@example.com", Name: "Alice", Password: "correct horse battery"}
	_, err := svc.Register(context.Background(), input)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), input)
	require.Error(t, err)

	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "EMAIL_ALREADY_EXISTS", appErr.ErrorCode())
}

func TestUserService_LoginIssuesBothTokenKinds(t *testing.T) {
	store := newMemStore()
	svc, tokenSvc := newTestUserService(t, store)

	registered, err := svc.Register(context.Background(), &usecase.RegisterInput{
		Email:    "alice@example.com",
		Name:     "Alice",
		Password: "correct horse battery",
	})
	require.NoError(t, err)

	output, err := svc.Login(context.Background(), &usecase.LoginInput{
		Email:    "alice@example.com",
		Password: "correct horse battery",
	})
	require.NoError(t, err)
	require.NotEmpty(t, output.AccessToken)
	require.NotEmpty(t, output.RefreshToken)
	assert.NotEqual(t, output.AccessToken, output.RefreshToken)

	claims, err := tokenSvc.ValidateAccessToken(output.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, claims.UserID)

	// A refresh token must not pass the access-token verifier.
	_, err = tokenSvc.ValidateAccessToken(output.RefreshToken)
	require.Error(t, err)
}

func TestUserService_LoginFailuresAreIndistinguishable(t *testing.T) {
	store := newMemStore()
	svc, _ := newTestUserService(t, store)

	_, err := svc.Register(context.Background(), &usecase.RegisterInput{
		Email:    "alice@example.com",
		Name:     "Alice",
		Password: "correct horse battery",
	})
	require.NoError(t, err)

	_, wrongPassword := svc.Login(context.Background(), &usecase.LoginInput{
		Email:    "alice@example.com",
		Password: "wrong password",
	})
	_, unknownEmail := svc.Login(context.Background(), &usecase.LoginInput{
		Email:    "nobody@example.com",
		Password: "correct horse battery",
	})

	var wrongErr, unknownErr domainerrors.AppError
	require.ErrorAs(t, wrongPassword, &wrongErr)
	require.ErrorAs(t, unknownEmail, &unknownErr)

	// Same code and message either way; the response must not reveal which
	// part of the credentials was wrong.
	assert.Equal(t, wrongErr.ErrorCode(), unknownErr.ErrorCode())
	assert.Equal(t, wrongErr.Message(), unknownErr.Message())
	assert.Equal(t, wrongErr.HTTPCode(), unknownErr.HTTPCode())
}

func TestUserService_RefreshAccessToken(t *testing.T) {
	store := newMemStore()
	svc, tokenSvc := newTestUserService(t, store)

	registered, err := svc.Register(context.Background(), &usecase.RegisterInput{
		Email:    "alice@example.com",
		Name:     "Alice",
		Password: "correct horse battery",
	})
	require.NoError(t, err)

	login, err := svc.Login(context.Background(), &usecase.LoginInput{
		Email:    "alice@example.com",
		Password: "correct horse battery",
	})
	require.NoError(t, err)

	output, err := svc.RefreshAccessToken(context.Background(), login.RefreshToken)
	require.NoError(t, err)

	claims, err := tokenSvc.ValidateAccessToken(output.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, claims.UserID)
}

func TestUserService_RefreshRejectsAccessToken(t *testing.T) {
	store := newMemStore()
	svc, _ := newTestUserService(t, store)

	_, err := svc.Register(context.Background(), &usecase.RegisterInput{
		Email:    "alice@example.com",
		Name:     "Alice",
		Password: "correct horse battery",
	})
	require.NoError(t, err)

	login, err := svc.Login(context.Background(), &usecase.LoginInput{
		Email:    "alice@example.com",
		Password: "correct horse battery",
	})
	require.NoError(t, err)

	// An access token presented as a refresh token must be rejected even
	// though it is otherwise valid.
	_, err = svc.RefreshAccessToken(context.Background(), login.AccessToken)
	require.Error(t, err)

	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "UNAUTHENTICATED", appErr.ErrorCode())
}

func TestUserService_RefreshForDeletedUser(t *testing.T) {
	store := newMemStore()
	svc, _ := newTestUserService(t, store)

	registered, err := svc.Register(context.Background(), &usecase.RegisterInput{
		Email:    "alice@example.com",
		Name:     "Alice",
		Password: "correct horse battery",
	})
	require.NoError(t, err)

	login, err := svc.Login(context.Background(), &usecase.LoginInput{
		Email:    "alice@example.com",
		Password: "correct horse battery",
	})
	require.NoError(t, err)

	// Remove the account; the still-valid refresh token must stop working.
	store.mu.Lock()
	delete(store.users, registered.User.ID)
	store.mu.Unlock()

	_, err = svc.RefreshAccessToken(context.Background(), login.RefreshToken)
	require.Error(t, err)

	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "UNAUTHENTICATED", appErr.ErrorCode())
}
