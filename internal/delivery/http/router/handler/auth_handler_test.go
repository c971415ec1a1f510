package handler

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"triplan/config"
	"triplan/internal/delivery/http/cookie"
	"triplan/internal/domain/entity"
	domainerrors "triplan/internal/domain/errors"
	"triplan/internal/infra/auth"
	"triplan/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubUserUsecase returns canned results so the handler's cookie behavior
// can be observed in isolation.
type stubUserUsecase struct {
	loginOutput   *usecase.LoginOutput
	loginErr      error
	refreshOutput *usecase.RefreshOutput
	refreshErr    error
}

func (s *stubUserUsecase) Register(ctx context.Context, input *usecase.RegisterInput) (*usecase.RegisterOutput, error) {
	return &usecase.RegisterOutput{User: &entity.PublicUser{ID: uuid.New(), Email: input.Email, Name: input.Name}}, nil
}

func (s *stubUserUsecase) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.LoginOutput, error) {
	return s.loginOutput, s.loginErr
}

func (s *stubUserUsecase) RefreshAccessToken(ctx context.Context, refreshToken string) (*usecase.RefreshOutput, error) {
	return s.refreshOutput, s.refreshErr
}

func (s *stubUserUsecase) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*entity.PublicUser, error) {
	return &entity.PublicUser{ID: userID, Email: "alice@example.com"}, nil
}

type noopValidator struct{}

func (noopValidator) Validate(i any) error { return nil }

func newTestAuthHandler(t *testing.T, uc usecase.UserUsecase) *AuthHandler {
	t.Helper()

	cfg := &config.Config{
		Token:  &config.TokenConfig{AccessTTL: 15 * time.Minute, RefreshTTL: 7 * 24 * time.Hour},
		Cookie: &config.CookieConfig{},
	}
	cfg.SecretKey.Access = "access-secret-for-tests"
	cfg.SecretKey.Refresh = "refresh-secret-for-tests"

	tokenSvc, err := auth.NewJWTService(cfg)
	require.NoError(t, err)

	return NewAuthHandler(uc, cookie.NewTransport(cfg, tokenSvc), slog.Default())
}

func newJSONContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = noopValidator{}
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_LoginSetsCookiesOnly(t *testing.T) {
	uc := &stubUserUsecase{
		loginOutput: &usecase.LoginOutput{
			AccessToken:  "issued-access-token",
			RefreshToken: "issued-refresh-token",
			User:         &entity.PublicUser{ID: uuid.New(), Email: "alice@example.com", Name: "Alice"},
		},
	}
	h := newTestAuthHandler(t, uc)

	c, rec := newJSONContext(http.MethodPost, "/auth/login", `{"email":"alice@example.com","password":"pw"}`)
	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	var access, refresh *http.Cookie
	for _, ck := range cookies {
		switch ck.Name {
		case cookie.AccessTokenCookie:
			access = ck
		case cookie.RefreshTokenCookie:
			refresh = ck
		}
	}
	require.NotNil(t, access)
	require.NotNil(t, refresh)
	assert.Equal(t, "issued-access-token", access.Value)
	assert.Equal(t, "issued-refresh-token", refresh.Value)

	// The body carries the user profile but never the tokens.
	body := rec.Body.String()
	assert.Contains(t, body, "alice@example.com")
	assert.NotContains(t, body, "issued-access-token")
	assert.NotContains(t, body, "issued-refresh-token")
}

func TestAuthHandler_RefreshReplacesAccessCookie(t *testing.T) {
	uc := &stubUserUsecase{refreshOutput: &usecase.RefreshOutput{AccessToken: "fresh-access-token"}}
	h := newTestAuthHandler(t, uc)

	c, rec := newJSONContext(http.MethodPost, "/auth/refresh", "")
	c.Request().AddCookie(&http.Cookie{Name: cookie.RefreshTokenCookie, Value: "issued-refresh-token"})

	require.NoError(t, h.Refresh(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, cookie.AccessTokenCookie, cookies[0].Name)
	assert.Equal(t, "fresh-access-token", cookies[0].Value)
	assert.NotContains(t, rec.Body.String(), "fresh-access-token")
}

func TestAuthHandler_RefreshWithoutCookie(t *testing.T) {
	h := newTestAuthHandler(t, &stubUserUsecase{})

	c, _ := newJSONContext(http.MethodPost, "/auth/refresh", "")
	err := h.Refresh(c)
	require.Error(t, err)

	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusUnauthorized, appErr.HTTPCode())
}

func TestAuthHandler_LogoutClearsCookies(t *testing.T) {
	h := newTestAuthHandler(t, &stubUserUsecase{})

	// No auth cookies on the request at all; logout still succeeds.
	c, rec := newJSONContext(http.MethodPost, "/auth/logout", "")
	require.NoError(t, h.Logout(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 2)
	for _, ck := range cookies {
		assert.Empty(t, ck.Value)
		assert.Negative(t, ck.MaxAge)
	}
}
