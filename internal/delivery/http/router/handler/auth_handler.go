package handler

import (
	"log/slog"
	"net/http"

	"triplan/internal/delivery/http/cookie"
	"triplan/internal/delivery/http/middleware"
	"triplan/internal/delivery/http/response"
	domainerrors "triplan/internal/domain/errors"
	"triplan/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// AuthHandler holds dependencies for session-lifecycle handlers. Tokens
// travel in HTTP-only cookies only; no handler here puts one in a body.
type AuthHandler struct {
	uc      usecase.UserUsecase
	cookies *cookie.Transport
	logger  *slog.Logger
}

// NewAuthHandler is the constructor for AuthHandler, injected by Fx.
func NewAuthHandler(uc usecase.UserUsecase, cookies *cookie.Transport, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		uc:      uc,
		cookies: cookies,
		logger:  logger,
	}
}

// Register handles the account creation request.
func (h *AuthHandler) Register(c echo.Context) error {
	var input usecase.RegisterInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid registration input")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	output, err := h.uc.Register(c.Request().Context(), &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, output.User, "User registered successfully")
}

// Login verifies credentials and establishes the cookie session.
func (h *AuthHandler) Login(c echo.Context) error {
	var input usecase.LoginInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid login input")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	output, err := h.uc.Login(c.Request().Context(), &input)
	if err != nil {
		return errors.WithStack(err)
	}

	h.cookies.WriteAuthCookies(c, output.AccessToken, output.RefreshToken)

	return response.Success(c, http.StatusOK, output.User, "Login successful")
}

// Refresh trades the refresh-token cookie for a fresh access-token cookie.
func (h *AuthHandler) Refresh(c echo.Context) error {
	refreshToken, err := h.cookies.ReadRefreshToken(c)
	if err != nil {
		return errors.Wrap(domainerrors.ErrUnauthenticated, "refresh token cookie missing")
	}

	output, err := h.uc.RefreshAccessToken(c.Request().Context(), refreshToken)
	if err != nil {
		return errors.WithStack(err)
	}

	h.cookies.WriteAccessCookie(c, output.AccessToken)

	return response.Success(c, http.StatusOK, nil, "Token refreshed successfully")
}

// Logout clears both auth cookies. It succeeds no matter what the request
// carried, so a client with broken cookies can always reset its session.
func (h *AuthHandler) Logout(c echo.Context) error {
	h.cookies.ClearAuthCookies(c)

	return response.Success(c, http.StatusOK, nil, "Logout successful")
}

// Me returns the profile of the authenticated user.
func (h *AuthHandler) Me(c echo.Context) error {
	identity := middleware.GetIdentity(c)
	if identity == nil {
		return errors.Wrap(domainerrors.ErrUnauthenticated, "identity missing from context")
	}

	user, err := h.uc.GetCurrentUser(c.Request().Context(), identity.UserID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, user, "")
}
