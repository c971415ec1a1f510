package middleware

import (
	"log/slog"

	"triplan/internal/delivery/http/cookie"
	"triplan/internal/delivery/http/response"
	"triplan/internal/domain/entity"
	"triplan/internal/domain/service"

	"github.com/labstack/echo/v4"
)

// identityKey is the echo.Context key the verified identity is stored under.
const identityKey = "identity"

// AuthMiddleware authenticates requests from the access-token cookie.
type AuthMiddleware struct {
	tokenSvc service.TokenService
	cookies  *cookie.Transport
	logger   *slog.Logger
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(tokenSvc service.TokenService, cookies *cookie.Transport, logger *slog.Logger) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc, cookies: cookies, logger: logger}
}

// Authenticate validates the access-token cookie and stores the verified
// identity on the context. Every failure maps to the same 401 response; the
// precise reason is logged, never sent to the client.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		tokenString, err := m.cookies.ReadAccessToken(c)
		if err != nil {
			return m.reject(c, "access token cookie missing")
		}

		claims, err := m.tokenSvc.ValidateAccessToken(tokenString)
		if err != nil {
			return m.reject(c, err.Error())
		}

		SetIdentity(c, &entity.Identity{UserID: claims.UserID, Email: claims.Email})

		return next(c)
	}
}

// OptionalAuthenticate resolves the identity when a valid access-token
// cookie is present but never rejects the request.
func (m *AuthMiddleware) OptionalAuthenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if tokenString, err := m.cookies.ReadAccessToken(c); err == nil {
			if claims, err := m.tokenSvc.ValidateAccessToken(tokenString); err == nil {
				SetIdentity(c, &entity.Identity{UserID: claims.UserID, Email: claims.Email})
			}
		}

		return next(c)
	}
}

func (m *AuthMiddleware) reject(c echo.Context, reason string) error {
	m.logger.Debug("authentication rejected",
		slog.String("reason", reason),
		slog.String("path", c.Request().URL.Path),
	)

	return response.Unauthorized(c, "UNAUTHENTICATED", "尚未登入或登入已失效")
}

// SetIdentity stores the verified identity on the echo context.
func SetIdentity(c echo.Context, identity *entity.Identity) {
	c.Set(identityKey, identity)
}

// GetIdentity returns the verified identity set by Authenticate, or nil when
// the request was not authenticated.
func GetIdentity(c echo.Context) *entity.Identity {
	if identity, ok := c.Get(identityKey).(*entity.Identity); ok {
		return identity
	}

	return nil
}
