// Package cookie centralizes how tokens travel between server and browser.
// Tokens live only in HTTP-only cookies; response bodies never carry them.
package cookie

import (
	"net/http"

	"triplan/config"
	"triplan/internal/domain/service"

	"github.com/labstack/echo/v4"
)

const (
	// AccessTokenCookie is the cookie name carrying the access token.
	AccessTokenCookie = "access_token"

	// RefreshTokenCookie is the cookie name carrying the refresh token.
	RefreshTokenCookie = "refresh_token"
)

// ErrNoToken indicates the request carried no token cookie.
var ErrNoToken = http.ErrNoCookie

// Transport writes and reads the auth cookies with consistent attributes.
type Transport struct {
	secure   bool
	domain   string
	tokenSvc service.TokenService
}

// NewTransport creates the cookie transport. Cookie lifetimes follow the
// token lifetimes so a cookie never outlives the token it carries.
func NewTransport(cfg *config.Config, tokenSvc service.TokenService) *Transport {
	var (
		secure bool
		domain string
	)
	if cfg.Cookie != nil {
		secure = cfg.Cookie.Secure
		domain = cfg.Cookie.Domain
	}

	return &Transport{
		secure:   secure,
		domain:   domain,
		tokenSvc: tokenSvc,
	}
}

// WriteAuthCookies sets both token cookies on the response.
func (t *Transport) WriteAuthCookies(c echo.Context, accessToken, refreshToken string) {
	c.SetCookie(t.build(AccessTokenCookie, accessToken, int(t.tokenSvc.AccessTokenDuration().Seconds())))
	c.SetCookie(t.build(RefreshTokenCookie, refreshToken, int(t.tokenSvc.RefreshTokenDuration().Seconds())))
}

// WriteAccessCookie replaces only the access-token cookie; the refresh
// cookie is left untouched.
func (t *Transport) WriteAccessCookie(c echo.Context, accessToken string) {
	c.SetCookie(t.build(AccessTokenCookie, accessToken, int(t.tokenSvc.AccessTokenDuration().Seconds())))
}

// ClearAuthCookies expires both token cookies. The browser discards them
// regardless of whether the tokens were still valid.
func (t *Transport) ClearAuthCookies(c echo.Context) {
	c.SetCookie(t.build(AccessTokenCookie, "", -1))
	c.SetCookie(t.build(RefreshTokenCookie, "", -1))
}

// ReadAccessToken returns the raw access token from the request cookies.
func (t *Transport) ReadAccessToken(c echo.Context) (string, error) {
	return t.read(c, AccessTokenCookie)
}

// ReadRefreshToken returns the raw refresh token from the request cookies.
func (t *Transport) ReadRefreshToken(c echo.Context) (string, error) {
	return t.read(c, RefreshTokenCookie)
}

func (t *Transport) read(c echo.Context, name string) (string, error) {
	ck, err := c.Cookie(name)
	if err != nil || ck.Value == "" {
		return "", ErrNoToken
	}
	return ck.Value, nil
}

func (t *Transport) build(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   t.domain,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   t.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
