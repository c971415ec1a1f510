package cookie

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"triplan/config"
	"triplan/internal/infra/auth"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTransport(t *testing.T) *Transport {
	t.Helper()

	cfg := &config.Config{
		Token:  &config.TokenConfig{AccessTTL: 15 * time.Minute, RefreshTTL: 7 * 24 * time.Hour},
		Cookie: &config.CookieConfig{Secure: true},
	}
	cfg.SecretKey.Access = "access-secret-for-tests"
	cfg.SecretKey.Refresh = "refresh-secret-for-tests"

	tokenSvc, err := auth.NewJWTService(cfg)
	require.NoError(t, err)

	return NewTransport(cfg, tokenSvc)
}

func newEchoContext() (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	return e.NewContext(req, rec), rec
}

func findCookie(cookies []*http.Cookie, name string) *http.Cookie {
	for _, ck := range cookies {
		if ck.Name == name {
			return ck
		}
	}
	return nil
}

func TestTransport_WriteAuthCookies(t *testing.T) {
	transport := newTestTransport(t)
	c, rec := newEchoContext()

	transport.WriteAuthCookies(c, "the-access-token", "the-refresh-token")

	cookies := rec.Result().Cookies()
	access := findCookie(cookies, AccessTokenCookie)
	refresh := findCookie(cookies, RefreshTokenCookie)
	require.NotNil(t, access)
	require.NotNil(t, refresh)

	assert.Equal(t, "the-access-token", access.Value)
	assert.Equal(t, "the-refresh-token", refresh.Value)

	for _, ck := range []*http.Cookie{access, refresh} {
		// The browser must never expose the tokens to scripts.
		assert.True(t, ck.HttpOnly)
		assert.True(t, ck.Secure)
		assert.Equal(t, http.SameSiteLaxMode, ck.SameSite)
		assert.Equal(t, "/", ck.Path)
	}

	// Cookie lifetimes track the token lifetimes.
	assert.Equal(t, int((15 * time.Minute).Seconds()), access.MaxAge)
	assert.Equal(t, int((7 * 24 * time.Hour).Seconds()), refresh.MaxAge)
}

func TestTransport_WriteAccessCookieLeavesRefreshAlone(t *testing.T) {
	transport := newTestTransport(t)
	c, rec := newEchoContext()

	transport.WriteAccessCookie(c, "fresh-access-token")

	cookies := rec.Result().Cookies()
	require.NotNil(t, findCookie(cookies, AccessTokenCookie))
	assert.Nil(t, findCookie(cookies, RefreshTokenCookie))
}

func TestTransport_ClearAuthCookies(t *testing.T) {
	transport := newTestTransport(t)
	c, rec := newEchoContext()

	transport.ClearAuthCookies(c)

	cookies := rec.Result().Cookies()
	for _, name := range []string{AccessTokenCookie, RefreshTokenCookie} {
		ck := findCookie(cookies, name)
		require.NotNil(t, ck)
		assert.Empty(t, ck.Value)
		assert.Negative(t, ck.MaxAge)
	}
}

func TestTransport_ReadTokens(t *testing.T) {
	transport := newTestTransport(t)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: "the-access-token"})
	c := e.NewContext(req, httptest.NewRecorder())

	token, err := transport.ReadAccessToken(c)
	require.NoError(t, err)
	assert.Equal(t, "the-access-token", token)

	_, err = transport.ReadRefreshToken(c)
	require.ErrorIs(t, err, ErrNoToken)
}
