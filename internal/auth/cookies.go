package auth

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
)

// SetAuthCookies installs both session cookies: httpOnly, SameSite=Strict,
// secure outside development.
func SetAuthCookies(c echo.Context, tokens *TokenPair, accessTTL, refreshTTL time.Duration, secure bool) {
	c.SetCookie(sessionCookie(AccessTokenCookie, tokens.AccessToken, accessTTL, secure))
	c.SetCookie(sessionCookie(RefreshTokenCookie, tokens.RefreshToken, refreshTTL, secure))
}

// ClearAuthCookies expires both session cookies.
func ClearAuthCookies(c echo.Context, secure bool) {
	c.SetCookie(sessionCookie(AccessTokenCookie, "", -time.Second, secure))
	c.SetCookie(sessionCookie(RefreshTokenCookie, "", -time.Second, secure))
}

func sessionCookie(name, value string, ttl time.Duration, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	}
}
