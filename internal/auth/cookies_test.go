package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

func recordCookies(t *testing.T, fn func(c echo.Context)) map[string]*http.Cookie {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	fn(e.NewContext(req, rec))

	cookies := make(map[string]*http.Cookie)
	for _, cookie := range rec.Result().Cookies() {
		cookies[cookie.Name] = cookie
	}
	return cookies
}

func TestSetAuthCookies(t *testing.T) {
	tokens := &TokenPair{AccessToken: "access", RefreshToken: "refresh"}
	cookies := recordCookies(t, func(c echo.Context) {
		SetAuthCookies(c, tokens, time.Hour, 7*24*time.Hour, true)
	})

	access, ok := cookies[AccessTokenCookie]
	if !ok {
		t.Fatal("accessToken cookie not set")
	}
	refresh, ok := cookies[RefreshTokenCookie]
	if !ok {
		t.Fatal("refreshToken cookie not set")
	}

	if access.Value != "access" || refresh.Value != "refresh" {
		t.Errorf("cookie values = %q, %q", access.Value, refresh.Value)
	}
	if access.MaxAge != 3600 {
		t.Errorf("access MaxAge = %d, want 3600", access.MaxAge)
	}
	if refresh.MaxAge != 604800 {
		t.Errorf("refresh MaxAge = %d, want 604800", refresh.MaxAge)
	}

	for _, cookie := range []*http.Cookie{access, refresh} {
		if !cookie.HttpOnly {
			t.Errorf("%s not httpOnly", cookie.Name)
		}
		if !cookie.Secure {
			t.Errorf("%s not secure", cookie.Name)
		}
		if cookie.SameSite != http.SameSiteStrictMode {
			t.Errorf("%s SameSite = %v", cookie.Name, cookie.SameSite)
		}
		if cookie.Path != "/" {
			t.Errorf("%s path = %q", cookie.Name, cookie.Path)
		}
	}
}

func TestClearAuthCookies(t *testing.T) {
	cookies := recordCookies(t, func(c echo.Context) {
		ClearAuthCookies(c, false)
	})

	for _, name := range []string{AccessTokenCookie, RefreshTokenCookie} {
		cookie, ok := cookies[name]
		if !ok {
			t.Fatalf("%s cookie not cleared", name)
		}
		if cookie.Value != "" {
			t.Errorf("%s still carries a value", name)
		}
		if cookie.MaxAge >= 0 {
			t.Errorf("%s MaxAge = %d, want negative", name, cookie.MaxAge)
		}
	}
}
