package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"CampusManager/internal/auth"

	"github.com/labstack/echo/v4"
)

func tokenContext(setup func(req *http.Request)) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	setup(req)
	return e.NewContext(req, httptest.NewRecorder())
}

func TestExtractTokenFromCookie(t *testing.T) {
	c := tokenContext(func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: auth.AccessTokenCookie, Value: "cookie-token"})
	})
	if got := ExtractToken(c); got != "cookie-token" {
		t.Errorf("token = %q, want cookie-token", got)
	}
}

func TestExtractTokenFromBearerHeader(t *testing.T) {
	c := tokenContext(func(req *http.Request) {
		req.Header.Set(echo.HeaderAuthorization, "Bearer header-token")
	})
	if got := ExtractToken(c); got != "header-token" {
		t.Errorf("token = %q, want header-token", got)
	}
}

func TestExtractTokenCookieWinsOverHeader(t *testing.T) {
	c := tokenContext(func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: auth.AccessTokenCookie, Value: "cookie-token"})
		req.Header.Set(echo.HeaderAuthorization, "Bearer header-token")
	})
	if got := ExtractToken(c); got != "cookie-token" {
		t.Errorf("token = %q, cookie should win", got)
	}
}

func TestExtractTokenMissing(t *testing.T) {
	c := tokenContext(func(req *http.Request) {})
	if got := ExtractToken(c); got != "" {
		t.Errorf("token = %q, want empty", got)
	}

	c = tokenContext(func(req *http.Request) {
		req.Header.Set(echo.HeaderAuthorization, "Basic dXNlcjpwYXNz")
	})
	if got := ExtractToken(c); got != "" {
		t.Errorf("token = %q, non-bearer header should be ignored", got)
	}
}
