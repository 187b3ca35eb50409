package middlewares

import (
	"errors"
	"github.com/labstack/echo/v4"
	"net/http"
	"net/http/httptest"
	"personal-site-api/app/server/auth"
	"testing"
)

type staticAuthenticator struct{}

func (staticAuthenticator) Authenticate(token string) (*auth.Principal, error) {
	if token != "good" {
		return nil, errors.New("bad token")
	}
	return &auth.Principal{Username: "admin"}, nil
}

func newServer() *echo.Echo {
	e := echo.New()
	whoami := func(c echo.Context) error {
		if p := Principal(c); p != nil {
			return c.String(http.StatusOK, p.Username)
		}
		return c.String(http.StatusOK, "anonymous")
	}
	e.GET("/required", whoami, AdminAuth(staticAuthenticator{}))
	e.GET("/optional", whoami, OptionalAdminAuth(staticAuthenticator{}))
	return e
}

func request(e *echo.Echo, target string, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if authorization != "" {
		req.Header.Set(echo.HeaderAuthorization, authorization)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestAdminAuth(t *testing.T) {
	e := newServer()

	rec := request(e, "/required", "Bearer good")
	if rec.Code != http.StatusOK || rec.Body.String() != "admin" {
		t.Errorf("valid token = %d %q, want 200 admin", rec.Code, rec.Body.String())
	}

	for _, header := range []string{"", "Bearer bad", "Basic good", "good"} {
		rec = request(e, "/required", header)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("Authorization %q status = %d, want 401", header, rec.Code)
		}
		if got := rec.Header().Get(echo.HeaderWWWAuthenticate); got != "Bearer" {
			t.Errorf("Authorization %q WWW-Authenticate = %q, want Bearer", header, got)
		}
	}
}

func TestOptionalAdminAuth(t *testing.T) {
	e := newServer()

	for header, want := range map[string]string{
		"":            "anonymous",
		"Bearer bad":  "anonymous",
		"Bearer good": "admin",
	} {
		rec := request(e, "/optional", header)
		if rec.Code != http.StatusOK || rec.Body.String() != want {
			t.Errorf("Authorization %q = %d %q, want 200 %q", header, rec.Code, rec.Body.String(), want)
		}
	}
}
