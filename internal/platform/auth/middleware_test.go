package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

func newServer(mw echo.MiddlewareFunc) *echo.Echo {
	e := echo.New()
	e.Use(mw)
	e.GET("/", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	return e
}

func TestDevMiddlewarePassesThrough(t *testing.T) {
	e := newServer(DevMiddleware())
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestTokenMiddlewareRejectsMissingToken(t *testing.T) {
	e := newServer(TokenMiddleware([]byte("secret")))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestTokenMiddlewareAcceptsIssuedToken(t *testing.T) {
	secret := []byte("secret")
	token, err := IssueToken(secret, "nurse-1", []string{"nurse"}, time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	e := newServer(TokenMiddleware(secret))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 with valid token, got %d", rec.Code)
	}
}

func TestRequireRole(t *testing.T) {
	e := echo.New()
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(RolesKey, []string{"nurse"})
			return next(c)
		}
	})
	e.GET("/allowed", func(c echo.Context) error { return c.NoContent(http.StatusOK) }, RequireRole("nurse", "physician"))
	e.GET("/denied", func(c echo.Context) error { return c.NoContent(http.StatusOK) }, RequireRole("admin"))

	req := httptest.NewRequest(http.MethodGet, "/allowed", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 for held role, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/denied", nil)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403 for missing role, got %d", rec.Code)
	}
}

func TestTokenMiddlewareRejectsWrongSecret(t *testing.T) {
	token, err := IssueToken([]byte("other"), "nurse-1", nil, time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	e := newServer(TokenMiddleware([]byte("secret")))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 with wrong secret, got %d", rec.Code)
	}
}
