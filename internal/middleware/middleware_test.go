package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"doctor-booking-api/internal/auth"
	"doctor-booking-api/internal/middleware"
)

func ping(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

func serve(e *echo.Echo, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestAuthMiddleware(t *testing.T) {
	const secret = "test-secret"
	e := echo.New()
	e.GET("/ping", func(c echo.Context) error {
		if middleware.UserID(c) != "user-1" || middleware.Role(c) != "patient" {
			t.Errorf("context %q %q", middleware.UserID(c), middleware.Role(c))
		}
		return ping(c)
	}, middleware.Auth(secret))

	if rec := serve(e, ""); rec.Code != http.StatusUnauthorized {
		t.Errorf("no token: %d", rec.Code)
	}
	if rec := serve(e, "garbage"); rec.Code != http.StatusUnauthorized {
		t.Errorf("bad token: %d", rec.Code)
	}

	tok, err := auth.MakeToken("user-1", "patient", secret)
	if err != nil {
		t.Fatal(err)
	}
	if rec := serve(e, tok); rec.Code != http.StatusOK {
		t.Errorf("valid token: %d", rec.Code)
	}

	wrong, _ := auth.MakeToken("user-1", "patient", "other-secret")
	if rec := serve(e, wrong); rec.Code != http.StatusUnauthorized {
		t.Errorf("wrong secret: %d", rec.Code)
	}
}

func TestRequireRole(t *testing.T) {
	const secret = "test-secret"
	e := echo.New()
	e.GET("/ping", ping, middleware.Auth(secret), middleware.RequireRole("admin"))

	patient, _ := auth.MakeToken("user-1", "patient", secret)
	if rec := serve(e, patient); rec.Code != http.StatusForbidden {
		t.Errorf("patient: %d", rec.Code)
	}

	admin, _ := auth.MakeToken("user-2", "admin", secret)
	if rec := serve(e, admin); rec.Code != http.StatusOK {
		t.Errorf("admin: %d", rec.Code)
	}
}

func TestRateLimit(t *testing.T) {
	e := echo.New()
	rl := middleware.NewRateLimiter(1, 2)
	e.GET("/ping", ping, middleware.RateLimit(rl))

	codes := make(map[int]int)
	for i := 0; i < 5; i++ {
		rec := serve(e, "")
		codes[rec.Code]++
	}
	if codes[http.StatusOK] != 2 {
		t.Errorf("allowed %d, want burst of 2", codes[http.StatusOK])
	}
	if codes[http.StatusTooManyRequests] != 3 {
		t.Errorf("throttled %d, want 3", codes[http.StatusTooManyRequests])
	}
}
