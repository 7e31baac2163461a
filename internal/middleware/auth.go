package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"doctor-booking-api/internal/auth"
)

const (
	UserIDKey = "uid"
	RoleKey   = "role"
)

// Auth validates the bearer token and stashes the caller's id and role on
// the request context.
func Auth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// token from Authorization: Bearer <jwt>
			raw := strings.TrimPrefix(c.Request().Header.Get("Authorization"), "Bearer ")
			if raw == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "no token")
			}

			claims, err := auth.ParseToken(raw, secret)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "bad token")
			}

			c.Set(UserIDKey, claims.UserID)
			c.Set(RoleKey, claims.Role)
			return next(c)
		}
	}
}

// RequireRole guards a route group to the listed roles. Runs after Auth.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !allowed[Role(c)] {
				return echo.NewHTTPError(http.StatusForbidden, "insufficient role")
			}
			return next(c)
		}
	}
}

func UserID(c echo.Context) string {
	v, _ := c.Get(UserIDKey).(string)
	return v
}

func Role(c echo.Context) string {
	v, _ := c.Get(RoleKey).(string)
	return v
}
