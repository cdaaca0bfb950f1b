package middleware // middleware provides shared request processing for handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lromero/restaurant-reservation/internal/auth"
)

// RequirePermission returns a middleware that enforces the capability
// table: the authenticated user's role must hold the given permission.
// It assumes JWTAuth has stored "role" and "active" in the context.  A
// deactivated principal is treated as unauthenticated regardless of role,
// and an unknown or under-privileged role is rejected with 403.
func RequirePermission(perm auth.Permission) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if active, ok := c.Get("active").(bool); !ok || !active {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "account inactive"})
			}
			role, ok := c.Get("role").(string)
			if !ok || !auth.Allowed(role, perm) {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
