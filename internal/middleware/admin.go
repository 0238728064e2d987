package middleware

import (
	"github.com/labstack/echo/v4"

	"usergate/internal/auth"
)

// RequireAdmin must run after JWT. Non-admin claims get 403.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, _ := ClaimsFrom(c)
			if err := auth.RequireAdmin(claims); err != nil {
				return reject(err)
			}
			return next(c)
		}
	}
}
