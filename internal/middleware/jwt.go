// Package middleware holds the echo middleware that gates protected routes:
// bearer token verification followed by the optional admin check.
package middleware

import (
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"usergate/internal/auth"
	apperrors "usergate/internal/errors"
)

// ClaimsKey is the echo context key holding the verified *auth.Claims.
const ClaimsKey = "claims"

// TokenVerifier validates a raw token and returns its claims.
type TokenVerifier interface {
	Verify(tokenString string) (*auth.Claims, error)
}

// JWT rejects requests without a valid "Authorization: Bearer" token with
// 401 before the handler runs, and stores the verified claims otherwise.
func JWT(verifier TokenVerifier) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  ClaimsKey,
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			return verifier.Verify(token)
		},
		// echo-jwt answers a missing token with 400; every failure here is 401.
		ErrorHandler: func(c echo.Context, err error) error {
			return reject(apperrors.ErrUnauthorized)
		},
	})
}

// ClaimsFrom returns the claims stored by JWT.
func ClaimsFrom(c echo.Context) (*auth.Claims, bool) {
	claims, ok := c.Get(ClaimsKey).(*auth.Claims)
	return claims, ok && claims != nil
}

func reject(err error) error {
	he := apperrors.MapErrorToHTTP(err)
	return echo.NewHTTPError(he.StatusCode, he.ToErrorResponse())
}
