package handler

import (
	"github.com/labstack/echo/v4"

	apperrors "usergate/internal/errors"
)

// respondError converts a service error into an echo HTTP error whose body
// is an errors.ErrorResponse.
func respondError(err error) *echo.HTTPError {
	he := apperrors.MapErrorToHTTP(err)
	return echo.NewHTTPError(he.StatusCode, he.ToErrorResponse())
}
