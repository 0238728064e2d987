package auth

import apperrors "usergate/internal/errors"

// RequireAdmin allows verified claims carrying the admin flag. Missing claims
// are an authentication failure, a regular user is an authorization failure.
func RequireAdmin(claims *Claims) error {
	if claims == nil {
		return apperrors.ErrUnauthorized
	}
	if !claims.IsAdmin {
		return apperrors.ErrForbidden
	}
	return nil
}
