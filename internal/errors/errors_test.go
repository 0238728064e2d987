package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapErrorToHTTP(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"invalid credentials", ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{"missing token", ErrUnauthorized, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"not admin", ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
		{"missing field", ErrValidation, http.StatusBadRequest, "VALIDATION_FAILED"},
		{"duplicate", ErrUserAlreadyExists, http.StatusConflict, "USER_ALREADY_EXISTS"},
		{"wrapped duplicate", fmt.Errorf("create user: %w", ErrUserAlreadyExists), http.StatusConflict, "USER_ALREADY_EXISTS"},
		{"not found", ErrUserNotFound, http.StatusNotFound, "USER_NOT_FOUND"},
		{"infrastructure", errors.New("disk I/O error"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			he := MapErrorToHTTP(tt.err)
			assert.Equal(t, tt.status, he.StatusCode)
			assert.Equal(t, tt.code, he.Code)
			assert.Equal(t, tt.code, he.ToErrorResponse().Code)
		})
	}
}

func TestMapErrorToHTTP_HidesInfrastructureMessage(t *testing.T) {
	he := MapErrorToHTTP(errors.New("dial tcp 10.0.0.1:3306: connection refused"))
	assert.Equal(t, "internal server error", he.Error())
}
