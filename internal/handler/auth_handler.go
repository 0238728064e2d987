package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"usergate/internal/errors"
	"usergate/internal/service"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// LoginRequest represents a login request, sent as JSON or as a form.
type LoginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// Login godoc
// @Summary Log in with username and password
// @Tags auth
// @Accept json,mpfd,x-www-form-urlencoded
// @Produce plain
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {string} string "signed RS256 JWT"
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_REQUEST",
		})
	}

	// Empty fields are just bad credentials; the answer must not reveal more.
	token, _, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return respondError(err)
	}

	return c.String(http.StatusOK, token)
}
