package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"usergate/internal/errors"
	"usergate/internal/service"
)

// UserHandler bundles the user management endpoints.
type UserHandler struct {
	svc service.UserService
}

// NewUserHandler creates a handler layer.
func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// CreateUserRequest represents a user creation request.
type CreateUserRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required,max=72"`
}

// DeleteUserRequest names the user to remove, in the body or the query.
type DeleteUserRequest struct {
	Username string `json:"username" form:"username" query:"username" validate:"required"`
}

// CreateUser godoc
// @Summary Create a regular user
// @Tags users
// @Accept json,mpfd,x-www-form-urlencoded
// @Produce json
// @Security BearerAuth
// @Param user body CreateUserRequest true "User payload"
// @Success 201 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /users [post]
func (h *UserHandler) CreateUser(c echo.Context) error {
	return h.create(c, http.StatusCreated)
}

// Register godoc
// @Summary Register a user (legacy route)
// @Description Admin-only unless the server runs with PUBLIC_REGISTRATION=true.
// @Tags users
// @Accept json,mpfd,x-www-form-urlencoded
// @Produce json
// @Security BearerAuth
// @Param user body CreateUserRequest true "User payload"
// @Success 200 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /register [post]
func (h *UserHandler) Register(c echo.Context) error {
	return h.create(c, http.StatusOK)
}

func (h *UserHandler) create(c echo.Context, status int) error {
	var req CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_REQUEST",
		})
	}
	if err := c.Validate(&req); err != nil {
		return respondError(errors.ErrValidation)
	}

	created, err := h.svc.CreateUser(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(status, created)
}

// ListUsers godoc
// @Summary List users
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.User
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /users [get]
func (h *UserHandler) ListUsers(c echo.Context) error {
	users, err := h.svc.ListUsers(c.Request().Context())
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, users)
}

// DeleteUser godoc
// @Summary Delete users by username
// @Description Succeeds whether or not the user existed.
// @Tags users
// @Accept json,mpfd,x-www-form-urlencoded
// @Produce json
// @Security BearerAuth
// @Param request body DeleteUserRequest false "User to delete"
// @Param username query string false "User to delete"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /users [delete]
func (h *UserHandler) DeleteUser(c echo.Context) error {
	var req DeleteUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_REQUEST",
		})
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "username is required",
			Code:  "VALIDATION_FAILED",
		})
	}

	if err := h.svc.DeleteUser(c.Request().Context(), req.Username); err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message":  "user deleted",
		"username": req.Username,
	})
}
