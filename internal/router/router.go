package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "usergate/docs" // swagger docs

	"usergate/internal/config"
	"usergate/internal/handler"
	"usergate/internal/logging"
	"usergate/internal/middleware"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	log logging.Logger,
	verifier middleware.TokenVerifier,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	pageHandler *handler.PageHandler,
) {
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(requestLogger(log))
	e.Use(echomw.Recover())

	e.Validator = &CustomValidator{validator: validator.New()}

	requireToken := middleware.JWT(verifier)
	requireAdmin := middleware.RequireAdmin()

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Public routes
	e.GET("/", pageHandler.Landing)
	e.POST("/login", authHandler.Login)
	if cfg.StaticDir != "" {
		e.Static("/bower_components", cfg.StaticDir)
	}

	// Middleware is attached per route: a group with an empty prefix would
	// also gate unknown paths and turn their 404 into 401.
	e.GET("/app", pageHandler.App, requireToken)
	e.GET("/users", userHandler.ListUsers, requireToken)
	e.POST("/users", userHandler.CreateUser, requireToken, requireAdmin)
	e.DELETE("/users", userHandler.DeleteUser, requireToken, requireAdmin)

	if cfg.PublicRegistration {
		e.POST("/register", userHandler.Register)
	} else {
		e.POST("/register", userHandler.Register, requireToken, requireAdmin)
	}
}

func requestLogger(log logging.Logger) echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			args := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency.String(),
				"request_id", v.RequestID,
			}
			if v.Status >= http.StatusInternalServerError && v.Error != nil {
				log.Error(c.Request().Context(), "request failed", append(args, "error", v.Error.Error())...)
				return nil
			}
			log.Info(c.Request().Context(), "request", args...)
			return nil
		},
	})
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
