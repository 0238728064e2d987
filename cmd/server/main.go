package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"usergate/docs"
	"usergate/internal/auth"
	"usergate/internal/cache"
	"usergate/internal/config"
	"usergate/internal/db"
	"usergate/internal/handler"
	"usergate/internal/logging"
	"usergate/internal/repository"
	"usergate/internal/router"
	"usergate/internal/service"
)

// @title User Gate API
// @version 1.0
// @description Username/password login issuing RS256 JWTs, with an admin-gated user API.
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()
	logger := logging.New(os.Stdout, cfg.LogLevel)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fatal := func(msg string, err error) {
		logger.Error(ctx, msg, "error", err)
		os.Exit(1)
	}

	// Key material is required before anything listens.
	keys, err := auth.LoadKeyPair(cfg.PrivateKeyPath, cfg.PublicKeyPath)
	if err != nil {
		fatal("load key pair", err)
	}

	gormDB, err := db.Open(cfg.DBDriver, cfg.DBName)
	if err != nil {
		fatal("database init", err)
	}
	if err := db.Migrate(gormDB); err != nil {
		fatal("database migrate", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err := cacheClient.Ping(ctx); err != nil {
		logger.Warn(ctx, "redis unreachable, serving without cache", "addr", cfg.RedisAddr, "error", err)
	}
	defer cacheClient.Close()

	userRepo := repository.NewUserRepository(gormDB)
	hasher := auth.NewBcryptHasher(cfg.HashWorkers)
	jwtService := auth.NewJWTService(keys, cfg.TokenTTL)

	authService := service.NewAuthService(userRepo, hasher, jwtService, logger)
	userService := service.NewUserService(userRepo, hasher, cacheClient, logger)

	admin, created, err := userService.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword)
	if err != nil {
		fatal("bootstrap admin", err)
	}
	if created {
		logger.Info(ctx, "bootstrap admin created", "username", admin.Username, "id", admin.ID)
	}

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	router.Register(
		e,
		cfg,
		logger,
		jwtService,
		handler.NewAuthHandler(authService),
		handler.NewUserHandler(userService),
		handler.NewPageHandler(nil),
	)

	addr := ":" + cfg.ServerPort
	go func() {
		logger.Info(ctx, "server listening", "addr", addr, "db_driver", cfg.DBDriver, "public_registration", cfg.PublicRegistration)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatal("server start", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error(shutdownCtx, "server shutdown", "error", err)
	}
	if sqlDB, err := gormDB.DB(); err == nil {
		_ = sqlDB.Close()
	}
	logger.Info(shutdownCtx, "server stopped")
}
