package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"usergate/internal/auth"
	"usergate/internal/cache"
	apperrors "usergate/internal/errors"
	"usergate/internal/logging"
	"usergate/internal/model"
	"usergate/internal/repository"
)

const (
	// The cached list lives under users:all:<generation>. Every create and
	// delete bumps the generation, so a list read before the write can only
	// land under a key nobody reads any more.
	userListCacheKey = "users:all"
	userListGenKey   = "users:gen"
	userCacheTTL     = 5 * time.Minute
)

// UserService exposes the user lifecycle.
type UserService interface {
	CreateUser(ctx context.Context, username, password string) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	DeleteUser(ctx context.Context, username string) error
	EnsureAdmin(ctx context.Context, username, password string) (user *model.User, created bool, err error)
}

type userService struct {
	repo   repository.UserRepository
	hasher auth.PasswordHasher
	cache  *cache.Client
	log    logging.Logger
}

// NewUserService builds a UserService. cache may be nil.
func NewUserService(repo repository.UserRepository, hasher auth.PasswordHasher, cache *cache.Client, log logging.Logger) UserService {
	return &userService{
		repo:   repo,
		hasher: hasher,
		cache:  cache,
		log:    log.With("component", "users"),
	}
}

// CreateUser stores a regular (non-admin) account.
func (s *userService) CreateUser(ctx context.Context, username, password string) (*model.User, error) {
	return s.create(ctx, username, password, false)
}

func (s *userService) create(ctx context.Context, username, password string, isAdmin bool) (*model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" || len(password) > auth.MaxPasswordBytes {
		return nil, apperrors.ErrValidation
	}

	exists, err := s.repo.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("check user existence: %w", err)
	}
	if exists {
		return nil, apperrors.ErrUserAlreadyExists
	}

	hash, err := s.hasher.Hash(ctx, password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &model.User{
		Username:     username,
		PasswordHash: hash,
		IsAdmin:      isAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrUserAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.invalidateList(ctx)
	s.log.Info(ctx, "user created", "id", user.ID, "username", user.Username, "is_admin", user.IsAdmin)
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context) ([]model.User, error) {
	// The generation must be read before the repository.
	gen, ok := s.cache.Counter(ctx, userListGenKey)
	if !ok {
		return s.repo.List(ctx)
	}
	key := fmt.Sprintf("%s:%d", userListCacheKey, gen)

	var cached []model.User
	if s.cache.GetJSON(ctx, key, &cached) {
		return cached, nil
	}

	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	_ = s.cache.SetJSON(ctx, key, users, userCacheTTL)
	return users, nil
}

func (s *userService) invalidateList(ctx context.Context) {
	if err := s.cache.Incr(ctx, userListGenKey); err != nil {
		s.log.Warn(ctx, "user list cache not invalidated", "error", err)
	}
}

// DeleteUser removes every record named username. Absent users are not an error.
func (s *userService) DeleteUser(ctx context.Context, username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return apperrors.ErrValidation
	}

	deleted, err := s.repo.DeleteByUsername(ctx, username)
	if err != nil {
		return err
	}

	s.invalidateList(ctx)
	s.log.Info(ctx, "user deleted", "username", username, "rows", deleted)
	return nil
}

// EnsureAdmin creates the bootstrap administrator unless a user with that
// name already exists. An existing record without the admin flag is an
// error: starting would leave nobody able to manage users.
func (s *userService) EnsureAdmin(ctx context.Context, username, password string) (*model.User, bool, error) {
	username = strings.TrimSpace(username)
	existing, err := s.repo.FindByUsername(ctx, username)
	if err == nil {
		return requireAdminRecord(existing)
	}
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		return nil, false, fmt.Errorf("look up admin: %w", err)
	}

	user, err := s.create(ctx, username, password, true)
	if errors.Is(err, apperrors.ErrUserAlreadyExists) {
		// another instance bootstrapped first
		existing, findErr := s.repo.FindByUsername(ctx, username)
		if findErr != nil {
			return nil, false, fmt.Errorf("look up admin: %w", findErr)
		}
		return requireAdminRecord(existing)
	}
	if err != nil {
		return nil, false, fmt.Errorf("bootstrap admin: %w", err)
	}
	return user, true, nil
}

func requireAdminRecord(user *model.User) (*model.User, bool, error) {
	if !user.IsAdmin {
		return nil, false, fmt.Errorf("bootstrap admin: user %q exists without admin rights", user.Username)
	}
	return user, false, nil
}
