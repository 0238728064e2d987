package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"usergate/internal/auth"
	apperrors "usergate/internal/errors"
	"usergate/internal/logging"
	"usergate/internal/model"
	"usergate/internal/repository"
)

// Authenticator checks local credentials. It keeps no session: every call
// starts from the stored record.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (*model.User, error)
	LoadByID(ctx context.Context, id uint) (*model.User, error)
}

// TokenIssuer signs a token for an authenticated user.
type TokenIssuer interface {
	Issue(user *model.User) (string, error)
}

// AuthService handles authentication operations.
type AuthService interface {
	Authenticator
	Login(ctx context.Context, username, password string) (token string, user *model.User, err error)
}

type authService struct {
	repo   repository.UserRepository
	hasher auth.PasswordHasher
	issuer TokenIssuer
	log    logging.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(repo repository.UserRepository, hasher auth.PasswordHasher, issuer TokenIssuer, log logging.Logger) AuthService {
	return &authService{
		repo:   repo,
		hasher: hasher,
		issuer: issuer,
		log:    log.With("component", "auth"),
	}
}

// Authenticate returns the stored user when password matches. An unknown
// username and a wrong password both yield ErrInvalidCredentials and both
// pay for one bcrypt comparison. The username is trimmed the way it was
// when the account was created.
func (s *authService) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	username = strings.TrimSpace(username)
	user, err := s.repo.FindByUsername(ctx, username)
	if errors.Is(err, apperrors.ErrUserNotFound) {
		s.hasher.Verify(ctx, password, auth.DummyHash())
		return nil, apperrors.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("authenticate: %w", err)
	}

	if !s.hasher.Verify(ctx, password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}
	return user, nil
}

func (s *authService) LoadByID(ctx context.Context, id uint) (*model.User, error) {
	return s.repo.FindByID(ctx, id)
}

// Login authenticates and issues a signed token.
func (s *authService) Login(ctx context.Context, username, password string) (string, *model.User, error) {
	user, err := s.Authenticate(ctx, username, password)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidCredentials) {
			s.log.Warn(ctx, "login rejected", "username", username)
		}
		return "", nil, err
	}

	token, err := s.issuer.Issue(user)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}

	s.log.Info(ctx, "login succeeded", "username", user.Username, "is_admin", user.IsAdmin)
	return token, user, nil
}
