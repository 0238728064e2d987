package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "usergate/internal/errors"
	"usergate/internal/model"
)

// Claims represents JWT claims. Only iat (and exp when a TTL is configured)
// is set from the registered claims.
type Claims struct {
	Username string `json:"username"`
	IsAdmin  bool   `json:"is_admin"`
	jwt.RegisteredClaims
}

// NewClaims derives the session claims for user. The password hash is not
// carried over.
func NewClaims(user *model.User, now time.Time) *Claims {
	return &Claims{
		Username: user.Username,
		IsAdmin:  user.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
}

// JWTService handles RS256 token generation and validation.
type JWTService struct {
	keys *KeyPair
	ttl  time.Duration
	now  func() time.Time
}

// NewJWTService creates a JWT service. A zero ttl issues tokens without exp.
func NewJWTService(keys *KeyPair, ttl time.Duration) *JWTService {
	return &JWTService{
		keys: keys,
		ttl:  ttl,
		now:  time.Now,
	}
}

// Issue signs a token for user.
func (s *JWTService) Issue(user *model.User) (string, error) {
	if user == nil {
		return "", errors.New("issue token: nil user")
	}
	now := s.now()
	claims := NewClaims(user, now)
	if s.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.ttl))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	signed, err := token.SignedString(s.keys.Private)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify validates the signature against the public key and returns the
// decoded claims. Every failure wraps apperrors.ErrUnauthorized.
func (s *JWTService) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.keys.Public, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrUnauthorized, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, apperrors.ErrUnauthorized
	}
	return claims, nil
}
