package auth

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"

	apperrors "usergate/internal/errors"
)

const (
	// BcryptCost is the work factor for every stored hash.
	BcryptCost = 10
	// MaxPasswordBytes is the longest input bcrypt accepts.
	MaxPasswordBytes = 72
)

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(ctx context.Context, plaintext string) (string, error)
	Verify(ctx context.Context, plaintext, hash string) bool
}

// BcryptHasher runs bcrypt on worker goroutines, at most `workers` at a time,
// so a burst of logins cannot starve the rest of the server of CPU.
type BcryptHasher struct {
	cost int
	sem  *semaphore.Weighted
}

// Ensure BcryptHasher implements PasswordHasher
var _ PasswordHasher = (*BcryptHasher)(nil)

// NewBcryptHasher creates a hasher allowing workers concurrent bcrypt calls.
func NewBcryptHasher(workers int) *BcryptHasher {
	if workers < 1 {
		workers = 1
	}
	return &BcryptHasher{
		cost: BcryptCost,
		sem:  semaphore.NewWeighted(int64(workers)),
	}
}

// Hash returns a salted bcrypt hash of plaintext. Passwords over
// MaxPasswordBytes are a validation error, not a hashing failure.
func (h *BcryptHasher) Hash(ctx context.Context, plaintext string) (string, error) {
	if len(plaintext) > MaxPasswordBytes {
		return "", fmt.Errorf("%w: password exceeds %d bytes", apperrors.ErrValidation, MaxPasswordBytes)
	}
	var (
		out []byte
		err error
	)
	if runErr := h.run(ctx, func() {
		out, err = bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	}); runErr != nil {
		return "", runErr
	}
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(out), nil
}

// Verify reports whether plaintext matches hash. Malformed hashes and
// cancelled contexts report false.
func (h *BcryptHasher) Verify(ctx context.Context, plaintext, hash string) bool {
	var err error
	if runErr := h.run(ctx, func() {
		err = bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	}); runErr != nil {
		return false
	}
	return err == nil
}

// run executes fn on its own goroutine once a worker slot is free and waits
// for it or for ctx. Results written by fn must only be read on a nil return.
func (h *BcryptHasher) run(ctx context.Context, fn func()) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	done := make(chan struct{})
	go func() {
		defer h.sem.Release(1)
		defer close(done)
		fn()
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// DummyHash is a valid bcrypt hash of a random value. Verifying against it
// costs the same as verifying a real user's password.
var DummyHash = sync.OnceValue(func() string {
	h, err := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), BcryptCost)
	if err != nil {
		panic(fmt.Sprintf("auth: dummy hash: %v", err))
	}
	return string(h)
})
