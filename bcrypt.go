package accounts

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"
	"golang.org/x/crypto/bcrypt"
)

// Hasher is the bcrypt backed PasswordHasher. The salt is generated per call
// and embedded in the output, so no separate salt storage exists.
type Hasher struct {
	cost int
}

// NewHasher creates a Hasher with the given adaptive cost. Costs outside the
// bcrypt bounds fall back to the package default.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = passwordHashCost()
	}
	return &Hasher{cost: cost}
}

// Hash computes a salted hash off the calling goroutine so CPU-heavy work
// respects the caller's deadline. On ctx expiry the discarded hash result is
// left for the runtime to collect.
func (h *Hasher) Hash(ctx context.Context, password string) (string, error) {
	if password == "" {
		return "", ErrNoEmptyString
	}

	type result struct {
		hash string
		err  error
	}

	out := make(chan result, 1)
	go func() {
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
		out <- result{hash: string(hashed), err: err}
	}()

	select {
	case <-ctx.Done():
		return "", goerrors.Wrap(ctx.Err(), goerrors.CategoryOperation, "password hashing cancelled").
			WithTextCode(TextCodeStoreUnavailable)
	case res := <-out:
		if res.err != nil {
			return "", goerrors.Wrap(res.err, goerrors.CategoryInternal, "failed to hash password")
		}
		return res.hash, nil
	}
}

// Compare validates the given cleartext password against the hash. Malformed
// hashes report invalid credentials rather than erroring out.
func (h *Hasher) Compare(password, hash string) error {
	return ComparePasswordAndHash(password, hash)
}

var _ PasswordHasher = (*Hasher)(nil)

// HashPassword will generate a password hash at the default cost.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrNoEmptyString
	}

	h, err := bcrypt.GenerateFromPassword([]byte(password), passwordHashCost())
	return string(h), err
}

// ComparePasswordAndHash will validate the given cleartext password against
// the hashed password. bcrypt's comparison is constant time on the digest.
func ComparePasswordAndHash(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrMismatchedHashAndPassword
		}
		// Malformed or truncated hashes land here. Treat them the same as a
		// mismatch so callers never leak hash state.
		return ErrMismatchedHashAndPassword
	}
	return nil
}
