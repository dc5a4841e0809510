package accounts

import (
	"context"
	"fmt"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// TokenService signs and verifies purpose-scoped tokens.
type TokenService interface {
	Issue(purpose TokenPurpose, account *Account) (string, error)
	Verify(purpose TokenPurpose, raw string) (*AccountClaims, error)
}

// TokenVerifier is the read side of TokenService, all the gatekeeper
// middleware needs.
type TokenVerifier interface {
	Verify(purpose TokenPurpose, raw string) (*AccountClaims, error)
}

// PasswordHasher abstracts credential hashing so tests can swap in a cheap
// implementation.
type PasswordHasher interface {
	Hash(ctx context.Context, password string) (string, error)
	Compare(password, hash string) error
}

// Dispatcher delivers activation and password reset links. Implementations
// live in the notify package; the engine treats delivery as fire-and-report,
// a failed send never rolls back committed account state.
type Dispatcher interface {
	SendActivationLink(ctx context.Context, account *PublicAccount, token string) error
	SendPasswordResetLink(ctx context.Context, account *PublicAccount, token string) error
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] ACCOUNTS "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] ACCOUNTS "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] ACCOUNTS "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] ACCOUNTS "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}

type noopDispatcher struct{}

func (noopDispatcher) SendActivationLink(context.Context, *PublicAccount, string) error {
	return nil
}

func (noopDispatcher) SendPasswordResetLink(context.Context, *PublicAccount, string) error {
	return nil
}
