package accounts

import (
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

// Stable text codes surfaced to API clients. HTTP status mapping switches on
// these, never on message text.
const (
	TextCodeDuplicateAccount    = "DUPLICATE_ACCOUNT"
	TextCodeInvalidCredentials  = "INVALID_CREDENTIALS"
	TextCodeAccountNotActivated = "ACCOUNT_NOT_ACTIVATED"
	TextCodeAccountMissing      = "ACCOUNT_MISSING"
	TextCodeTokenExpired        = "TOKEN_EXPIRED"
	TextCodeTokenInvalid        = "TOKEN_INVALID"
	TextCodeConfiguration       = "CONFIGURATION_ERROR"
	TextCodeStoreUnavailable    = "STORE_UNAVAILABLE"
	TextCodeEmptyPassword       = "EMPTY_PASSWORD"
)

// ErrDuplicateAccount is returned when a registration hits the unique email
// constraint. The store's key constraint is the only duplicate guard; there
// is no application level coordination.
var ErrDuplicateAccount = goerrors.New("an account with this email already exists", goerrors.CategoryConflict).
	WithTextCode(TextCodeDuplicateAccount)

// ErrMismatchedHashAndPassword covers both "no such account" and "wrong
// password" so login never reveals which one happened.
var ErrMismatchedHashAndPassword = goerrors.New("the credentials provided are invalid", goerrors.CategoryAuth).
	WithTextCode(TextCodeInvalidCredentials)

// ErrAccountNotActivated is deliberately distinguishable from invalid
// credentials so clients can prompt for an activation resend.
var ErrAccountNotActivated = goerrors.New("account is not activated, check your email for the activation link", goerrors.CategoryAuth).
	WithTextCode(TextCodeAccountNotActivated)

// ErrAccountMissing is returned when a verified token's subject no longer
// resolves to a stored account.
var ErrAccountMissing = goerrors.New("account not found", goerrors.CategoryNotFound).
	WithTextCode(TextCodeAccountMissing)

// ErrTokenExpired is returned when a token's signature verifies but its
// expiry has passed. Expiry is the only invalidation mechanism; there is no
// revocation list.
var ErrTokenExpired = goerrors.New("token has expired", goerrors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired)

// ErrTokenInvalid covers malformed tokens, bad signatures, and tokens
// presented for the wrong purpose.
var ErrTokenInvalid = goerrors.New("invalid token", goerrors.CategoryAuth).
	WithTextCode(TextCodeTokenInvalid)

// ErrMissingSigningSecret is fatal: a purpose without a configured secret
// must abort boot, never silently downgrade verification.
var ErrMissingSigningSecret = goerrors.New("no signing secret configured for token purpose", goerrors.CategoryInternal).
	WithTextCode(TextCodeConfiguration)

// ErrStoreUnavailable marks transient store failures (timeouts, lost
// connections). Callers may retry with backoff; the core never does.
var ErrStoreUnavailable = goerrors.New("account store unavailable", goerrors.CategoryOperation).
	WithTextCode(TextCodeStoreUnavailable)

// ErrNoEmptyString rejects empty passwords before they reach the hasher.
var ErrNoEmptyString = goerrors.New("value must not be an empty string", goerrors.CategoryValidation).
	WithTextCode(TextCodeEmptyPassword)

// IsTokenExpiredError will check for expired tokens, structured or legacy.
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	if hasTextCode(err, TextCodeTokenExpired) {
		return true
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsTokenInvalidError will check for malformed or badly signed tokens.
func IsTokenInvalidError(err error) bool {
	if err == nil {
		return false
	}
	if hasTextCode(err, TextCodeTokenInvalid) {
		return true
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}

func hasTextCode(err error, code string) bool {
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		return false
	}
	return richErr.TextCode == code
}
