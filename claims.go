package accounts

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenPurpose scopes a signed token to a single use case. Every purpose
// signs with its own secret, see TokenService.
type TokenPurpose string

const (
	// TokenPurposeLogin marks bearer session tokens.
	TokenPurposeLogin TokenPurpose = "login"
	// TokenPurposeActivation marks the one-time email activation link token.
	TokenPurposeActivation TokenPurpose = "activation"
	// TokenPurposeReset marks the password reset link token.
	TokenPurposeReset TokenPurpose = "password-reset"
)

// AccountClaims is the claim set carried by every token this package issues.
// The purpose claim is checked on verification in addition to the purpose
// bound secret, so a wrong-purpose token fails even under identical secrets.
type AccountClaims struct {
	jwt.RegisteredClaims
	Purpose TokenPurpose `json:"prp,omitempty"`
	Email   string       `json:"email,omitempty"`
}

// Subject returns the subject claim, the account id.
func (c *AccountClaims) Subject() string {
	return c.RegisteredClaims.Subject
}

// AccountID is an alias of Subject for readability at call sites.
func (c *AccountClaims) AccountID() string {
	return c.RegisteredClaims.Subject
}

// Expires returns the expiration time, zero when absent.
func (c *AccountClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issuance time, zero when absent.
func (c *AccountClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}
