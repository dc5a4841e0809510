package accounts

import (
	"context"

	"github.com/goliatone/go-router"
)

var identityCtxKey = &contextKey{"identity"}
var claimsCtxKey = &contextKey{"claims"}

type contextKey struct {
	name string
}

// Identity is the minimal authenticated caller info handlers need. It is set
// by the gatekeeper middleware after a login token verifies.
type Identity struct {
	AccountID string
	Email     string
}

// WithIdentityContext sets the Identity in the given context.
func WithIdentityContext(r context.Context, id *Identity) context.Context {
	return context.WithValue(r, identityCtxKey, id)
}

// IdentityFromContext finds the identity from the context.
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	raw, ok := ctx.Value(identityCtxKey).(*Identity)
	return raw, ok
}

// WithClaimsContext sets the verified AccountClaims in the given context.
func WithClaimsContext(r context.Context, claims *AccountClaims) context.Context {
	return context.WithValue(r, claimsCtxKey, claims)
}

// ClaimsFromContext extracts the AccountClaims from the standard context.
func ClaimsFromContext(ctx context.Context) (*AccountClaims, bool) {
	raw, ok := ctx.Value(claimsCtxKey).(*AccountClaims)
	return raw, ok
}

// IdentityFromRouter extracts the caller identity from the router context
// locals. The gatekeeper stores the verified AccountClaims under the context
// key, so raw claims are accepted alongside a pre-built Identity.
func IdentityFromRouter(ctx router.Context, key string) (*Identity, bool) {
	if key == "" {
		key = "identity" // Default key used by the gatekeeper middleware
	}

	switch v := ctx.Locals(key).(type) {
	case *Identity:
		return v, true
	case *AccountClaims:
		return &Identity{AccountID: v.AccountID(), Email: v.Email}, true
	default:
		return nil, false
	}
}
