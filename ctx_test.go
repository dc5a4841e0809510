package accounts

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-router"
	"github.com/stretchr/testify/assert"
)

func TestIdentityContextRoundTrip(t *testing.T) {
	id := &Identity{AccountID: "acc-123", Email: "alice@example.com"}

	ctx := WithIdentityContext(context.Background(), id)

	got, ok := IdentityFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, id, got)

	_, ok = IdentityFromContext(context.Background())
	assert.False(t, ok)
}

func TestClaimsContextRoundTrip(t *testing.T) {
	claims := &AccountClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "acc-123"},
		Purpose:          TokenPurposeLogin,
		Email:            "alice@example.com",
	}

	ctx := WithClaimsContext(context.Background(), claims)

	got, ok := ClaimsFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "acc-123", got.Subject())

	_, ok = ClaimsFromContext(context.Background())
	assert.False(t, ok)

	// Wrong value type under the key
	bad := context.WithValue(context.Background(), claimsCtxKey, "not-claims")
	_, ok = ClaimsFromContext(bad)
	assert.False(t, ok)
}

func TestIdentityFromRouter(t *testing.T) {
	id := &Identity{AccountID: "acc-123", Email: "alice@example.com"}

	ctx := router.NewMockContext()
	ctx.LocalsMock["identity"] = id

	got, ok := IdentityFromRouter(ctx, "")
	assert.True(t, ok)
	assert.Equal(t, id, got)

	empty := router.NewMockContext()
	_, ok = IdentityFromRouter(empty, "identity")
	assert.False(t, ok)
}

func TestIdentityFromRouterAdaptsClaims(t *testing.T) {
	// The gatekeeper stores the verified claims, not a pre-built Identity.
	claims := &AccountClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "acc-123"},
		Purpose:          TokenPurposeLogin,
		Email:            "alice@example.com",
	}

	ctx := router.NewMockContext()
	ctx.LocalsMock["identity"] = claims

	got, ok := IdentityFromRouter(ctx, "")
	assert.True(t, ok)
	assert.Equal(t, "acc-123", got.AccountID)
	assert.Equal(t, "alice@example.com", got.Email)

	// Unrelated value types are rejected.
	bad := router.NewMockContext()
	bad.LocalsMock["identity"] = "not-an-identity"
	_, ok = IdentityFromRouter(bad, "")
	assert.False(t, ok)
}
