package accounts_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/goliatone/go-router"
	accounts "github.com/hardwarehub/go-accounts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// Walks the whole account lifecycle end to end against a real store:
// register, fail login while dormant, activate from the dispatched link,
// login, reset the password from the dispatched link, login again.
func TestAccountLifecycleIntegration(t *testing.T) {
	ctx := context.Background()

	mgr, cleanup := setupRepoManager(t)
	defer cleanup()

	dispatcher := &capturingDispatcher{}
	lifecycle, tokens := newTestLifecycle(t, mgr, dispatcher)

	// Register
	registered, err := lifecycle.Register(ctx, accounts.RegisterMessage{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "original password",
	})
	require.NoError(t, err)
	require.False(t, registered.Activated)

	raw, err := json.Marshal(registered)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "password")

	// Dormant accounts cannot log in, even with the right password.
	_, _, err = lifecycle.Login(ctx, accounts.LoginMessage{
		Email:    "alice@example.com",
		Password: "original password",
	})
	assertTextCode(t, err, accounts.TextCodeAccountNotActivated)

	// Activate via the link that went out at registration.
	activationLink := dispatcher.lastLink()
	require.Equal(t, "activation", activationLink.kind)

	activated, err := lifecycle.Activate(ctx, activationLink.token)
	require.NoError(t, err)
	require.True(t, activated.Activated)

	// Login now issues a verifiable session token.
	sessionToken, account, err := lifecycle.Login(ctx, accounts.LoginMessage{
		Email:    "alice@example.com",
		Password: "original password",
	})
	require.NoError(t, err)
	require.Equal(t, registered.ID, account.ID)

	claims, err := tokens.Verify(accounts.TokenPurposeLogin, sessionToken)
	require.NoError(t, err)
	require.Equal(t, registered.ID.String(), claims.AccountID())

	// The session token opens nothing else.
	_, err = lifecycle.Activate(ctx, sessionToken)
	assertTextCode(t, err, accounts.TextCodeTokenInvalid)

	// Password reset round trip.
	require.NoError(t, lifecycle.RequestPasswordReset(ctx, "alice@example.com"))
	resetLink := dispatcher.lastLink()
	require.Equal(t, "reset", resetLink.kind)

	_, err = lifecycle.ResetPassword(ctx, resetLink.token, "replacement password")
	require.NoError(t, err)

	_, _, err = lifecycle.Login(ctx, accounts.LoginMessage{
		Email:    "alice@example.com",
		Password: "original password",
	})
	assertTextCode(t, err, accounts.TextCodeInvalidCredentials)

	newSession, _, err := lifecycle.Login(ctx, accounts.LoginMessage{
		Email:    "alice@example.com",
		Password: "replacement password",
	})
	require.NoError(t, err)
	require.NotEmpty(t, newSession)
}

func TestGatekeeperProtectsRoutesIntegration(t *testing.T) {
	ctx := context.Background()

	mgr, cleanup := setupRepoManager(t)
	defer cleanup()

	dispatcher := &capturingDispatcher{}
	lifecycle, tokens := newTestLifecycle(t, mgr, dispatcher)

	_, err := lifecycle.Register(ctx, accounts.RegisterMessage{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "correct horse battery",
	})
	require.NoError(t, err)

	_, err = lifecycle.Activate(ctx, dispatcher.lastLink().token)
	require.NoError(t, err)

	sessionToken, _, err := lifecycle.Login(ctx, accounts.LoginMessage{
		Email:    "alice@example.com",
		Password: "correct horse battery",
	})
	require.NoError(t, err)

	gatekeeper, err := accounts.NewGatekeeper(tokens, newTestConfig())
	require.NoError(t, err)
	require.NotNil(t, gatekeeper.ProtectedRoute(nil))

	// The verifier behind the gatekeeper accepts the session token and
	// nothing else.
	claims, err := tokens.Verify(accounts.TokenPurposeLogin, sessionToken)
	require.NoError(t, err)

	identity := &accounts.Identity{AccountID: claims.AccountID(), Email: claims.Email}
	profile, err := lifecycle.GetProfile(ctx, identity.AccountID)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", profile.Email)
}

// Runs a request through the protection middleware and checks the identity
// is readable from router locals and the enriched context inside the handler.
func TestGatekeeperIdentityPropagation(t *testing.T) {
	ctx := context.Background()

	mgr, cleanup := setupRepoManager(t)
	defer cleanup()

	dispatcher := &capturingDispatcher{}
	lifecycle, tokens := newTestLifecycle(t, mgr, dispatcher)

	registered, err := lifecycle.Register(ctx, accounts.RegisterMessage{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "correct horse battery",
	})
	require.NoError(t, err)

	_, err = lifecycle.Activate(ctx, dispatcher.lastLink().token)
	require.NoError(t, err)

	sessionToken, _, err := lifecycle.Login(ctx, accounts.LoginMessage{
		Email:    "alice@example.com",
		Password: "correct horse battery",
	})
	require.NoError(t, err)

	gatekeeper, err := accounts.NewGatekeeper(tokens, newTestConfig())
	require.NoError(t, err)

	var fromLocals *accounts.Identity
	handler := gatekeeper.ProtectedRoute(nil)(func(c router.Context) error {
		id, ok := accounts.IdentityFromRouter(c, "")
		require.True(t, ok)
		fromLocals = id
		return nil
	})

	var enriched context.Context

	mctx := router.NewMockContext()
	mctx.HeadersM["Authorization"] = "Bearer " + sessionToken
	mctx.On("GetString", "Authorization", "").Return("Bearer " + sessionToken)
	mctx.On("Locals", "identity", mock.Anything).Return(nil)
	mctx.On("Context").Return(context.Background())
	mctx.On("SetContext", mock.Anything).Run(func(args mock.Arguments) {
		enriched = args.Get(0).(context.Context)
	})

	require.NoError(t, handler(mctx))

	require.NotNil(t, fromLocals)
	assert.Equal(t, registered.ID.String(), fromLocals.AccountID)
	assert.Equal(t, "alice@example.com", fromLocals.Email)

	require.NotNil(t, enriched)
	id, ok := accounts.IdentityFromContext(enriched)
	require.True(t, ok)
	assert.Equal(t, registered.ID.String(), id.AccountID)

	claims, ok := accounts.ClaimsFromContext(enriched)
	require.True(t, ok)
	assert.Equal(t, accounts.TokenPurposeLogin, claims.Purpose)

	// A request without a token never reaches the handler.
	var rejected error
	denied := gatekeeper.ProtectedRoute(func(c router.Context, err error) error {
		rejected = err
		return nil
	})(func(c router.Context) error {
		t.Fatal("handler must not run without a token")
		return nil
	})

	anon := router.NewMockContext()
	anon.On("GetString", "Authorization", "").Return("")
	require.NoError(t, denied(anon))
	require.Error(t, rejected)
}
