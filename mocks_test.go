package accounts_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"
	accounts "github.com/hardwarehub/go-accounts"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"golang.org/x/crypto/bcrypt"
)

const sqliteCreateAccounts = `CREATE TABLE accounts (
    id TEXT NOT NULL PRIMARY KEY,
    name TEXT NOT NULL,
    email TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    is_activated BOOLEAN NOT NULL DEFAULT FALSE,
    profile_image_url TEXT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP
);`

func setupRepoManager(t *testing.T) (accounts.RepositoryManager, func()) {
	t.Helper()

	db, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)

	bunDB := bun.NewDB(db, sqlitedialect.New())

	_, err = bunDB.Exec(sqliteCreateAccounts)
	require.NoError(t, err)

	cleanup := func() {
		_ = bunDB.Close()
		_ = db.Close()
	}

	return accounts.NewRepositoryManager(bunDB), cleanup
}

// testConfig implements accounts.Config with purpose-distinct secrets and
// short TTLs so expiry paths are testable without sleeping for long.
type testConfig struct {
	loginSecret      string
	activationSecret string
	resetSecret      string
	loginTTL         time.Duration
	activationTTL    time.Duration
	resetTTL         time.Duration
}

func newTestConfig() *testConfig {
	return &testConfig{
		loginSecret:      "login-secret",
		activationSecret: "activation-secret",
		resetSecret:      "reset-secret",
		loginTTL:         time.Hour,
		activationTTL:    15 * time.Minute,
		resetTTL:         10 * time.Minute,
	}
}

func (c *testConfig) GetLoginTokenSecret() string          { return c.loginSecret }
func (c *testConfig) GetActivationTokenSecret() string     { return c.activationSecret }
func (c *testConfig) GetResetTokenSecret() string          { return c.resetSecret }
func (c *testConfig) GetLoginTokenTTL() time.Duration      { return c.loginTTL }
func (c *testConfig) GetActivationTokenTTL() time.Duration { return c.activationTTL }
func (c *testConfig) GetResetTokenTTL() time.Duration      { return c.resetTTL }
func (c *testConfig) GetBcryptCost() int                   { return bcrypt.MinCost }
func (c *testConfig) GetIssuer() string                    { return "go-accounts-test" }
func (c *testConfig) GetAudience() []string                { return nil }
func (c *testConfig) GetContextKey() string                { return "identity" }
func (c *testConfig) GetAuthScheme() string                { return "Bearer" }
func (c *testConfig) GetTokenLookup() string               { return "header:Authorization" }

type dispatchedLink struct {
	kind    string
	email   string
	token   string
	account *accounts.PublicAccount
}

// capturingDispatcher records every link instead of sending it. A non-nil
// err makes every send fail, for the dispatch-failure paths.
type capturingDispatcher struct {
	links []dispatchedLink
	err   error
}

func (d *capturingDispatcher) SendActivationLink(ctx context.Context, account *accounts.PublicAccount, token string) error {
	if d.err != nil {
		return d.err
	}
	d.links = append(d.links, dispatchedLink{kind: "activation", email: account.Email, token: token, account: account})
	return nil
}

func (d *capturingDispatcher) SendPasswordResetLink(ctx context.Context, account *accounts.PublicAccount, token string) error {
	if d.err != nil {
		return d.err
	}
	d.links = append(d.links, dispatchedLink{kind: "reset", email: account.Email, token: token, account: account})
	return nil
}

func (d *capturingDispatcher) lastLink() dispatchedLink {
	if len(d.links) == 0 {
		return dispatchedLink{}
	}
	return d.links[len(d.links)-1]
}

func assertTextCode(t *testing.T, err error, code string) {
	t.Helper()

	var richErr *goerrors.Error
	require.ErrorAs(t, err, &richErr)
	require.Equal(t, code, richErr.TextCode)
}

func newTestLifecycle(t *testing.T, repo accounts.RepositoryManager, dispatcher accounts.Dispatcher) (*accounts.Lifecycle, *accounts.JWTTokenService) {
	t.Helper()

	tokens := accounts.NewTokenService(newTestConfig(), nil)

	lifecycle, err := accounts.NewLifecycle(repo, tokens,
		accounts.WithDispatcher(dispatcher),
		accounts.WithHasher(accounts.NewHasher(bcrypt.MinCost)),
	)
	require.NoError(t, err)

	return lifecycle, tokens
}
