package accounts

import (
	"time"

	"github.com/caarlos0/env/v11"
	goerrors "github.com/goliatone/go-errors"
	"golang.org/x/crypto/bcrypt"
)

// Config holds the immutable settings the account core needs. It is loaded
// once at startup and injected at construction; nothing reads configuration
// ad hoc at call time.
type Config interface {
	GetLoginTokenSecret() string
	GetActivationTokenSecret() string
	GetResetTokenSecret() string
	GetLoginTokenTTL() time.Duration
	GetActivationTokenTTL() time.Duration
	GetResetTokenTTL() time.Duration
	GetBcryptCost() int
	GetIssuer() string
	GetAudience() []string
	GetContextKey() string
	GetAuthScheme() string
	GetTokenLookup() string
}

// EnvConfig is the environment backed Config implementation.
//
// Each token purpose carries an independent signing secret so purposes stay
// cryptographically segregated: an activation token can never be replayed as
// a login session even if the signing routine is shared.
type EnvConfig struct {
	LoginTokenSecret      string        `env:"AUTH_JWT_SECRET"`
	ActivationTokenSecret string        `env:"AUTH_JWT_ACTIVATION_SECRET"`
	ResetTokenSecret      string        `env:"AUTH_JWT_RESET_SECRET"`
	LoginTokenTTL         time.Duration `env:"AUTH_LOGIN_TOKEN_TTL" envDefault:"24h"`
	ActivationTokenTTL    time.Duration `env:"AUTH_ACTIVATION_TOKEN_TTL" envDefault:"15m"`
	ResetTokenTTL         time.Duration `env:"AUTH_RESET_TOKEN_TTL" envDefault:"10m"`
	BcryptCost            int           `env:"AUTH_BCRYPT_COST" envDefault:"10"`
	Issuer                string        `env:"AUTH_ISSUER" envDefault:"go-accounts"`
	Audience              []string      `env:"AUTH_AUDIENCE" envSeparator:","`
	ContextKey            string        `env:"AUTH_CONTEXT_KEY" envDefault:"identity"`
	AuthScheme            string        `env:"AUTH_SCHEME" envDefault:"Bearer"`
	TokenLookup           string        `env:"AUTH_TOKEN_LOOKUP" envDefault:"header:Authorization"`
}

// LoadConfig reads an EnvConfig from the process environment and validates
// it. A missing purpose secret is fatal here, not at request time.
func LoadConfig() (*EnvConfig, error) {
	cfg := &EnvConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to parse environment configuration").
			WithTextCode(TextCodeConfiguration)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate enforces the boot invariants: every purpose has a secret, TTLs
// are positive, and the bcrypt cost sits inside the library bounds.
func (c *EnvConfig) Validate() error {
	secrets := map[TokenPurpose]string{
		TokenPurposeLogin:      c.LoginTokenSecret,
		TokenPurposeActivation: c.ActivationTokenSecret,
		TokenPurposeReset:      c.ResetTokenSecret,
	}

	for purpose, secret := range secrets {
		if secret == "" {
			return ErrMissingSigningSecret.Clone().
				WithMetadata(map[string]any{"purpose": string(purpose)})
		}
	}

	ttls := map[TokenPurpose]time.Duration{
		TokenPurposeLogin:      c.LoginTokenTTL,
		TokenPurposeActivation: c.ActivationTokenTTL,
		TokenPurposeReset:      c.ResetTokenTTL,
	}

	for purpose, ttl := range ttls {
		if ttl <= 0 {
			return goerrors.New("token TTL must be positive", goerrors.CategoryInternal).
				WithTextCode(TextCodeConfiguration).
				WithMetadata(map[string]any{"purpose": string(purpose)})
		}
	}

	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return goerrors.New("bcrypt cost outside supported bounds", goerrors.CategoryInternal).
			WithTextCode(TextCodeConfiguration).
			WithMetadata(map[string]any{"cost": c.BcryptCost})
	}

	return nil
}

func (c *EnvConfig) GetLoginTokenSecret() string          { return c.LoginTokenSecret }
func (c *EnvConfig) GetActivationTokenSecret() string     { return c.ActivationTokenSecret }
func (c *EnvConfig) GetResetTokenSecret() string          { return c.ResetTokenSecret }
func (c *EnvConfig) GetLoginTokenTTL() time.Duration      { return c.LoginTokenTTL }
func (c *EnvConfig) GetActivationTokenTTL() time.Duration { return c.ActivationTokenTTL }
func (c *EnvConfig) GetResetTokenTTL() time.Duration      { return c.ResetTokenTTL }
func (c *EnvConfig) GetBcryptCost() int                   { return c.BcryptCost }
func (c *EnvConfig) GetIssuer() string                    { return c.Issuer }
func (c *EnvConfig) GetAudience() []string                { return c.Audience }
func (c *EnvConfig) GetContextKey() string                { return c.ContextKey }
func (c *EnvConfig) GetAuthScheme() string                { return c.AuthScheme }
func (c *EnvConfig) GetTokenLookup() string               { return c.TokenLookup }

var _ Config = (*EnvConfig)(nil)
