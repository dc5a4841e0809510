package accounts

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	goerrors "github.com/goliatone/go-errors"
)

type purposeKey struct {
	secret []byte
	ttl    time.Duration
}

// JWTTokenService signs and verifies HS256 tokens, one secret and TTL per
// purpose. Verification requires both a valid signature under the purpose's
// secret and a matching purpose claim.
type JWTTokenService struct {
	purposes map[TokenPurpose]purposeKey
	issuer   string
	audience []string
	logger   Logger
}

// NewTokenService builds a JWTTokenService from the given configuration.
// Configurations should be validated before this point; an unknown or
// secretless purpose surfaces as ErrMissingSigningSecret at Issue/Verify.
func NewTokenService(cfg Config, logger Logger) *JWTTokenService {
	if logger == nil {
		logger = defLogger{}
	}

	return &JWTTokenService{
		purposes: map[TokenPurpose]purposeKey{
			TokenPurposeLogin: {
				secret: []byte(cfg.GetLoginTokenSecret()),
				ttl:    cfg.GetLoginTokenTTL(),
			},
			TokenPurposeActivation: {
				secret: []byte(cfg.GetActivationTokenSecret()),
				ttl:    cfg.GetActivationTokenTTL(),
			},
			TokenPurposeReset: {
				secret: []byte(cfg.GetResetTokenSecret()),
				ttl:    cfg.GetResetTokenTTL(),
			},
		},
		issuer:   cfg.GetIssuer(),
		audience: cfg.GetAudience(),
		logger:   logger,
	}
}

// Issue signs a token for the account scoped to the given purpose. The
// subject is the account id and the expiry comes from the purpose's TTL.
func (s *JWTTokenService) Issue(purpose TokenPurpose, account *Account) (string, error) {
	key, err := s.keyFor(purpose)
	if err != nil {
		return "", err
	}

	now := time.Now()
	claims := &AccountClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   account.ID.String(),
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings(s.audience),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(key.ttl)),
		},
		Purpose: purpose,
		Email:   account.Email,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(key.secret)
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to sign token").
			WithMetadata(map[string]any{"purpose": string(purpose)})
	}

	return signed, nil
}

// Verify parses and validates a raw token against the purpose's secret.
// Expired tokens map to ErrTokenExpired; anything else that fails, including
// a token signed for a different purpose, maps to ErrTokenInvalid.
func (s *JWTTokenService) Verify(purpose TokenPurpose, raw string) (*AccountClaims, error) {
	key, err := s.keyFor(purpose)
	if err != nil {
		return nil, err
	}

	claims := &AccountClaims{}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return key.secret, nil
	}, opts...)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired.Clone().WithMetadata(map[string]any{
				"purpose": string(purpose),
			})
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryAuth, ErrTokenInvalid.Message).
			WithTextCode(TextCodeTokenInvalid).
			WithMetadata(map[string]any{"purpose": string(purpose)})
	}

	if !token.Valid || claims.Purpose != purpose {
		return nil, ErrTokenInvalid.Clone().WithMetadata(map[string]any{
			"purpose":   string(purpose),
			"presented": string(claims.Purpose),
		})
	}

	return claims, nil
}

func (s *JWTTokenService) keyFor(purpose TokenPurpose) (purposeKey, error) {
	key, ok := s.purposes[purpose]
	if !ok || len(key.secret) == 0 {
		return purposeKey{}, ErrMissingSigningSecret.Clone().
			WithMetadata(map[string]any{"purpose": string(purpose)})
	}
	return key, nil
}

var _ TokenService = (*JWTTokenService)(nil)
var _ TokenVerifier = (*JWTTokenService)(nil)
