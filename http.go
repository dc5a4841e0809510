package accounts

import (
	"context"

	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"
	"github.com/hardwarehub/go-accounts/middleware/tokenware"
)

// Gatekeeper builds the middleware that protects routes with login tokens.
// Verified requests carry an Identity in both router locals and the standard
// context; everything else is rejected before the handler runs.
type Gatekeeper struct {
	cfg          Config
	tokens       TokenVerifier
	Logger       Logger
	ErrorHandler func(c router.Context, err error) error
}

func NewGatekeeper(tokens TokenVerifier, cfg Config) (*Gatekeeper, error) {
	if tokens == nil {
		return nil, goerrors.New("gatekeeper requires a token verifier", goerrors.CategoryInternal).
			WithTextCode(TextCodeConfiguration)
	}

	g := &Gatekeeper{
		cfg:    cfg,
		tokens: tokens,
		Logger: defLogger{},
	}

	g.ErrorHandler = RenderUnauthorized

	return g, nil
}

// RenderUnauthorized writes the 401 envelope regardless of the error's
// default status mapping. Protected routes always answer 401 so callers
// cannot probe which token flaw tripped them.
func RenderUnauthorized(ctx router.Context, err error) error {
	resp := ErrorResponse{Message: ErrTokenInvalid.Message}

	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		resp.TextCode = richErr.TextCode
		resp.Message = richErr.Message
	}

	return ctx.JSON(fiber.StatusUnauthorized, map[string]any{"error": resp})
}

// ProtectedRoute returns middleware that only lets verified login tokens
// through. Activation state is not re-checked here; it was enforced when
// the token was issued.
func (g *Gatekeeper) ProtectedRoute(errorHandler func(router.Context, error) error) router.MiddlewareFunc {
	if errorHandler == nil {
		errorHandler = g.MakeAuthErrorHandler(false)
	}

	return tokenware.New(tokenware.Config{
		ErrorHandler:    errorHandler,
		TokenVerifier:   loginVerifier{tokens: g.tokens},
		AuthScheme:      g.cfg.GetAuthScheme(),
		ContextKey:      g.cfg.GetContextKey(),
		TokenLookup:     g.cfg.GetTokenLookup(),
		ContextEnricher: enrichIdentityContext,
	})
}

// MakeAuthErrorHandler normalizes verification failures into the package's
// error taxonomy. With optional set, failures log and the request proceeds
// unauthenticated.
func (g *Gatekeeper) MakeAuthErrorHandler(optional bool) func(router.Context, error) error {
	return func(ctx router.Context, err error) error {
		var richErr *goerrors.Error

		if IsTokenExpiredError(err) {
			richErr = ErrTokenExpired
		} else if IsTokenInvalidError(err) {
			richErr = ErrTokenInvalid
		} else {
			richErr = goerrors.Wrap(err, goerrors.CategoryAuth, "invalid authentication token").
				WithTextCode(TextCodeTokenInvalid)
		}

		if optional {
			g.Logger.Info("optional auth failed, proceeding: %s", richErr.Message)
			return ctx.Next()
		}

		return g.ErrorHandler(ctx, richErr)
	}
}

// loginVerifier binds the login purpose so the middleware stays purpose
// agnostic.
type loginVerifier struct {
	tokens TokenVerifier
}

func (v loginVerifier) Verify(raw string) (tokenware.AuthClaims, error) {
	claims, err := v.tokens.Verify(TokenPurposeLogin, raw)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

func enrichIdentityContext(ctx context.Context, claims tokenware.AuthClaims) context.Context {
	ac, ok := claims.(*AccountClaims)
	if !ok {
		return ctx
	}

	ctx = WithClaimsContext(ctx, ac)
	return WithIdentityContext(ctx, &Identity{
		AccountID: ac.AccountID(),
		Email:     ac.Email,
	})
}
