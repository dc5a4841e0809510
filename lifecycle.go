package accounts

import (
	"context"
	"errors"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// DefaultOperationTimeout bounds every lifecycle operation, store work and
// hashing included.
var DefaultOperationTimeout = time.Second * 10

// Lifecycle drives account state through its transitions: registered,
// activated, authenticated, password reset. All writes run inside a store
// transaction; link dispatch happens after commit and never rolls back
// account state.
type Lifecycle struct {
	repo             RepositoryManager
	tokens           TokenService
	cfg              Config
	hasher           PasswordHasher
	dispatcher       Dispatcher
	logger           Logger
	opTimeout        time.Duration
	deterministicIDs bool

	// Hash compared against when login targets a missing account, so both
	// failure paths cost one bcrypt comparison.
	parityHash string
}

type LifecycleOption func(*Lifecycle)

func NewLifecycle(repo RepositoryManager, tokens TokenService, opts ...LifecycleOption) (*Lifecycle, error) {
	if repo == nil {
		return nil, goerrors.New("lifecycle requires a repository manager", goerrors.CategoryInternal).
			WithTextCode(TextCodeConfiguration)
	}
	if tokens == nil {
		return nil, goerrors.New("lifecycle requires a token service", goerrors.CategoryInternal).
			WithTextCode(TextCodeConfiguration)
	}

	l := &Lifecycle{
		repo:       repo,
		tokens:     tokens,
		dispatcher: noopDispatcher{},
		logger:     defLogger{},
		opTimeout:  DefaultOperationTimeout,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}

	if l.hasher == nil {
		cost := passwordHashCost()
		if l.cfg != nil {
			cost = l.cfg.GetBcryptCost()
		}
		l.hasher = NewHasher(cost)
	}

	// Parity hash at the live cost so the comparison burned on unknown
	// emails takes as long as a real one.
	parity, err := l.hasher.Hash(context.Background(), "timing-parity-sentinel")
	if err != nil {
		return nil, err
	}
	l.parityHash = parity

	return l, nil
}

// WithConfig applies configuration derived defaults, currently the bcrypt
// cost of the default hasher. An explicit WithHasher takes precedence
// regardless of option order.
func WithConfig(cfg Config) LifecycleOption {
	return func(l *Lifecycle) {
		l.cfg = cfg
	}
}

func WithLogger(logger Logger) LifecycleOption {
	return func(l *Lifecycle) {
		if logger != nil {
			l.logger = logger
		}
	}
}

func WithDispatcher(d Dispatcher) LifecycleOption {
	return func(l *Lifecycle) {
		if d != nil {
			l.dispatcher = d
		}
	}
}

func WithHasher(h PasswordHasher) LifecycleOption {
	return func(l *Lifecycle) {
		if h != nil {
			l.hasher = h
		}
	}
}

func WithOperationTimeout(d time.Duration) LifecycleOption {
	return func(l *Lifecycle) {
		if d > 0 {
			l.opTimeout = d
		}
	}
}

// WithDeterministicIDs derives account ids from the normalized email instead
// of random UUIDs. Useful for seeding and idempotent imports.
func WithDeterministicIDs(enabled bool) LifecycleOption {
	return func(l *Lifecycle) {
		l.deterministicIDs = enabled
	}
}

// RegisterMessage carries the input for account registration.
type RegisterMessage struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a new deactivated account and dispatches the activation
// link. The account row commits before dispatch; a failed send is logged and
// the registration still succeeds.
func (l *Lifecycle) Register(ctx context.Context, msg RegisterMessage) (*PublicAccount, error) {
	select {
	case <-ctx.Done():
		return nil, goerrors.Wrap(ctx.Err(), goerrors.CategoryOperation, "context cancelled during registration").
			WithTextCode(TextCodeStoreUnavailable)
	default:
	}

	ctx, cancel := context.WithTimeout(ctx, l.opTimeout)
	defer cancel()

	account := &Account{}

	err := l.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		hash, err := l.hasher.Hash(ctx, msg.Password)
		if err != nil {
			var richErr *goerrors.Error
			if goerrors.As(err, &richErr) {
				return richErr
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
		}

		account.Name = msg.Name
		account.Email = NormalizeEmail(msg.Email)
		account.PasswordHash = hash
		if l.deterministicIDs {
			if id, err := hashid.NewUUID(account.Email); err == nil {
				account.ID = id
			}
		}

		if account, err = l.repo.Accounts().CreateTx(ctx, tx, account); err != nil {
			return err
		}

		return nil
	})

	if err != nil {
		return nil, l.normalizeErr(err, "account registration failed")
	}

	l.dispatchActivation(ctx, account)

	return account.Public(), nil
}

// LoginMessage carries login credentials.
type LoginMessage struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login checks credentials and, for activated accounts, issues a login
// token. A missing account and a wrong password return the identical
// error; activation state is only revealed once the password matched.
func (l *Lifecycle) Login(ctx context.Context, msg LoginMessage) (string, *PublicAccount, error) {
	ctx, cancel := context.WithTimeout(ctx, l.opTimeout)
	defer cancel()

	account, err := l.repo.Accounts().GetByEmail(ctx, msg.Email)
	if err != nil {
		if repository.IsRecordNotFound(err) || goerrors.IsNotFound(err) {
			// Burn a comparison so the missing-account path costs the same
			// as a wrong password.
			_ = l.hasher.Compare(msg.Password, l.parityHash)
			return "", nil, ErrMismatchedHashAndPassword
		}
		return "", nil, l.normalizeErr(err, "failed to retrieve account for login")
	}

	if err := l.hasher.Compare(msg.Password, account.PasswordHash); err != nil {
		return "", nil, ErrMismatchedHashAndPassword
	}

	if !account.Activated {
		return "", nil, ErrAccountNotActivated
	}

	token, err := l.tokens.Issue(TokenPurposeLogin, account)
	if err != nil {
		return "", nil, err
	}

	return token, account.Public(), nil
}

// Activate verifies an activation token and flips the account's activation
// flag. Replaying a still-valid token is a no-op success.
func (l *Lifecycle) Activate(ctx context.Context, rawToken string) (*PublicAccount, error) {
	ctx, cancel := context.WithTimeout(ctx, l.opTimeout)
	defer cancel()

	claims, err := l.tokens.Verify(TokenPurposeActivation, rawToken)
	if err != nil {
		return nil, err
	}

	id, err := uuid.Parse(claims.Subject())
	if err != nil {
		return nil, ErrTokenInvalid.Clone().WithMetadata(map[string]any{
			"subject": claims.Subject(),
		})
	}

	account, err := l.repo.Accounts().Activate(ctx, id)
	if err != nil {
		if repository.IsRecordNotFound(err) || goerrors.IsNotFound(err) {
			return nil, ErrAccountMissing.Clone().WithMetadata(map[string]any{
				"id": id.String(),
			})
		}
		return nil, l.normalizeErr(err, "failed to activate account")
	}

	return account.Public(), nil
}

// RequestPasswordReset issues a reset token and dispatches the reset link.
// The response is identical whether or not the email maps to an account, so
// the endpoint cannot be used to enumerate registrations.
func (l *Lifecycle) RequestPasswordReset(ctx context.Context, email string) error {
	ctx, cancel := context.WithTimeout(ctx, l.opTimeout)
	defer cancel()

	account, err := l.repo.Accounts().GetByEmail(ctx, email)
	if err != nil {
		if repository.IsRecordNotFound(err) || goerrors.IsNotFound(err) {
			l.logger.Info("password reset requested for unknown email")
			return nil
		}
		return l.normalizeErr(err, "failed to retrieve account for password reset")
	}

	token, err := l.tokens.Issue(TokenPurposeReset, account)
	if err != nil {
		// Signing failures are configuration problems. Logged, not surfaced,
		// to keep the response shape constant.
		l.logger.Error("failed to issue password reset token: %v", err)
		return nil
	}

	if err := l.dispatcher.SendPasswordResetLink(ctx, account.Public(), token); err != nil {
		l.logger.Error("failed to dispatch password reset link for account %s: %v", account.ID, err)
	}

	return nil
}

// ResetPassword verifies a reset token and replaces the account's
// credential hash with a hash of the new password.
func (l *Lifecycle) ResetPassword(ctx context.Context, rawToken, newPassword string) (*PublicAccount, error) {
	ctx, cancel := context.WithTimeout(ctx, l.opTimeout)
	defer cancel()

	claims, err := l.tokens.Verify(TokenPurposeReset, rawToken)
	if err != nil {
		return nil, err
	}

	id, err := uuid.Parse(claims.Subject())
	if err != nil {
		return nil, ErrTokenInvalid.Clone().WithMetadata(map[string]any{
			"subject": claims.Subject(),
		})
	}

	hash, err := l.hasher.Hash(ctx, newPassword)
	if err != nil {
		return nil, l.normalizeErr(err, "failed to hash password")
	}

	// The credential swap is a single statement, atomic on its own.
	if err := l.repo.Accounts().UpdatePasswordHash(ctx, id, hash); err != nil {
		if repository.IsRecordNotFound(err) || goerrors.IsNotFound(err) {
			return nil, ErrAccountMissing.Clone().WithMetadata(map[string]any{
				"id": id.String(),
			})
		}
		return nil, l.normalizeErr(err, "password reset failed")
	}

	account, err := l.repo.Accounts().GetByID(ctx, id.String())
	if err != nil {
		return nil, l.normalizeErr(err, "failed to retrieve account after password reset")
	}

	return account.Public(), nil
}

// GetProfile loads the account behind a verified identity.
func (l *Lifecycle) GetProfile(ctx context.Context, accountID string) (*PublicAccount, error) {
	ctx, cancel := context.WithTimeout(ctx, l.opTimeout)
	defer cancel()

	account, err := l.repo.Accounts().GetByID(ctx, accountID)
	if err != nil {
		if repository.IsRecordNotFound(err) || goerrors.IsNotFound(err) {
			return nil, ErrAccountMissing.Clone().WithMetadata(map[string]any{
				"id": accountID,
			})
		}
		return nil, l.normalizeErr(err, "failed to retrieve profile")
	}

	return account.Public(), nil
}

// UpdateProfileMessage carries the mutable profile fields.
type UpdateProfileMessage struct {
	Name            string `json:"name"`
	ProfileImageURL string `json:"profile_image_url"`
}

// UpdateProfile updates display name and image reference. Email and
// credentials are not reachable through this path.
func (l *Lifecycle) UpdateProfile(ctx context.Context, accountID string, msg UpdateProfileMessage) (*PublicAccount, error) {
	ctx, cancel := context.WithTimeout(ctx, l.opTimeout)
	defer cancel()

	id, err := uuid.Parse(accountID)
	if err != nil {
		return nil, ErrAccountMissing.Clone().WithMetadata(map[string]any{
			"id": accountID,
		})
	}

	account, err := l.repo.Accounts().UpdateProfile(ctx, id, msg.Name, msg.ProfileImageURL)
	if err != nil {
		if repository.IsRecordNotFound(err) || goerrors.IsNotFound(err) {
			return nil, ErrAccountMissing.Clone().WithMetadata(map[string]any{
				"id": accountID,
			})
		}
		return nil, l.normalizeErr(err, "failed to update profile")
	}

	return account.Public(), nil
}

func (l *Lifecycle) dispatchActivation(ctx context.Context, account *Account) {
	token, err := l.tokens.Issue(TokenPurposeActivation, account)
	if err != nil {
		l.logger.Error("failed to issue activation token for account %s: %v", account.ID, err)
		return
	}

	if err := l.dispatcher.SendActivationLink(ctx, account.Public(), token); err != nil {
		l.logger.Error("failed to dispatch activation link for account %s: %v", account.ID, err)
	}
}

func (l *Lifecycle) normalizeErr(err error, msg string) error {
	if err == nil {
		return nil
	}

	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return richErr
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return goerrors.Wrap(err, goerrors.CategoryOperation, ErrStoreUnavailable.Message).
			WithTextCode(TextCodeStoreUnavailable)
	}

	return goerrors.Wrap(err, goerrors.CategoryInternal, msg)
}
