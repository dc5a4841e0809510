package notify

import (
	"context"
	"fmt"
	"strings"

	accounts "github.com/hardwarehub/go-accounts"
)

// LinkDispatcher builds activation and password reset URLs and hands them to
// a Sender. Activation links point at the backend, which consumes the token
// directly; reset links point at the frontend form that collects the new
// password first.
type LinkDispatcher struct {
	sender      Sender
	backendURL  string
	frontendURL string
	logger      accounts.Logger
}

type LinkDispatcherOption func(*LinkDispatcher)

func NewLinkDispatcher(sender Sender, backendURL, frontendURL string, opts ...LinkDispatcherOption) *LinkDispatcher {
	if sender == nil {
		sender = &ConsoleSender{}
	}

	d := &LinkDispatcher{
		sender:      sender,
		backendURL:  strings.TrimRight(backendURL, "/"),
		frontendURL: strings.TrimRight(frontendURL, "/"),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}

	return d
}

func WithDispatcherLogger(logger accounts.Logger) LinkDispatcherOption {
	return func(d *LinkDispatcher) {
		d.logger = logger
	}
}

func (d *LinkDispatcher) SendActivationLink(ctx context.Context, account *accounts.PublicAccount, token string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	url := fmt.Sprintf("%s/auth/activate/%s", d.backendURL, token)

	id, err := d.sender.SendTemplateEmail(account.Email, Template{
		Subject: "Activate your account",
		Name:    account.Name,
		URL:     url,
	})
	if err != nil {
		return err
	}

	d.debug("activation link queued for %s (message id %q)", account.Email, id)
	return nil
}

func (d *LinkDispatcher) SendPasswordResetLink(ctx context.Context, account *accounts.PublicAccount, token string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	url := fmt.Sprintf("%s/reset-password/%s", d.frontendURL, token)

	id, err := d.sender.SendTemplateEmail(account.Email, Template{
		Subject: "Reset your password",
		Name:    account.Name,
		URL:     url,
	})
	if err != nil {
		return err
	}

	d.debug("password reset link queued for %s (message id %q)", account.Email, id)
	return nil
}

func (d *LinkDispatcher) debug(format string, args ...any) {
	if d.logger != nil {
		d.logger.Debug(format, args...)
	}
}

var _ accounts.Dispatcher = (*LinkDispatcher)(nil)
