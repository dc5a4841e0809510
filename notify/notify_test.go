package notify_test

import (
	"testing"

	"github.com/hardwarehub/go-accounts/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvideSender(t *testing.T) {
	t.Run("nil config falls back to console", func(t *testing.T) {
		sender, err := notify.ProvideSender(nil)
		require.NoError(t, err)
		assert.IsType(t, &notify.ConsoleSender{}, sender)
	})

	t.Run("empty provider falls back to console", func(t *testing.T) {
		sender, err := notify.ProvideSender(&notify.Config{})
		require.NoError(t, err)
		assert.IsType(t, &notify.ConsoleSender{}, sender)
	})

	t.Run("mailgun", func(t *testing.T) {
		sender, err := notify.ProvideSender(&notify.Config{
			Provider: "mailgun",
			Mailgun: &notify.MailgunConfig{
				Key:    "key-123",
				Domain: "mg.example.com",
				From:   "no-reply@example.com",
			},
		})
		require.NoError(t, err)
		assert.IsType(t, &notify.MailgunSender{}, sender)
	})

	t.Run("sendgrid", func(t *testing.T) {
		sender, err := notify.ProvideSender(&notify.Config{
			Provider: "sendgrid",
			SendGrid: &notify.SendGridConfig{
				Key:  "SG.key",
				From: "no-reply@example.com",
			},
		})
		require.NoError(t, err)
		assert.IsType(t, &notify.SendGridSender{}, sender)
	})

	t.Run("smtp", func(t *testing.T) {
		sender, err := notify.ProvideSender(&notify.Config{
			Provider: "smtp",
			SMTP: &notify.SMTPConfig{
				SMTPHost: "localhost",
				SMTPPort: "1025",
				From:     "no-reply@example.com",
			},
		})
		require.NoError(t, err)
		assert.IsType(t, &notify.LocalSMTPSender{}, sender)
	})

	t.Run("unknown provider errors", func(t *testing.T) {
		_, err := notify.ProvideSender(&notify.Config{Provider: "carrier-pigeon"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "carrier-pigeon")
	})

	t.Run("incomplete provider config errors", func(t *testing.T) {
		_, err := notify.ProvideSender(&notify.Config{
			Provider: "mailgun",
			Mailgun:  &notify.MailgunConfig{Key: "key-123"},
		})
		require.Error(t, err)
	})
}

func TestNewSenderRejectsUnknownConfig(t *testing.T) {
	_, err := notify.NewSender(struct{}{})
	require.Error(t, err)
}
