package notify

import (
	"errors"
)

// Config holds the configuration for all delivery providers. Provider picks
// which one is active.
type Config struct {
	Provider string          `json:"provider" env:"NOTIFY_PROVIDER" envDefault:"console"`
	Mailgun  *MailgunConfig  `json:"mailgun"`
	SendGrid *SendGridConfig `json:"sendgrid"`
	SMTP     *SMTPConfig     `json:"smtp"`
}

// Template represents a link email: a subject, the recipient's display
// name, and the action URL.
type Template struct {
	Subject string `json:"subject"`
	Name    string `json:"name"`
	URL     string `json:"url"`
}

// SenderConfig is a provider specific configuration value.
type SenderConfig any

// Sender is a generic interface for delivering link emails.
type Sender interface {
	SendTemplateEmail(recipientEmail string, template Template) (string, error)
}

func validateSenderConfig(config SenderConfig) error {
	switch c := config.(type) {
	case *MailgunConfig:
		return validateMailgunConfig(c)
	case *SendGridConfig:
		return validateSendGridConfig(c)
	case *SMTPConfig:
		return validateSMTPConfig(c)
	default:
		return errors.New("invalid notify configuration")
	}
}

// NewSender returns a new Sender for the given provider configuration.
func NewSender(config SenderConfig) (Sender, error) {
	if err := validateSenderConfig(config); err != nil {
		return nil, err
	}
	switch c := config.(type) {
	case *MailgunConfig:
		return &MailgunSender{Config: c}, nil
	case *SendGridConfig:
		return &SendGridSender{Config: c}, nil
	case *SMTPConfig:
		return &LocalSMTPSender{Config: c}, nil
	default:
		return nil, errors.New("create notify sender failed")
	}
}

// ProvideSender creates a Sender from the top level Config. The console
// sender is the fallback so development environments work unconfigured.
func ProvideSender(cfg *Config) (Sender, error) {
	if cfg == nil {
		return &ConsoleSender{}, nil
	}

	switch cfg.Provider {
	case "mailgun":
		return NewSender(cfg.Mailgun)
	case "sendgrid":
		return NewSender(cfg.SendGrid)
	case "smtp":
		return NewSender(cfg.SMTP)
	case "console", "":
		return &ConsoleSender{}, nil
	default:
		return nil, errors.New("unknown notify provider: " + cfg.Provider)
	}
}
