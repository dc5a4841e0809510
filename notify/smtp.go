package notify

import (
	"errors"
	"fmt"
	"log"
	"net/smtp"
)

// SMTPConfig holds the configuration for plain SMTP delivery
type SMTPConfig struct {
	SMTPHost string `json:"smtp_host" env:"NOTIFY_SMTP_HOST"`
	SMTPPort string `json:"smtp_port" env:"NOTIFY_SMTP_PORT"`
	Username string `json:"username" env:"NOTIFY_SMTP_USERNAME"`
	Password string `json:"password" env:"NOTIFY_SMTP_PASSWORD"`
	From     string `json:"from" env:"NOTIFY_SMTP_FROM"`
}

// LocalSMTPSender implements Sender over plain SMTP
type LocalSMTPSender struct {
	Config *SMTPConfig
}

func (s *LocalSMTPSender) SendTemplateEmail(recipientEmail string, template Template) (string, error) {
	auth := smtp.PlainAuth("", s.Config.Username, s.Config.Password, s.Config.SMTPHost)
	to := []string{recipientEmail}
	body := fmt.Sprintf("Hi %s,\n\n%s", template.Name, template.URL)
	msg := []byte(fmt.Sprintf("To: %s\r\nSubject: %s\r\n\r\n%s", recipientEmail, template.Subject, body))

	err := smtp.SendMail(fmt.Sprintf("%s:%s", s.Config.SMTPHost, s.Config.SMTPPort), auth, s.Config.From, to, msg)
	if err != nil {
		log.Printf("Error sending email: %v", err)
		return "", errors.New("failed to send email")
	}
	return "", nil
}

func validateSMTPConfig(config *SMTPConfig) error {
	if config == nil || config.SMTPHost == "" || config.SMTPPort == "" || config.From == "" {
		return errors.New("invalid SMTP configuration")
	}
	return nil
}
