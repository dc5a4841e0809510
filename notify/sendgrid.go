package notify

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendGridConfig holds the configuration for SendGrid
type SendGridConfig struct {
	Key  string `json:"key" env:"NOTIFY_SENDGRID_KEY"`
	From string `json:"from" env:"NOTIFY_SENDGRID_FROM"`
}

// SendGridSender implements Sender for SendGrid
type SendGridSender struct {
	Config *SendGridConfig
}

func (s *SendGridSender) SendTemplateEmail(recipientEmail string, template Template) (string, error) {
	from := mail.NewEmail("", s.Config.From)
	to := mail.NewEmail(template.Name, recipientEmail)
	plainTextContent := fmt.Sprintf("Hi %s,\n\n%s", template.Name, template.URL)
	htmlContent := fmt.Sprintf("Hi %s,<br><a href=%q>%s</a>", template.Name, template.URL, template.URL)
	message := mail.NewSingleEmail(from, template.Subject, to, plainTextContent, htmlContent)

	client := sendgrid.NewSendClient(s.Config.Key)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	response, err := client.SendWithContext(ctx, message)
	if err != nil {
		log.Printf("Error sending email: %v", err)
		return "", err
	}

	if response.StatusCode != 202 {
		err := fmt.Errorf("failed to send email, status code: %d", response.StatusCode)
		log.Printf("Error sending email: %v", err)
		return "", err
	}

	if ids := response.Headers["X-Message-Id"]; len(ids) > 0 {
		return ids[0], nil
	}
	return "", nil
}

func validateSendGridConfig(config *SendGridConfig) error {
	if config == nil || config.Key == "" || config.From == "" {
		return errors.New("invalid SendGrid configuration")
	}
	return nil
}
