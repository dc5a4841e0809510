package notify

import (
	"fmt"
)

// ConsoleSender prints the link instead of delivering it. Default in
// development so flows can be exercised without a mail provider.
type ConsoleSender struct{}

func (s *ConsoleSender) SendTemplateEmail(recipientEmail string, template Template) (string, error) {
	fmt.Println("====== SENDING EMAIL NOTIFICATION =======")
	fmt.Printf("to: %s\n", recipientEmail)
	fmt.Printf("subject: %s\n", template.Subject)
	fmt.Printf("link: %s\n", template.URL)
	return "", nil
}
