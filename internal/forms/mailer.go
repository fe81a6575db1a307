// Package forms handles the contact form endpoint: validation, spam
// scoring, persistence, and the notification email.
package forms

import (
	"fmt"
	"log"
	"net/smtp"

	"github.com/dsfolio/dsfolio/config"
)

// Mailer sends the owner a notification for each accepted submission.
type Mailer interface {
	SendContact(name, email, message string) error
}

// SMTPMailer delivers over plain-auth SMTP.
type SMTPMailer struct {
	cfg config.MailConfig
}

func NewSMTPMailer(cfg config.MailConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) SendContact(name, email, message string) error {
	if m.cfg.SMTPUser == "" || m.cfg.SMTPPass == "" {
		return fmt.Errorf("SMTP credentials not configured")
	}
	if m.cfg.To == "" {
		return fmt.Errorf("CONTACT_TO_EMAIL not configured")
	}

	subject := fmt.Sprintf("Portfolio Contact: %s", name)
	body := fmt.Sprintf(`New contact form submission:

Name: %s
Email: %s
Message:
%s

---
Sent from the portfolio contact form
`, name, email, message)

	msg := []byte("To: " + m.cfg.To + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"From: " + m.cfg.SMTPUser + "\r\n" +
		"Reply-To: " + email + "\r\n" +
		"\r\n" +
		body + "\r\n")

	auth := smtp.PlainAuth("", m.cfg.SMTPUser, m.cfg.SMTPPass, m.cfg.SMTPHost)

	addr := m.cfg.SMTPHost + ":" + m.cfg.SMTPPort
	if err := smtp.SendMail(addr, auth, m.cfg.SMTPUser, []string{m.cfg.To}, msg); err != nil {
		return fmt.Errorf("send contact mail: %w", err)
	}

	log.Printf("[forms] notification sent for submission from %s", email)
	return nil
}
