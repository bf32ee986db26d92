// Package mailer sends transactional mail over SMTP. It is consumed
// through the Sender interface so services can be tested with a fake.
package mailer

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"gopkg.in/gomail.v2"
)

var ErrNotConfigured = errors.New("smtp configuration missing")

// Sender delivers a single message.
type Sender interface {
	Send(to, subject, htmlBody string) error
}

// SMTPMailer sends mail through an SMTP relay.
type SMTPMailer struct {
	host   string
	port   int
	user   string
	pass   string
	from   string
	logger *slog.Logger
}

// NewSMTPMailer creates an SMTPMailer.
func NewSMTPMailer(host string, port int, user, pass, from string, logger *slog.Logger) *SMTPMailer {
	return &SMTPMailer{host: host, port: port, user: user, pass: pass, from: from, logger: logger}
}

// Send delivers one HTML message. Missing configuration is an error, not
// a silent skip, since callers may need to roll state back when mail
// cannot go out.
func (m *SMTPMailer) Send(to, subject, htmlBody string) error {
	if m.host == "" || m.from == "" {
		return ErrNotConfigured
	}
	if strings.TrimSpace(to) == "" {
		return errors.New("empty recipient")
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(m.host, m.port, m.user, m.pass)
	if err := d.DialAndSend(msg); err != nil {
		return fmt.Errorf("send email: %w", err)
	}

	m.logger.Info("email sent", slog.String("to", to), slog.String("subject", subject))
	return nil
}

// ResetPasswordBody renders the password reset mail.
func ResetPasswordBody(resetURL string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif;">
  <div style="max-width: 520px; margin: 0 auto; padding: 16px;">
    <h2>Password reset</h2>
    <p>You (or someone else) requested a password reset for this account.</p>
    <p>Reset your password by sending a PUT request to:</p>
    <p><a href="%s">%s</a></p>
    <p>The link expires in 10 minutes. If you did not request this, ignore this email.</p>
  </div>
</body>
</html>`, resetURL, resetURL)
}
