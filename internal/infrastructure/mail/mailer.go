// Package mail sends transactional email over SMTP.
package mail

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/nabl-labs/accounts-api/pkg/config"
)

// Mailer delivers password-reset email through the configured SMTP relay.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewMailer(cfg config.SMTPConfig) *Mailer {
	return &Mailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

// SendPasswordReset emails the reset link. The token inside resetURL is a
// credential, so it is never logged here.
func (m *Mailer) SendPasswordReset(ctx context.Context, to, firstname, resetURL string) error {
	if firstname == "" {
		firstname = "User"
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Password Reset Request")
	msg.SetBody("text/html", fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>We received a request to reset the password for your account.
		Click the link below to choose a new password:</p>
		<p><a href="%s">Reset your password</a></p>
		<p>This link expires in 1 hour. If you did not request a password
		reset, you can safely ignore this email.</p>`,
		firstname, resetURL))

	done := make(chan error, 1)
	go func() { done <- m.dialer.DialAndSend(msg) }()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("send reset email: %w", err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
