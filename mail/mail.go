package mail

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/domodwyer/mailyak/v3"

	"github.com/caasmo/notefold/config"
)

// Mailer handles sending emails. It reads SMTP settings from the config
// provider on every send, so config updates apply without a restart.
type Mailer struct {
	configProvider *config.Provider
}

// New creates a new Mailer instance
func New(provider *config.Provider) (*Mailer, error) {
	if provider == nil {
		return nil, fmt.Errorf("config provider cannot be nil")
	}
	return &Mailer{configProvider: provider}, nil
}

func (m *Mailer) client() (*mailyak.MailYak, *config.Smtp) {
	cfg := &m.configProvider.Get().Smtp
	mail := mailyak.New(fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host))
	mail.From(cfg.From)
	mail.FromName(cfg.FromName)
	return mail, cfg
}

// send runs the blocking SMTP exchange in a goroutine so the caller's context
// deadline is honored.
func send(ctx context.Context, mail *mailyak.MailYak) error {
	done := make(chan error, 1)
	go func() {
		done <- mail.Send()
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		return err
	}
}

// SendOtpEmail sends a one-time code for signup or login verification.
func (m *Mailer) SendOtpEmail(ctx context.Context, email, code string) error {
	mail, cfg := m.client()

	mail.To(email)
	mail.Subject(fmt.Sprintf("Your %s verification code", cfg.FromName))
	mail.HTML().Set(fmt.Sprintf(`
		<h1>Verification code</h1>
		<p>Enter this code to continue:</p>
		<p><strong style="font-size: 1.5em; letter-spacing: 0.2em;">%s</strong></p>
		<p>The code expires shortly. If you did not request it, ignore this email.</p>
	`, code))

	if err := send(ctx, mail); err != nil {
		return fmt.Errorf("failed to send otp email: %w", err)
	}
	return nil
}
