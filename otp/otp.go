package otp

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/caasmo/notefold/config"
	"github.com/caasmo/notefold/crypto"
	"github.com/caasmo/notefold/db"
)

// Sender delivers a one-time code to an email address.
type Sender interface {
	SendOtpEmail(ctx context.Context, email, code string) error
}

// Issuer generates, stores and verifies one-time codes. Codes are persisted
// before delivery, so a crash after the send never leaves an undeliverable
// code unverifiable.
type Issuer struct {
	store          db.DbOtp
	sender         Sender
	configProvider *config.Provider
	logger         *slog.Logger
}

func NewIssuer(store db.DbOtp, sender Sender, provider *config.Provider, logger *slog.Logger) (*Issuer, error) {
	if store == nil {
		return nil, fmt.Errorf("otp store cannot be nil")
	}
	if sender == nil {
		return nil, fmt.Errorf("otp sender cannot be nil")
	}
	if provider == nil {
		return nil, fmt.Errorf("config provider cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	return &Issuer{
		store:          store,
		sender:         sender,
		configProvider: provider,
		logger:         logger,
	}, nil
}

// Issue generates a fresh code for email, stores it and sends it. A failed
// delivery fails the whole call; the stored code is harmless and the sweep
// job removes it once expired. Issuing again while older codes are live is
// allowed, each code verifies independently.
func (i *Issuer) Issue(ctx context.Context, email string) error {
	cfg := i.configProvider.Get().Otp

	code := crypto.RandomDigits(cfg.CodeLength)
	expires := time.Now().Add(cfg.Expiry.Duration)
	if err := i.store.InsertOtp(db.Otp{
		Email:   email,
		Code:    code,
		Expires: expires,
	}); err != nil {
		return fmt.Errorf("failed to store otp code: %w", err)
	}

	if err := i.sender.SendOtpEmail(ctx, email, code); err != nil {
		i.logger.Error("otp delivery failed", "email", email, "err", err)
		return fmt.Errorf("failed to deliver otp code: %w", err)
	}

	i.logger.Info("otp issued", "email", email, "expires", expires)
	return nil
}

// Consume verifies a submitted code and marks it used in one step. Returns
// db.ErrOtpNotFound when no live matching code exists.
func (i *Issuer) Consume(email, code string) (*db.Otp, error) {
	return i.store.ConsumeOtp(email, code)
}
