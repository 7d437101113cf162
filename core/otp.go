package core

import (
	"context"

	"github.com/caasmo/notefold/db"
)

// OtpIssuer issues and consumes one-time passwords. Satisfied by
// otp.Issuer; an interface here keeps the handlers testable with a stub.
type OtpIssuer interface {
	// Issue generates, persists and delivers a fresh code for the email.
	Issue(ctx context.Context, email string) error

	// Consume atomically validates and burns a code. Returns
	// db.ErrOtpNotFound when no live code matches.
	Consume(email, code string) (*db.Otp, error)
}
