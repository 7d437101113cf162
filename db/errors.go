package db

import "errors"

var (
	// ErrUserNotFound is returned by operations that require an existing user.
	ErrUserNotFound = errors.New("user not found")

	// ErrOtpNotFound is returned by ConsumeOtp when no unexpired, unused
	// record matches the (email, code) pair.
	ErrOtpNotFound = errors.New("otp not found")

	// ErrNoteNotFound is returned by note mutations when no record matches
	// both the note id and the owner id.
	ErrNoteNotFound = errors.New("note not found")

	// ErrConstraintUnique is returned when an insert violates a unique
	// constraint, e.g. re-seeding an already pending recurrent job.
	ErrConstraintUnique = errors.New("unique constraint violation")

	// ErrMissingFields is returned when a record lacks required fields.
	ErrMissingFields = errors.New("missing required fields")
)
