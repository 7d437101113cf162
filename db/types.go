package db

import (
	"encoding/json"
	"time"
)

// PlaceholderDateOfBirth is stored for accounts created through OAuth2,
// where the provider asserts no date of birth.
const PlaceholderDateOfBirth = "0001-01-01"

// User represents a user from the database.
// Timestamps (Created and Updated) use RFC3339 format in UTC timezone.
// Example: "2024-03-07T15:04:05Z"
type User struct {
	ID    string
	Email string
	Name  string
	// DateOfBirth uses the format "2006-01-02". Accounts created via OAuth2
	// carry PlaceholderDateOfBirth.
	DateOfBirth string
	// Password is a legacy bcrypt hash. It may be captured at signup but is
	// never part of an active login path; empty for passwordless accounts.
	Password string
	Verified bool
	// ExternalId is the OAuth2 provider subject id, empty when the account
	// has no linked external identity.
	ExternalId string
	Created    time.Time
	Updated    time.Time
}

// Otp is a single-use email verification code. Multiple live codes may
// exist per email; each is independently valid until consumed or expired.
type Otp struct {
	ID      int64
	Email   string
	Code    string
	Expires time.Time
	Used    bool
	Created time.Time
}

// Note is a user-owned text note.
type Note struct {
	ID      string
	OwnerId string
	Title   string
	Content string
	Created time.Time
	Updated time.Time
}

// Job represents a job in the processing queue
type Job struct {
	ID           int64           `json:"id"`
	JobType      string          `json:"job_type"`
	Payload      json.RawMessage `json:"payload"`
	Status       string          `json:"status"`
	Attempts     int             `json:"attempts"`
	MaxAttempts  int             `json:"max_attempts"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	ScheduledFor time.Time       `json:"scheduled_for"`
	LockedAt     time.Time       `json:"locked_at,omitempty"`
	CompletedAt  time.Time       `json:"completed_at,omitempty"`
	LastError    string          `json:"last_error,omitempty"`
	Recurrent    bool            `json:"recurrent"`
	Interval     time.Duration   `json:"interval"`
}
