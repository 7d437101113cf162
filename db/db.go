package db

// DbAuth covers the user records needed by the authentication flows.
// Implementations return (nil, nil) from the Get methods when no matching
// record exists; an error always means a database fault.
type DbAuth interface {
	GetUserByEmail(email string) (*User, error)
	GetUserById(id string) (*User, error)

	// CreateUserWithOtp creates a verified user after a successful OTP
	// verification. On email conflict the existing record is returned with
	// verified set, so two racing verifications both succeed without a
	// transaction.
	CreateUserWithOtp(user User) (*User, error)

	// CreateUserWithOauth2 creates a verified user from an external identity.
	// On email conflict the external subject id is attached only when the
	// existing record has none; an established link is never overwritten.
	// Callers detect a link to a different subject on the returned record.
	CreateUserWithOauth2(user User) (*User, error)

	// LinkOauth2 attaches an external subject id to an existing user.
	LinkOauth2(userId, externalId string) error
}

// DbOtp covers the one-time-password records.
type DbOtp interface {
	InsertOtp(otp Otp) error

	// ConsumeOtp atomically marks the matching record used and returns it.
	// The update only matches records that are unexpired and not yet used,
	// so verification and consumption are a single conditional write and a
	// code can never be accepted twice. Returns ErrOtpNotFound when no
	// record qualifies.
	ConsumeOtp(email, code string) (*Otp, error)

	// DeleteExpiredOtps removes used and expired records. Housekeeping only;
	// ConsumeOtp never matches them regardless of sweep timing.
	DeleteExpiredOtps() (int, error)
}

// DbNote covers the note records. Every operation is scoped by owner id;
// a note id alone never grants access.
type DbNote interface {
	CreateNote(note Note) (*Note, error)
	GetNote(id, ownerId string) (*Note, error)
	ListNotes(ownerId string) ([]*Note, error)
	UpdateNote(note Note) (*Note, error)
	DeleteNote(id, ownerId string) error
}

// DbQueue covers the background job queue.
type DbQueue interface {
	InsertJob(job Job) error
	Claim(limit int) ([]*Job, error)
	MarkCompleted(jobID int64) error
	MarkFailed(jobID int64, errMsg string) error

	// MarkRecurrentCompleted marks a finished recurrent job completed and
	// inserts its next scheduled run in one statement batch.
	MarkRecurrentCompleted(completedJobID int64, newJob Job) error
}

// DbApp combines the roles a concrete backend must satisfy to serve the
// application. Both sqlite implementations (zombiezen and crawshaw) satisfy
// it.
type DbApp interface {
	DbAuth
	DbOtp
	DbNote
	DbQueue
}
