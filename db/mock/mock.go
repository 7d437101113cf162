package mock

import (
	"github.com/caasmo/notefold/db"
)

// Compile-time check to ensure Db implements the DbApp interface
var _ db.DbApp = (*Db)(nil)

// Db implements db.DbApp for testing purposes.
// Use function fields to allow overriding behavior in specific tests.
type Db struct {
	// --- Mock DbAuth Methods ---
	GetUserByEmailFunc       func(email string) (*db.User, error)
	GetUserByIdFunc          func(id string) (*db.User, error)
	CreateUserWithOtpFunc    func(user db.User) (*db.User, error)
	CreateUserWithOauth2Func func(user db.User) (*db.User, error)
	LinkOauth2Func           func(userId, externalId string) error

	// --- Mock DbOtp Methods ---
	InsertOtpFunc         func(otp db.Otp) error
	ConsumeOtpFunc        func(email, code string) (*db.Otp, error)
	DeleteExpiredOtpsFunc func() (int, error)

	// --- Mock DbNote Methods ---
	CreateNoteFunc func(note db.Note) (*db.Note, error)
	GetNoteFunc    func(id, ownerId string) (*db.Note, error)
	ListNotesFunc  func(ownerId string) ([]*db.Note, error)
	UpdateNoteFunc func(note db.Note) (*db.Note, error)
	DeleteNoteFunc func(id, ownerId string) error

	// --- Mock DbQueue Methods ---
	InsertJobFunc              func(job db.Job) error
	ClaimFunc                  func(limit int) ([]*db.Job, error)
	MarkCompletedFunc          func(jobID int64) error
	MarkFailedFunc             func(jobID int64, errMsg string) error
	MarkRecurrentCompletedFunc func(completedJobID int64, newJob db.Job) error
}

// --- Implement DbAuth ---
func (m *Db) GetUserByEmail(email string) (*db.User, error) {
	if m.GetUserByEmailFunc != nil {
		return m.GetUserByEmailFunc(email)
	}
	return nil, nil // Default: Not found
}
func (m *Db) GetUserById(id string) (*db.User, error) {
	if m.GetUserByIdFunc != nil {
		return m.GetUserByIdFunc(id)
	}
	return nil, nil // Default: Not found
}
func (m *Db) CreateUserWithOtp(user db.User) (*db.User, error) {
	if m.CreateUserWithOtpFunc != nil {
		return m.CreateUserWithOtpFunc(user)
	}
	// Default: Return the user passed in, assuming success
	user.ID = "mock-otp-user-id"
	user.Verified = true
	return &user, nil
}
func (m *Db) CreateUserWithOauth2(user db.User) (*db.User, error) {
	if m.CreateUserWithOauth2Func != nil {
		return m.CreateUserWithOauth2Func(user)
	}
	// Default: Return the user passed in, assuming success
	user.ID = "mock-oauth-user-id"
	user.Verified = true
	return &user, nil
}
func (m *Db) LinkOauth2(userId, externalId string) error {
	if m.LinkOauth2Func != nil {
		return m.LinkOauth2Func(userId, externalId)
	}
	return nil // Default: Success
}

// --- Implement DbOtp ---
func (m *Db) InsertOtp(otp db.Otp) error {
	if m.InsertOtpFunc != nil {
		return m.InsertOtpFunc(otp)
	}
	return nil // Default: Success
}
func (m *Db) ConsumeOtp(email, code string) (*db.Otp, error) {
	if m.ConsumeOtpFunc != nil {
		return m.ConsumeOtpFunc(email, code)
	}
	return nil, db.ErrOtpNotFound // Default: Not found
}
func (m *Db) DeleteExpiredOtps() (int, error) {
	if m.DeleteExpiredOtpsFunc != nil {
		return m.DeleteExpiredOtpsFunc()
	}
	return 0, nil // Default: Nothing swept
}

// --- Implement DbNote ---
func (m *Db) CreateNote(note db.Note) (*db.Note, error) {
	if m.CreateNoteFunc != nil {
		return m.CreateNoteFunc(note)
	}
	note.ID = "mock-note-id"
	return &note, nil
}
func (m *Db) GetNote(id, ownerId string) (*db.Note, error) {
	if m.GetNoteFunc != nil {
		return m.GetNoteFunc(id, ownerId)
	}
	return nil, nil // Default: Not found
}
func (m *Db) ListNotes(ownerId string) ([]*db.Note, error) {
	if m.ListNotesFunc != nil {
		return m.ListNotesFunc(ownerId)
	}
	return nil, nil // Default: Empty list
}
func (m *Db) UpdateNote(note db.Note) (*db.Note, error) {
	if m.UpdateNoteFunc != nil {
		return m.UpdateNoteFunc(note)
	}
	return nil, db.ErrNoteNotFound // Default: Not found
}
func (m *Db) DeleteNote(id, ownerId string) error {
	if m.DeleteNoteFunc != nil {
		return m.DeleteNoteFunc(id, ownerId)
	}
	return db.ErrNoteNotFound // Default: Not found
}

// --- Implement DbQueue ---
func (m *Db) InsertJob(job db.Job) error {
	if m.InsertJobFunc != nil {
		return m.InsertJobFunc(job)
	}
	return nil // Default: Success
}
func (m *Db) Claim(limit int) ([]*db.Job, error) {
	if m.ClaimFunc != nil {
		return m.ClaimFunc(limit)
	}
	return nil, nil // Default: Nothing claimable
}
func (m *Db) MarkCompleted(jobID int64) error {
	if m.MarkCompletedFunc != nil {
		return m.MarkCompletedFunc(jobID)
	}
	return nil // Default: Success
}
func (m *Db) MarkFailed(jobID int64, errMsg string) error {
	if m.MarkFailedFunc != nil {
		return m.MarkFailedFunc(jobID, errMsg)
	}
	return nil // Default: Success
}
func (m *Db) MarkRecurrentCompleted(completedJobID int64, newJob db.Job) error {
	if m.MarkRecurrentCompletedFunc != nil {
		return m.MarkRecurrentCompletedFunc(completedJobID, newJob)
	}
	return nil // Default: Success
}
