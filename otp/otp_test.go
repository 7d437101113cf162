package otp

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/caasmo/notefold/config"
	"github.com/caasmo/notefold/db"
	"github.com/caasmo/notefold/db/mock"
)

type stubSender struct {
	sentEmail string
	sentCode  string
	err       error
}

func (s *stubSender) SendOtpEmail(ctx context.Context, email, code string) error {
	s.sentEmail = email
	s.sentCode = code
	return s.err
}

func newTestIssuer(t *testing.T, store db.DbOtp, sender Sender) *Issuer {
	t.Helper()
	provider := config.NewProvider(config.NewDefaultConfig())
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	issuer, err := NewIssuer(store, sender, provider, logger)
	if err != nil {
		t.Fatalf("NewIssuer failed: %v", err)
	}
	return issuer
}

func TestIssue(t *testing.T) {
	var stored db.Otp
	mockDB := &mock.Db{
		InsertOtpFunc: func(otp db.Otp) error {
			stored = otp
			return nil
		},
	}
	sender := &stubSender{}
	issuer := newTestIssuer(t, mockDB, sender)

	if err := issuer.Issue(context.Background(), "test@example.com"); err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if stored.Email != "test@example.com" {
		t.Errorf("expected stored email 'test@example.com', got %q", stored.Email)
	}
	if len(stored.Code) != config.NewDefaultConfig().Otp.CodeLength {
		t.Errorf("unexpected code length %d", len(stored.Code))
	}
	for _, r := range stored.Code {
		if r < '0' || r > '9' {
			t.Fatalf("code contains non-digit %q", stored.Code)
		}
	}
	if stored.Expires.Before(time.Now()) {
		t.Error("expected expiry in the future")
	}
	if sender.sentCode != stored.Code {
		t.Errorf("sent code %q does not match stored code %q", sender.sentCode, stored.Code)
	}
}

func TestIssue_StoreFailure(t *testing.T) {
	storeErr := errors.New("disk full")
	mockDB := &mock.Db{
		InsertOtpFunc: func(otp db.Otp) error { return storeErr },
	}
	sender := &stubSender{}
	issuer := newTestIssuer(t, mockDB, sender)

	err := issuer.Issue(context.Background(), "test@example.com")
	if !errors.Is(err, storeErr) {
		t.Fatalf("expected store error, got %v", err)
	}
	if sender.sentEmail != "" {
		t.Error("no email should be sent when the store fails")
	}
}

func TestIssue_SendFailure(t *testing.T) {
	mockDB := &mock.Db{
		InsertOtpFunc: func(otp db.Otp) error { return nil },
	}
	sendErr := errors.New("smtp down")
	sender := &stubSender{err: sendErr}
	issuer := newTestIssuer(t, mockDB, sender)

	err := issuer.Issue(context.Background(), "test@example.com")
	if !errors.Is(err, sendErr) {
		t.Fatalf("expected delivery error, got %v", err)
	}
}

func TestConsume(t *testing.T) {
	want := &db.Otp{Email: "test@example.com", Code: "482913", Used: true}
	mockDB := &mock.Db{
		ConsumeOtpFunc: func(email, code string) (*db.Otp, error) {
			if email != "test@example.com" || code != "482913" {
				return nil, db.ErrOtpNotFound
			}
			return want, nil
		},
	}
	issuer := newTestIssuer(t, mockDB, &stubSender{})

	otp, err := issuer.Consume("test@example.com", "482913")
	if err != nil {
		t.Fatalf("Consume failed: %v", err)
	}
	if otp != want {
		t.Error("unexpected otp returned")
	}

	_, err = issuer.Consume("test@example.com", "000000")
	if !errors.Is(err, db.ErrOtpNotFound) {
		t.Fatalf("expected ErrOtpNotFound, got %v", err)
	}
}
