package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/caasmo/notefold/db"
	"github.com/caasmo/notefold/db/mock"
)

func TestOtpSweepHandler(t *testing.T) {
	var swept bool
	mockDB := &mock.Db{
		DeleteExpiredOtpsFunc: func() (int, error) {
			swept = true
			return 3, nil
		},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := NewOtpSweepHandler(mockDB, logger)

	if err := handler.Handle(context.Background(), db.Job{}); err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if !swept {
		t.Error("expected sweep to run")
	}
}

func TestOtpSweepHandler_DbError(t *testing.T) {
	dbErr := errors.New("locked")
	mockDB := &mock.Db{
		DeleteExpiredOtpsFunc: func() (int, error) { return 0, dbErr },
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := NewOtpSweepHandler(mockDB, logger)

	err := handler.Handle(context.Background(), db.Job{})
	if !errors.Is(err, dbErr) {
		t.Fatalf("expected db error, got %v", err)
	}
}

func TestOtpSweepHandler_CancelledContext(t *testing.T) {
	mockDB := &mock.Db{
		DeleteExpiredOtpsFunc: func() (int, error) {
			t.Fatal("sweep must not run with cancelled context")
			return 0, nil
		},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := NewOtpSweepHandler(mockDB, logger)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := handler.Handle(ctx, db.Job{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
