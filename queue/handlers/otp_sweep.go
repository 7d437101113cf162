package handlers

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/caasmo/notefold/db"
)

// OtpSweepHandler deletes used and expired one-time codes.
type OtpSweepHandler struct {
	db     db.DbOtp
	logger *slog.Logger
}

func NewOtpSweepHandler(dbOtp db.DbOtp, logger *slog.Logger) *OtpSweepHandler {
	if dbOtp == nil || logger == nil {
		panic("NewOtpSweepHandler: received nil db or logger")
	}
	return &OtpSweepHandler{
		db:     dbOtp,
		logger: logger.With("job_handler", "otp_sweep"),
	}
}

// Handle implements the JobHandler interface.
func (h *OtpSweepHandler) Handle(ctx context.Context, job db.Job) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	deleted, err := h.db.DeleteExpiredOtps()
	if err != nil {
		return fmt.Errorf("otp sweep failed: %w", err)
	}

	h.logger.Info("otp sweep completed", "deleted", deleted)
	return nil
}
