package queue

// Job types
const (
	JobTypeOtpSweep    = "job_type_otp_sweep"
	JobTypeBackupLocal = "job_type_backup_local"
)

// Job statuses
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)
