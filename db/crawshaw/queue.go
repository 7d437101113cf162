package crawshaw

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"crawshaw.io/sqlite"
	"crawshaw.io/sqlite/sqlitex"

	"github.com/caasmo/notefold/db"
)

const jobColumns = `id, job_type, payload, status, attempts, max_attempts,
	created_at, updated_at, scheduled_for, locked_at, completed_at,
	last_error, recurrent, interval`

func validateQueueJob(job db.Job) error {
	var missingFields []string
	if job.JobType == "" {
		missingFields = append(missingFields, "JobType")
	}
	if job.Recurrent && job.Interval <= 0 {
		missingFields = append(missingFields, "Interval")
	}

	if len(missingFields) > 0 {
		return fmt.Errorf("%w: %s", db.ErrMissingFields, strings.Join(missingFields, ", "))
	}
	return nil
}

func newJobFromStmt(stmt *sqlite.Stmt) (*db.Job, error) {
	createdAt, err := db.TimeParse(stmt.GetText("created_at"))
	if err != nil {
		return nil, fmt.Errorf("error parsing created_at time: %w", err)
	}

	updatedAt, err := db.TimeParse(stmt.GetText("updated_at"))
	if err != nil {
		return nil, fmt.Errorf("error parsing updated_at time: %w", err)
	}

	// following time.Time fields can be "" in the db. Only parse if not empty
	var scheduledFor time.Time
	if scheduledForStr := stmt.GetText("scheduled_for"); scheduledForStr != "" {
		scheduledFor, err = db.TimeParse(scheduledForStr)
		if err != nil {
			return nil, fmt.Errorf("error parsing scheduled_for time: %w", err)
		}
	}

	var lockedAt time.Time
	if lockedAtStr := stmt.GetText("locked_at"); lockedAtStr != "" {
		lockedAt, err = db.TimeParse(lockedAtStr)
		if err != nil {
			return nil, fmt.Errorf("error parsing locked_at time: %w", err)
		}
	}

	var completedAt time.Time
	if completedAtStr := stmt.GetText("completed_at"); completedAtStr != "" {
		completedAt, err = db.TimeParse(completedAtStr)
		if err != nil {
			return nil, fmt.Errorf("error parsing completed_at time: %w", err)
		}
	}

	return &db.Job{
		ID:           stmt.GetInt64("id"),
		JobType:      stmt.GetText("job_type"),
		Payload:      json.RawMessage(stmt.GetText("payload")),
		Status:       stmt.GetText("status"),
		Attempts:     int(stmt.GetInt64("attempts")),
		MaxAttempts:  int(stmt.GetInt64("max_attempts")),
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
		ScheduledFor: scheduledFor,
		LockedAt:     lockedAt,
		CompletedAt:  completedAt,
		LastError:    stmt.GetText("last_error"),
		Recurrent:    stmt.GetInt64("recurrent") != 0,
		Interval:     time.Duration(stmt.GetInt64("interval")) * time.Second,
	}, nil
}

func (d *Db) InsertJob(job db.Job) error {
	if err := validateQueueJob(job); err != nil {
		return err
	}

	conn := d.pool.Get(nil)
	defer d.pool.Put(conn)

	scheduledFor := job.ScheduledFor
	if scheduledFor.IsZero() {
		scheduledFor = time.Now()
	}

	maxAttempts := job.MaxAttempts
	if maxAttempts == 0 {
		maxAttempts = 3
	}

	err := sqlitex.Exec(conn, `INSERT INTO job_queue
		(job_type, payload, max_attempts, scheduled_for, recurrent, interval)
		VALUES (?, ?, ?, ?, ?, ?)`,
		nil,
		job.JobType,
		string(job.Payload),
		maxAttempts,
		db.TimeFormat(scheduledFor),
		job.Recurrent,
		int64(job.Interval.Seconds()),
	)

	if err != nil {
		if sqliteErr, ok := err.(sqlite.Error); ok {
			if sqliteErr.Code == sqlite.SQLITE_CONSTRAINT_UNIQUE {
				return db.ErrConstraintUnique
			}
		}
		return fmt.Errorf("queue insert failed: %w", err)
	}
	return nil
}

func (d *Db) Claim(limit int) ([]*db.Job, error) {
	conn := d.pool.Get(nil)
	defer d.pool.Put(conn)

	var jobs []*db.Job
	err := sqlitex.Exec(conn,
		`UPDATE job_queue
		SET status = 'processing',
			attempts = attempts + 1,
			locked_at = (strftime('%Y-%m-%dT%H:%M:%SZ', 'now')),
			updated_at = (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
		WHERE id IN (
			SELECT id FROM job_queue
			WHERE status = 'pending'
				AND scheduled_for <= (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
			ORDER BY scheduled_for ASC
			LIMIT ?
		)
		RETURNING `+jobColumns,
		func(stmt *sqlite.Stmt) error {
			job, err := newJobFromStmt(stmt)
			if err != nil {
				return err
			}
			jobs = append(jobs, job)
			return nil
		}, limit)

	if err != nil {
		return nil, fmt.Errorf("failed to claim jobs: %w", err)
	}
	return jobs, nil
}

func (d *Db) MarkCompleted(jobID int64) error {
	conn := d.pool.Get(nil)
	defer d.pool.Put(conn)

	err := sqlitex.Exec(conn,
		`UPDATE job_queue
		SET status = 'completed',
			completed_at = (strftime('%Y-%m-%dT%H:%M:%SZ', 'now')),
			updated_at = (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
		WHERE id = ?`,
		nil, jobID)
	if err != nil {
		return fmt.Errorf("failed to mark job completed: %w", err)
	}
	return nil
}

func (d *Db) MarkFailed(jobID int64, errMsg string) error {
	conn := d.pool.Get(nil)
	defer d.pool.Put(conn)

	err := sqlitex.Exec(conn,
		`UPDATE job_queue
		SET status = CASE WHEN attempts >= max_attempts THEN 'failed' ELSE 'pending' END,
			last_error = ?,
			updated_at = (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
		WHERE id = ?`,
		nil, errMsg, jobID)
	if err != nil {
		return fmt.Errorf("failed to mark job failed: %w", err)
	}
	return nil
}

func (d *Db) MarkRecurrentCompleted(completedJobID int64, newJob db.Job) (err error) {
	if err := validateQueueJob(newJob); err != nil {
		return err
	}

	conn := d.pool.Get(nil)
	defer d.pool.Put(conn)

	defer sqlitex.Save(conn)(&err)

	err = sqlitex.Exec(conn,
		`UPDATE job_queue
		SET status = 'completed',
			completed_at = (strftime('%Y-%m-%dT%H:%M:%SZ', 'now')),
			updated_at = (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
		WHERE id = ?`,
		nil, completedJobID)
	if err != nil {
		return fmt.Errorf("failed to mark recurrent job completed: %w", err)
	}

	err = sqlitex.Exec(conn, `INSERT INTO job_queue
		(job_type, payload, max_attempts, scheduled_for, recurrent, interval)
		VALUES (?, ?, ?, ?, TRUE, ?)`,
		nil,
		newJob.JobType,
		string(newJob.Payload),
		newJob.MaxAttempts,
		db.TimeFormat(newJob.ScheduledFor),
		int64(newJob.Interval.Seconds()),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule next recurrent run: %w", err)
	}
	return nil
}
