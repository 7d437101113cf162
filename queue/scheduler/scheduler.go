package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/caasmo/notefold/config"
	"github.com/caasmo/notefold/db"
	"github.com/caasmo/notefold/queue/executor"
)

// jobTimeout bounds a single job execution.
const jobTimeout = 10 * time.Minute

// Scheduler periodically claims due jobs and runs them through the executor.
type Scheduler struct {
	configProvider *config.Provider
	db             db.DbQueue
	executor       *executor.Executor
	logger         *slog.Logger
	ctx            context.Context
	cancel         context.CancelFunc
	shutdownDone   chan struct{}
}

func NewScheduler(provider *config.Provider, dbQueue db.DbQueue, exec *executor.Executor, logger *slog.Logger) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		configProvider: provider,
		db:             dbQueue,
		executor:       exec,
		logger:         logger,
		ctx:            ctx,
		cancel:         cancel,
		shutdownDone:   make(chan struct{}),
	}
}

// Executor exposes the registry so callers can attach handlers.
func (s *Scheduler) Executor() *executor.Executor {
	return s.executor
}

// Name identifies the scheduler to the server's daemon lifecycle.
func (s *Scheduler) Name() string {
	return "job scheduler"
}

// Start begins the tick loop in a long running goroutine.
func (s *Scheduler) Start() error {
	cfg := s.configProvider.Get().Scheduler
	if cfg.Interval.Duration <= 0 {
		return fmt.Errorf("scheduler interval must be positive, got %v", cfg.Interval.Duration)
	}

	go func() {
		s.logger.Info("starting job scheduler", "interval", cfg.Interval.Duration)
		ticker := time.NewTicker(cfg.Interval.Duration)
		defer ticker.Stop()

		for {
			select {
			case <-s.ctx.Done():
				s.logger.Info("job scheduler received shutdown signal")
				close(s.shutdownDone)
				return
			case <-ticker.C:
				s.processJobs()
			}
		}
	}()
	return nil
}

// Stop signals the scheduler to stop and waits for the loop to exit or the
// context to expire, whichever comes first.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.logger.Info("stopping job scheduler")
	s.cancel()

	select {
	case <-s.shutdownDone:
		s.logger.Info("job scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Info("job scheduler shutdown timed out")
		return ctx.Err()
	}
}

func (s *Scheduler) processJobs() {
	cfg := s.configProvider.Get().Scheduler

	jobs, err := s.db.Claim(cfg.MaxJobsPerTick)
	if err != nil {
		s.logger.Error("failed to claim jobs", "err", err)
		return
	}
	if len(jobs) == 0 {
		return
	}

	s.logger.Info("claimed jobs", "count", len(jobs))

	// Batch jobs share the scheduler context so they see the shutdown signal.
	g, ctx := errgroup.WithContext(s.ctx)
	multiplier := cfg.ConcurrencyMultiplier
	if multiplier <= 0 {
		multiplier = 1
	}
	g.SetLimit(runtime.NumCPU() * multiplier)

	for _, job := range jobs {
		jobCopy := job
		g.Go(func() error {
			jobCtx, cancel := context.WithTimeout(ctx, jobTimeout)
			defer cancel()

			err := s.executor.Execute(jobCtx, *jobCopy)
			s.finishJob(*jobCopy, err)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.logger.Error("error executing batch jobs", "err", err)
	}
}

// finishJob records the execution outcome. Completed recurrent jobs schedule
// their next run atomically with the completion.
func (s *Scheduler) finishJob(job db.Job, execErr error) {
	if execErr == nil {
		if job.Recurrent {
			next := job
			next.ScheduledFor = time.Now().Add(job.Interval)
			if err := s.db.MarkRecurrentCompleted(job.ID, next); err != nil {
				s.logger.Error("failed to reschedule recurrent job", "jobID", job.ID, "err", err)
			}
			return
		}
		if err := s.db.MarkCompleted(job.ID); err != nil {
			s.logger.Error("failed to mark job as completed", "jobID", job.ID, "err", err)
		}
		return
	}

	msg := execErr.Error()
	switch {
	case errors.Is(execErr, context.DeadlineExceeded):
		msg = "job execution timed out"
	case errors.Is(execErr, context.Canceled):
		msg = "job interrupted by shutdown"
		s.logger.Info("job interrupted", "jobID", job.ID)
	}
	if err := s.db.MarkFailed(job.ID, msg); err != nil {
		s.logger.Error("failed to mark job as failed", "jobID", job.ID, "err", err)
	}
}
