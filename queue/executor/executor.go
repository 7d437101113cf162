package executor

import (
	"context"
	"fmt"

	"github.com/caasmo/notefold/db"
)

// JobHandler processes a specific type of job
type JobHandler interface {
	Handle(ctx context.Context, job db.Job) error
}

// Executor dispatches claimed jobs to their registered handlers.
type Executor struct {
	registry map[string]JobHandler
}

// NewExecutor creates an executor with the given handlers. A nil map is
// allowed; handlers can be registered later.
func NewExecutor(handlers map[string]JobHandler) *Executor {
	if handlers == nil {
		handlers = make(map[string]JobHandler)
	}
	return &Executor{registry: handlers}
}

// Register adds or replaces the handler for a job type.
func (e *Executor) Register(jobType string, handler JobHandler) {
	e.registry[jobType] = handler
}

// Execute dispatches the job to its handler.
func (e *Executor) Execute(ctx context.Context, job db.Job) error {
	handler, exists := e.registry[job.JobType]
	if !exists {
		return fmt.Errorf("no handler registered for job type: %s", job.JobType)
	}
	return handler.Handle(ctx, job)
}
