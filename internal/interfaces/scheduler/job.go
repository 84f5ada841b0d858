package scheduler

import "context"

// Job is a unit of background work the worker pool executes.
type Job interface {
	// Execute runs the job. Context should be respected for cancellation
	// and timeouts.
	Execute(ctx context.Context) error

	// UserID returns the user the job works for, used in logs and traces.
	UserID() string

	// Description returns a human-readable description of the job.
	Description() string
}
