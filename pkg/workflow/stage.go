package workflow

import (
	"context"
	"time"
)

// Stage is one LLM-backed step of a Pipeline. Execute must return a new
// Context with exactly one additional field populated, leaving its input
// untouched, or an error.
type Stage interface {
	Name() string
	Execute(ctx context.Context, wc *Context) (*Context, error)
}

// Status tracks a stage through a single pipeline run.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Event is emitted on every stage status transition.
type Event struct {
	Pipeline string
	Stage    string
	Index    int
	Status   Status
	Duration time.Duration
	Err      error
}

// Observer receives pipeline events. Observers run synchronously on the
// pipeline goroutine and must not block.
type Observer func(Event)
