package step

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a step does not exist.
var ErrNotFound = errors.New("step not found")

// Store defines the interface for step persistence.
type Store interface {
	// Create persists a new step.
	// The store populates ID, Status, CreatedAt, and UpdatedAt if not already set.
	Create(ctx context.Context, s *Step) error

	// Get returns a step by ID.
	// Returns ErrNotFound if the step does not exist.
	Get(ctx context.Context, id string) (Step, error)

	// ListByGoal returns all steps of a goal ordered by order_index ASC.
	ListByGoal(ctx context.Context, goalID string) ([]Step, error)

	// UpdateDueDate sets or clears a step's due date. A nil date clears it.
	// Returns ErrNotFound if the step does not exist.
	UpdateDueDate(ctx context.Context, id string, due *time.Time) error

	// UpdateStatus changes the status of a step.
	// Returns ErrNotFound if the step does not exist.
	UpdateStatus(ctx context.Context, id string, status Status) error
}
