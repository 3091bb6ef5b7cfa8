package goal

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a goal does not exist.
var ErrNotFound = errors.New("goal not found")

// ListFilter controls which goals are returned by List.
type ListFilter struct {
	UserID string // empty means all users
	Status Status // empty means all statuses
}

// Store defines the interface for goal persistence.
type Store interface {
	// Create persists a new goal.
	// The store populates ID, Status, CreatedAt, and UpdatedAt if not already set.
	Create(ctx context.Context, g *Goal) error

	// Get returns a goal by ID.
	// Returns ErrNotFound if the goal does not exist.
	Get(ctx context.Context, id string) (Goal, error)

	// List returns goals matching the filter, ordered by created_at DESC.
	List(ctx context.Context, filter ListFilter) ([]Goal, error)

	// ListActiveOrPlanned returns a user's goals in the active or planned state.
	ListActiveOrPlanned(ctx context.Context, userID string) ([]Goal, error)

	// UpdateStatus changes the status of a goal.
	// Returns ErrNotFound if the goal does not exist.
	UpdateStatus(ctx context.Context, id string, status Status) error
}
