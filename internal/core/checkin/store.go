package checkin

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a check-in record does not exist.
var ErrNotFound = errors.New("check-in not found")

// Store defines the interface for check-in persistence.
type Store interface {
	// Insert persists a new check-in record.
	// The store populates ID and CreatedAt if not already set.
	Insert(ctx context.Context, rec *Record) error

	// ListRecent returns check-ins for any of the given goals created at or
	// after since, newest first.
	ListRecent(ctx context.Context, goalIDs []string, since time.Time) ([]Record, error)

	// ListByStep returns all check-ins for a step, newest first.
	ListByStep(ctx context.Context, stepID string) ([]Record, error)
}
