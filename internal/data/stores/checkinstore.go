package stores

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/steadyhq/stride/internal/core/checkin"
	"github.com/steadyhq/stride/internal/data/db"
)

// CheckInStore implements checkin.Store using SQLite.
type CheckInStore struct {
	db *db.DB
}

var _ checkin.Store = (*CheckInStore)(nil)

// NewCheckInStore creates a new SQLite-backed check-in store.
func NewCheckInStore(database *db.DB) *CheckInStore {
	return &CheckInStore{db: database}
}

const checkinColumns = "id, step_id, goal_id, completed, confidence, blockers, needs_help, reflection, minutes_spent, created_at"

// Insert persists a new check-in record. Generates an ID and timestamp if not set.
func (s *CheckInStore) Insert(ctx context.Context, rec *checkin.Record) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	_, err := s.db.Conn().ExecContext(ctx,
		`INSERT INTO checkins (`+checkinColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.StepID, rec.GoalID, boolToInt(rec.Completed), rec.Confidence,
		rec.Blockers, boolToInt(rec.NeedsHelp), rec.Reflection, rec.MinutesSpent,
		rec.CreatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("insert check-in: %w", err)
	}

	return nil
}

// ListRecent returns check-ins for any of the given goals created at or after
// since, newest first.
func (s *CheckInStore) ListRecent(ctx context.Context, goalIDs []string, since time.Time) ([]checkin.Record, error) {
	if len(goalIDs) == 0 {
		return []checkin.Record{}, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(goalIDs)), ", ")
	args := make([]any, 0, len(goalIDs)+1)
	for _, id := range goalIDs {
		args = append(args, id)
	}
	args = append(args, since.UnixNano())

	rows, err := s.db.Conn().QueryContext(ctx,
		`SELECT `+checkinColumns+` FROM checkins
		 WHERE goal_id IN (`+placeholders+`) AND created_at >= ?
		 ORDER BY created_at DESC`, args...)
	if err != nil {
		return nil, fmt.Errorf("list recent check-ins: %w", err)
	}
	defer func() { _ = rows.Close() }()

	records := make([]checkin.Record, 0)
	for rows.Next() {
		rec, err := scanCheckIn(rows)
		if err != nil {
			return nil, fmt.Errorf("scan check-in: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate check-ins: %w", err)
	}

	return records, nil
}

// ListByStep returns all check-ins for a step, newest first.
func (s *CheckInStore) ListByStep(ctx context.Context, stepID string) ([]checkin.Record, error) {
	rows, err := s.db.Conn().QueryContext(ctx,
		`SELECT `+checkinColumns+` FROM checkins WHERE step_id = ? ORDER BY created_at DESC`,
		stepID)
	if err != nil {
		return nil, fmt.Errorf("list check-ins by step: %w", err)
	}
	defer func() { _ = rows.Close() }()

	records := make([]checkin.Record, 0)
	for rows.Next() {
		rec, err := scanCheckIn(rows)
		if err != nil {
			return nil, fmt.Errorf("scan check-in: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate check-ins: %w", err)
	}

	return records, nil
}

func scanCheckIn(row rowScanner) (checkin.Record, error) {
	var (
		rec       checkin.Record
		completed int
		needsHelp int
		createdAt int64
	)

	err := row.Scan(&rec.ID, &rec.StepID, &rec.GoalID, &completed, &rec.Confidence,
		&rec.Blockers, &needsHelp, &rec.Reflection, &rec.MinutesSpent, &createdAt)
	if err != nil {
		return checkin.Record{}, err
	}

	rec.Completed = completed != 0
	rec.NeedsHelp = needsHelp != 0
	rec.CreatedAt = time.Unix(0, createdAt)

	return rec, nil
}
