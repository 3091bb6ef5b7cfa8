package stores

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/steadyhq/stride/internal/core/step"
	"github.com/steadyhq/stride/internal/data/db"
)

// StepStore implements step.Store using SQLite.
type StepStore struct {
	db *db.DB
}

var _ step.Store = (*StepStore)(nil)

// NewStepStore creates a new SQLite-backed step store.
func NewStepStore(database *db.DB) *StepStore {
	return &StepStore{db: database}
}

const stepColumns = "id, goal_id, title, order_index, due_date, status, dependency_ids, estimated_effort_min, is_required, created_at, updated_at"

// Create persists a new step. Generates an ID and timestamps if not set.
func (s *StepStore) Create(ctx context.Context, st *step.Step) error {
	if st.ID == "" {
		st.ID = uuid.NewString()
	}

	now := time.Now()
	if st.CreatedAt.IsZero() {
		st.CreatedAt = now
	}
	if st.UpdatedAt.IsZero() {
		st.UpdatedAt = now
	}
	if st.Status == "" {
		st.Status = step.StatusTodo
	}

	deps, err := toJSONList(st.DependencyIDs)
	if err != nil {
		return fmt.Errorf("create step: %w", err)
	}

	_, err = s.db.Conn().ExecContext(ctx,
		`INSERT INTO steps (`+stepColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		st.ID, st.GoalID, st.Title, st.OrderIndex, toNullDate(st.DueDate),
		string(st.Status), deps, st.EstimatedEffortMin, boolToInt(st.IsRequired),
		st.CreatedAt.UnixNano(), st.UpdatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("create step: %w", err)
	}

	return nil
}

// Get returns a step by ID. Returns ErrNotFound if not found.
func (s *StepStore) Get(ctx context.Context, id string) (step.Step, error) {
	row := s.db.Conn().QueryRowContext(ctx,
		`SELECT `+stepColumns+` FROM steps WHERE id = ?`, id)

	st, err := scanStep(row)
	if IsNotFoundError(err) {
		return step.Step{}, step.ErrNotFound
	}
	if err != nil {
		return step.Step{}, fmt.Errorf("get step: %w", err)
	}

	return st, nil
}

// ListByGoal returns all steps of a goal ordered by order_index ASC.
func (s *StepStore) ListByGoal(ctx context.Context, goalID string) ([]step.Step, error) {
	rows, err := s.db.Conn().QueryContext(ctx,
		`SELECT `+stepColumns+` FROM steps WHERE goal_id = ? ORDER BY order_index ASC, id ASC`,
		goalID)
	if err != nil {
		return nil, fmt.Errorf("list steps by goal: %w", err)
	}
	defer func() { _ = rows.Close() }()

	steps := make([]step.Step, 0)
	for rows.Next() {
		st, err := scanStep(rows)
		if err != nil {
			return nil, fmt.Errorf("scan step: %w", err)
		}
		steps = append(steps, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate steps: %w", err)
	}

	return steps, nil
}

// UpdateDueDate sets or clears a step's due date.
func (s *StepStore) UpdateDueDate(ctx context.Context, id string, due *time.Time) error {
	res, err := s.db.Conn().ExecContext(ctx,
		`UPDATE steps SET due_date = ?, updated_at = ? WHERE id = ?`,
		toNullDate(due), time.Now().UnixNano(), id)
	if err != nil {
		return fmt.Errorf("update step due date: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update step due date: %w", err)
	}
	if affected == 0 {
		return step.ErrNotFound
	}

	return nil
}

// UpdateStatus changes the status of a step.
func (s *StepStore) UpdateStatus(ctx context.Context, id string, status step.Status) error {
	res, err := s.db.Conn().ExecContext(ctx,
		`UPDATE steps SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), time.Now().UnixNano(), id)
	if err != nil {
		return fmt.Errorf("update step status: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update step status: %w", err)
	}
	if affected == 0 {
		return step.ErrNotFound
	}

	return nil
}

func scanStep(row rowScanner) (step.Step, error) {
	var (
		st         step.Step
		dueDate    sql.NullString
		status     string
		deps       string
		isRequired int
		createdAt  int64
		updatedAt  int64
	)

	err := row.Scan(&st.ID, &st.GoalID, &st.Title, &st.OrderIndex, &dueDate,
		&status, &deps, &st.EstimatedEffortMin, &isRequired, &createdAt, &updatedAt)
	if err != nil {
		return step.Step{}, err
	}

	if st.DueDate, err = fromNullDate(dueDate); err != nil {
		return step.Step{}, err
	}
	if st.DependencyIDs, err = fromJSONList(deps); err != nil {
		return step.Step{}, err
	}

	st.Status = step.Status(status)
	st.IsRequired = isRequired != 0
	st.CreatedAt = time.Unix(0, createdAt)
	st.UpdatedAt = time.Unix(0, updatedAt)

	return st, nil
}
