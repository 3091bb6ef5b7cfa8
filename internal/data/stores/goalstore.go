package stores

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/steadyhq/stride/internal/core/goal"
	"github.com/steadyhq/stride/internal/data/db"
)

// GoalStore implements goal.Store using SQLite.
type GoalStore struct {
	db *db.DB
}

var _ goal.Store = (*GoalStore)(nil)

// NewGoalStore creates a new SQLite-backed goal store.
func NewGoalStore(database *db.DB) *GoalStore {
	return &GoalStore{db: database}
}

const goalColumns = "id, user_id, title, description, tags, start_date, due_date, status, created_at, updated_at"

// Create persists a new goal. Generates an ID and timestamps if not set.
func (s *GoalStore) Create(ctx context.Context, g *goal.Goal) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}

	now := time.Now()
	if g.CreatedAt.IsZero() {
		g.CreatedAt = now
	}
	if g.UpdatedAt.IsZero() {
		g.UpdatedAt = now
	}
	if g.Status == "" {
		g.Status = goal.StatusPlanned
	}

	tags, err := toJSONList(g.Tags)
	if err != nil {
		return fmt.Errorf("create goal: %w", err)
	}

	_, err = s.db.Conn().ExecContext(ctx,
		`INSERT INTO goals (`+goalColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		g.ID, g.UserID, g.Title, g.Description, tags,
		toNullDate(g.StartDate), toNullDate(g.DueDate), string(g.Status),
		g.CreatedAt.UnixNano(), g.UpdatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("create goal: %w", err)
	}

	return nil
}

// Get returns a goal by ID. Returns ErrNotFound if not found.
func (s *GoalStore) Get(ctx context.Context, id string) (goal.Goal, error) {
	row := s.db.Conn().QueryRowContext(ctx,
		`SELECT `+goalColumns+` FROM goals WHERE id = ?`, id)

	g, err := scanGoal(row)
	if IsNotFoundError(err) {
		return goal.Goal{}, goal.ErrNotFound
	}
	if err != nil {
		return goal.Goal{}, fmt.Errorf("get goal: %w", err)
	}

	return g, nil
}

// List returns goals matching the filter, ordered by created_at DESC.
func (s *GoalStore) List(ctx context.Context, filter goal.ListFilter) ([]goal.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals`
	var args []any
	var where []string

	if filter.UserID != "" {
		where = append(where, "user_id = ?")
		args = append(args, filter.UserID)
	}
	if filter.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(filter.Status))
	}
	for i, cond := range where {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.db.Conn().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return collectGoals(rows)
}

// ListActiveOrPlanned returns a user's goals in the active or planned state.
func (s *GoalStore) ListActiveOrPlanned(ctx context.Context, userID string) ([]goal.Goal, error) {
	rows, err := s.db.Conn().QueryContext(ctx,
		`SELECT `+goalColumns+` FROM goals
		 WHERE user_id = ? AND status IN (?, ?)
		 ORDER BY created_at DESC`,
		userID, string(goal.StatusActive), string(goal.StatusPlanned))
	if err != nil {
		return nil, fmt.Errorf("list active or planned goals: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return collectGoals(rows)
}

// UpdateStatus changes the status of a goal.
func (s *GoalStore) UpdateStatus(ctx context.Context, id string, status goal.Status) error {
	res, err := s.db.Conn().ExecContext(ctx,
		`UPDATE goals SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), time.Now().UnixNano(), id)
	if err != nil {
		return fmt.Errorf("update goal status: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update goal status: %w", err)
	}
	if affected == 0 {
		return goal.ErrNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGoal(row rowScanner) (goal.Goal, error) {
	var (
		g         goal.Goal
		tags      string
		startDate sql.NullString
		dueDate   sql.NullString
		status    string
		createdAt int64
		updatedAt int64
	)

	err := row.Scan(&g.ID, &g.UserID, &g.Title, &g.Description, &tags,
		&startDate, &dueDate, &status, &createdAt, &updatedAt)
	if err != nil {
		return goal.Goal{}, err
	}

	if g.Tags, err = fromJSONList(tags); err != nil {
		return goal.Goal{}, err
	}
	if g.StartDate, err = fromNullDate(startDate); err != nil {
		return goal.Goal{}, err
	}
	if g.DueDate, err = fromNullDate(dueDate); err != nil {
		return goal.Goal{}, err
	}

	g.Status = goal.Status(status)
	g.CreatedAt = time.Unix(0, createdAt)
	g.UpdatedAt = time.Unix(0, updatedAt)

	return g, nil
}

func collectGoals(rows *sql.Rows) ([]goal.Goal, error) {
	goals := make([]goal.Goal, 0)
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		goals = append(goals, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate goals: %w", err)
	}
	return goals, nil
}
