package logging

import "context"

type contextKey string

const (
	userIDKey contextKey = "user_id"
	goalIDKey contextKey = "goal_id"
)

// WithUserID adds a user ID to the context.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// WithGoalID adds a goal ID to the context.
func WithGoalID(ctx context.Context, goalID string) context.Context {
	return context.WithValue(ctx, goalIDKey, goalID)
}

// GetUserID retrieves the user ID from the context.
// Returns empty string if not present.
func GetUserID(ctx context.Context) string {
	if id, ok := ctx.Value(userIDKey).(string); ok {
		return id
	}
	return ""
}

// GetGoalID retrieves the goal ID from the context.
// Returns empty string if not present.
func GetGoalID(ctx context.Context) string {
	if id, ok := ctx.Value(goalIDKey).(string); ok {
		return id
	}
	return ""
}
