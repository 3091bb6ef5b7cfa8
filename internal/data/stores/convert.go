// Package stores provides SQLite-backed implementations of the domain store
// interfaces.
package stores

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/steadyhq/stride/pkg/dates"
)

// toNullDate converts an optional date to its YYYY-MM-DD column form.
// nil stays NULL; the empty string is never written.
func toNullDate(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: dates.Format(*t), Valid: true}
}

// fromNullDate converts a nullable YYYY-MM-DD column to an optional date.
func fromNullDate(ns sql.NullString) (*time.Time, error) {
	if !ns.Valid || ns.String == "" {
		return nil, nil
	}
	t, err := dates.Parse(ns.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// toJSONList marshals a string slice to its JSON column form.
func toJSONList(items []string) (string, error) {
	if len(items) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("marshal list: %w", err)
	}
	return string(data), nil
}

// fromJSONList unmarshals a JSON column into a string slice.
func fromJSONList(raw string) ([]string, error) {
	if raw == "" || raw == "[]" {
		return nil, nil
	}
	var items []string
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("unmarshal list: %w", err)
	}
	return items, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
