// Package dates provides date-only time handling. Due dates in stride carry
// no time-of-day component, so every date passing through the engine is
// normalized to midnight UTC and serialized as YYYY-MM-DD.
package dates

import (
	"fmt"
	"time"
)

// Layout is the wire and storage format for dates.
const Layout = "2006-01-02"

// Only truncates t to midnight UTC.
func Only(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// New returns the date for the given year, month, and day.
func New(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// AddDays returns the date n days after t (n may be negative).
func AddDays(t time.Time, n int) time.Time {
	return Only(t).AddDate(0, 0, n)
}

// Between returns the number of whole days from a to b.
// Negative when b is before a.
func Between(a, b time.Time) int {
	return int(Only(b).Sub(Only(a)) / (24 * time.Hour))
}

// Format renders t as YYYY-MM-DD.
func Format(t time.Time) string {
	return Only(t).Format(Layout)
}

// Parse reads a YYYY-MM-DD string.
func Parse(s string) (time.Time, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}

// Ptr returns a pointer to the date-only form of t.
func Ptr(t time.Time) *time.Time {
	d := Only(t)
	return &d
}
