package plan

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/steadyhq/stride/internal/core/goal"
	"github.com/steadyhq/stride/pkg/dates"
)

// Frequency labels a recognized cadence pattern.
type Frequency string

const (
	FrequencyDaily  Frequency = "daily"
	FrequencyWeekly Frequency = "weekly"
	FrequencyCustom Frequency = "custom"
)

// defaultIntervalDays applies when no cadence pattern is recognized.
const defaultIntervalDays = 7

// Cadence is the recurrence pattern driving automatic due-date spacing.
type Cadence struct {
	Frequency     Frequency `json:"frequency"`
	IntervalDays  int       `json:"interval_days"`
	StartDate     time.Time `json:"start_date"`
	DurationLabel string    `json:"duration_label,omitempty"`
}

var everyNDaysRe = regexp.MustCompile(`every\s+(\d+)\s+days?`)

var dailyPhrases = []string{"daily", "every day", "each day"}
var weeklyPhrases = []string{"weekly", "every week", "once a week"}

// ParseCadence derives a recurrence interval and start date from a goal's
// free-text description and tags. The text is only a weak signal: daily
// phrases win over weekly phrases, which win over an explicit "every N days",
// and anything unrecognized falls back to weekly. It never fails.
//
// now supplies the start date when the goal has none.
func ParseCadence(g goal.Goal, now time.Time) Cadence {
	text := strings.ToLower(g.Description + " " + strings.Join(g.Tags, " "))

	c := Cadence{
		Frequency:    FrequencyWeekly,
		IntervalDays: defaultIntervalDays,
	}

	switch {
	case containsAny(text, dailyPhrases):
		c.Frequency = FrequencyDaily
		c.IntervalDays = 1
	case containsAny(text, weeklyPhrases):
		c.Frequency = FrequencyWeekly
		c.IntervalDays = 7
	default:
		if m := everyNDaysRe.FindStringSubmatch(text); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
				c.Frequency = FrequencyCustom
				c.IntervalDays = n
			}
		}
	}

	if g.StartDate != nil {
		c.StartDate = dates.Only(*g.StartDate)
	} else {
		c.StartDate = dates.Only(now)
	}

	if g.StartDate != nil && g.DueDate != nil {
		c.DurationLabel = durationLabel(*g.StartDate, *g.DueDate)
	}

	return c
}

// durationLabel renders the span between start and due as days when short,
// weeks (rounded up) otherwise.
func durationLabel(start, due time.Time) string {
	days := dates.Between(start, due)
	if days < 0 {
		days = 0
	}
	if days <= 14 {
		if days == 1 {
			return "1 day"
		}
		return fmt.Sprintf("%d days", days)
	}
	weeks := (days + 6) / 7
	if weeks == 1 {
		return "1 week"
	}
	return fmt.Sprintf("%d weeks", weeks)
}

func containsAny(text string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}
