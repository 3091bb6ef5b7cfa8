package plan

import (
	"fmt"

	"github.com/steadyhq/stride/internal/core/checkin"
)

// Adjustments flags the scheduling follow-ups implied by a check-in.
// Exactly one decision-table row produces any given combination.
type Adjustments struct {
	ExtendDueDate  bool `json:"extend_due_date"`
	BreakDownStep  bool `json:"break_down_step"`
	AddScaffolding bool `json:"add_scaffolding"`
}

// Feedback is the adaptive response to a recorded check-in.
type Feedback struct {
	Encouragement string      `json:"encouragement"`
	Suggestions   []string    `json:"suggestions"`
	Adjustments   Adjustments `json:"adjustments"`
}

// BuildFeedback derives feedback from a check-in response via a fixed
// confidence/completion decision table. Deterministic: no randomness, no I/O.
//
//	completed          -> celebrate, no adjustment
//	confidence <= 2    -> break the step down, no automatic date change
//	confidence == 3    -> try a different approach, extend the due date
//	confidence >= 4    -> remove the obstacle, extend the due date
func BuildFeedback(resp checkin.Response) Feedback {
	var fb Feedback

	switch {
	case resp.Completed:
		fb.Encouragement = "Great work, that step is done. Momentum like this is what carries a goal."
		fb.Suggestions = []string{"Take a moment to note what worked so you can repeat it."}
	case resp.Confidence <= 2:
		fb.Encouragement = "This step is putting up a fight, and that usually means it is too big, not that you are behind."
		fb.Suggestions = []string{"Split the step into two or three smaller pieces and start with the easiest one."}
		fb.Adjustments.BreakDownStep = true
		fb.Adjustments.AddScaffolding = true
	case resp.Confidence == 3:
		fb.Encouragement = "You are on the fence, which is a good sign the current approach just is not clicking yet."
		fb.Suggestions = []string{"Try a different approach before putting more time into this one."}
		fb.Adjustments.ExtendDueDate = true
	default:
		fb.Encouragement = "You clearly know what to do here. Something is in the way, not your ability."
		fb.Suggestions = []string{"Name the obstacle and remove it; the step itself is within reach."}
		fb.Adjustments.ExtendDueDate = true
	}

	if resp.Blockers != "" {
		fb.Suggestions = append([]string{
			fmt.Sprintf("Address the blocker first: %s", resp.Blockers),
		}, fb.Suggestions...)
	}
	if resp.NeedsHelp {
		fb.Suggestions = append(fb.Suggestions, "Reach out for guided help on this step.")
	}

	return fb
}

// ExtensionPolicy maps a step's estimated effort to a default extension
// length in days.
type ExtensionPolicy struct {
	ShortEffortMaxMin  int `yaml:"short_effort_max_min" validate:"min=1"`
	MediumEffortMaxMin int `yaml:"medium_effort_max_min" validate:"min=1"`
	ShortDays          int `yaml:"short_days" validate:"min=1"`
	MediumDays         int `yaml:"medium_days" validate:"min=1"`
	LongDays           int `yaml:"long_days" validate:"min=1"`
}

// DefaultExtensionPolicy returns the standard effort thresholds:
// up to 30 minutes earns 2 days, up to 2 hours earns 3 days, anything
// larger earns 5 days.
func DefaultExtensionPolicy() ExtensionPolicy {
	return ExtensionPolicy{
		ShortEffortMaxMin:  30,
		MediumEffortMaxMin: 120,
		ShortDays:          2,
		MediumDays:         3,
		LongDays:           5,
	}
}

// ExtensionDays returns the default extension length for a step with the
// given estimated effort in minutes.
func (p ExtensionPolicy) ExtensionDays(effortMin int) int {
	switch {
	case effortMin <= p.ShortEffortMaxMin:
		return p.ShortDays
	case effortMin <= p.MediumEffortMaxMin:
		return p.MediumDays
	default:
		return p.LongDays
	}
}
