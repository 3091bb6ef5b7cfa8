package engine

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/steadyhq/stride/internal/core/advisory"
	"github.com/steadyhq/stride/internal/core/checkin"
	"github.com/steadyhq/stride/internal/core/config"
	"github.com/steadyhq/stride/internal/core/eventbus"
	"github.com/steadyhq/stride/internal/core/goal"
	"github.com/steadyhq/stride/internal/core/logging"
	"github.com/steadyhq/stride/internal/core/plan"
	"github.com/steadyhq/stride/internal/core/step"
	"github.com/steadyhq/stride/pkg/dates"
)

// CheckInService finds steps that are due for a check-in and turns submitted
// responses into records, feedback, and schedule adjustments.
type CheckInService struct {
	goals    goal.Store
	steps    step.Store
	checkins checkin.Store
	schedule *ScheduleService
	advisor  advisory.Advisor // nil when the oracle is disabled
	bus      *eventbus.EventBus
	validate *validator.Validate
	sched    config.Scheduling
	log      zerolog.Logger
	now      func() time.Time
}

func NewCheckInService(
	goals goal.Store,
	steps step.Store,
	checkins checkin.Store,
	schedule *ScheduleService,
	advisor advisory.Advisor,
	bus *eventbus.EventBus,
	sched config.Scheduling,
	logger zerolog.Logger,
) *CheckInService {
	return &CheckInService{
		goals:    goals,
		steps:    steps,
		checkins: checkins,
		schedule: schedule,
		advisor:  advisor,
		bus:      bus,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		sched:    sched,
		log:      logger.With().Str("cmp", "checkins").Logger(),
		now:      time.Now,
	}
}

// PendingCheckIns returns a prompt for every overdue or due-today step of the
// user's active and planned goals, most overdue first. Goals with a check-in
// inside the cooldown window are skipped entirely.
func (s *CheckInService) PendingCheckIns(ctx context.Context, userID string) ([]checkin.Prompt, error) {
	goals, err := s.goals.ListActiveOrPlanned(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	if len(goals) == 0 {
		return nil, nil
	}

	goalIDs := make([]string, 0, len(goals))
	for _, g := range goals {
		goalIDs = append(goalIDs, g.ID)
	}

	since := s.now().Add(-time.Duration(s.sched.CheckInCooldownDays) * 24 * time.Hour)
	recent, err := s.checkins.ListRecent(ctx, goalIDs, since)
	if err != nil {
		return nil, fmt.Errorf("list recent check-ins: %w", err)
	}
	cooled := make(map[string]bool, len(recent))
	for _, rec := range recent {
		cooled[rec.GoalID] = true
	}

	today := dates.Only(s.now())

	var prompts []checkin.Prompt
	for _, g := range goals {
		if cooled[g.ID] {
			continue
		}
		steps, err := s.steps.ListByGoal(ctx, g.ID)
		if err != nil {
			return nil, fmt.Errorf("list steps for goal %q: %w", g.ID, err)
		}
		for _, st := range steps {
			if st.DueDate == nil || st.DueDate.After(today) || st.Status.Terminal() {
				continue
			}
			pastDue := dates.Between(*st.DueDate, today)
			prompts = append(prompts, checkin.Prompt{
				Step:        st,
				Goal:        g,
				DaysPastDue: pastDue,
				IsUrgent:    pastDue > s.sched.UrgentAfterDays || st.IsRequired,
			})
		}
	}

	sort.SliceStable(prompts, func(i, j int) bool {
		return prompts[i].DaysPastDue > prompts[j].DaysPastDue
	})
	return prompts, nil
}

// CheckInResult is what a recorded check-in produced.
type CheckInResult struct {
	Record         checkin.Record `json:"record"`
	Feedback       plan.Feedback  `json:"feedback"`
	ExtendedByDays int            `json:"extended_by_days,omitempty"`
}

// RecordCheckIn validates and persists a check-in response, applies the
// resulting status and schedule adjustments, and returns feedback. When an
// advice oracle is configured its refinement replaces the static wording and
// may override the extension length; on any oracle error the static feedback
// stands.
func (s *CheckInService) RecordCheckIn(ctx context.Context, resp checkin.Response) (CheckInResult, error) {
	if err := s.validate.Struct(resp); err != nil {
		return CheckInResult{}, fmt.Errorf("invalid check-in: %w", err)
	}

	st, err := s.steps.Get(ctx, resp.StepID)
	if err != nil {
		return CheckInResult{}, fmt.Errorf("get step: %w", err)
	}

	rec := checkin.Record{
		StepID:       st.ID,
		GoalID:       st.GoalID,
		Completed:    resp.Completed,
		Confidence:   resp.Confidence,
		Blockers:     resp.Blockers,
		NeedsHelp:    resp.NeedsHelp,
		Reflection:   resp.Reflection,
		MinutesSpent: resp.MinutesSpent,
	}
	if err := s.checkins.Insert(ctx, &rec); err != nil {
		return CheckInResult{}, fmt.Errorf("insert check-in: %w", err)
	}

	if resp.Completed && st.Status != step.StatusDone {
		if err := s.steps.UpdateStatus(ctx, st.ID, step.StatusDone); err != nil {
			return CheckInResult{}, fmt.Errorf("mark step done: %w", err)
		}
	}

	fb := plan.BuildFeedback(resp)
	advice := s.refine(ctx, st, resp, fb)
	if advice.Message != "" {
		fb.Encouragement = advice.Message
	}

	result := CheckInResult{Record: rec, Feedback: fb}

	if fb.Adjustments.ExtendDueDate {
		days := s.schedule.DefaultExtensionDays(st)
		if advice.RecommendedDueDate != nil && st.DueDate != nil {
			if d := dates.Between(*st.DueDate, *advice.RecommendedDueDate); d > 0 {
				days = d
			}
		}
		if _, err := s.schedule.ExtendDeadline(ctx, st.ID, days); err != nil {
			return result, fmt.Errorf("extend deadline: %w", err)
		}
		if st.DueDate != nil {
			result.ExtendedByDays = days
		}
	}

	s.log.Info().
		Str("user_id", logging.GetUserID(ctx)).
		Str("step_id", st.ID).
		Str("goal_id", st.GoalID).
		Bool("completed", resp.Completed).
		Int("confidence", resp.Confidence).
		Msg("check-in recorded")

	s.bus.PublishCheckInRecorded(eventbus.CheckInRecordedPayload{
		Record:   &rec,
		Feedback: fb,
	})
	return result, nil
}

// refine asks the oracle for a better-worded message and date recommendation.
// Any failure degrades to empty advice.
func (s *CheckInService) refine(ctx context.Context, st step.Step, resp checkin.Response, fb plan.Feedback) advisory.Advice {
	if s.advisor == nil {
		return advisory.Advice{}
	}

	goalTitle := ""
	if g, err := s.goals.Get(ctx, st.GoalID); err == nil {
		goalTitle = g.Title
	}

	advice, err := s.advisor.Refine(ctx, advisory.AdjustmentRequest{
		GoalTitle:      goalTitle,
		StepTitle:      st.Title,
		Completed:      resp.Completed,
		Confidence:     resp.Confidence,
		Blockers:       resp.Blockers,
		CurrentDueDate: st.DueDate,
		ExtendDueDate:  fb.Adjustments.ExtendDueDate,
		BreakDownStep:  fb.Adjustments.BreakDownStep,
	})
	if err != nil {
		s.log.Debug().Err(err).Msg("advice oracle unavailable, using static feedback")
		return advisory.Advice{}
	}
	return advice
}
