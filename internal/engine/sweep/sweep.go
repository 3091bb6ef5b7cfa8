// Package sweep runs the periodic milestone scan in the background.
package sweep

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/steadyhq/stride/internal/engine"
)

// Sweeper re-runs the milestone scan on a fixed interval so upcoming
// milestones are noticed without any user action.
type Sweeper struct {
	scanner  *engine.ScanService
	userID   string
	interval time.Duration
	log      zerolog.Logger
}

func New(scanner *engine.ScanService, userID string, interval time.Duration, logger zerolog.Logger) *Sweeper {
	return &Sweeper{
		scanner:  scanner,
		userID:   userID,
		interval: interval,
		log:      logger.With().Str("cmp", "sweep").Logger(),
	}
}

// Run scans immediately, then on every tick until ctx is cancelled.
// Scan errors are logged, not fatal.
func (s *Sweeper) Run(ctx context.Context) {
	s.log.Info().Dur("interval", s.interval).Msg("milestone sweep started")

	s.scan(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info().Msg("milestone sweep stopped")
			return
		case <-ticker.C:
			s.scan(ctx)
		}
	}
}

func (s *Sweeper) scan(ctx context.Context) {
	upcoming, err := s.scanner.ScanUpcoming(ctx, s.userID)
	if err != nil {
		s.log.Error().Err(err).Msg("milestone sweep failed")
		return
	}
	if len(upcoming) > 0 {
		s.log.Info().Int("upcoming", len(upcoming)).Msg("milestones approaching")
	}
}
