// Package jobs runs the periodic housekeeping tasks of the server.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// OverdueMarker moves past-due bills to Overdue and reports how many changed.
type OverdueMarker interface {
	MarkOverdue(ctx context.Context, now time.Time) (int, error)
}

// Scheduler wraps a cron runner with the jobs registered on it.
type Scheduler struct {
	cron   *cron.Cron
	logger zerolog.Logger
	now    func() time.Time
}

func NewScheduler(loc *time.Location, logger zerolog.Logger) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	return &Scheduler{
		cron:   cron.New(cron.WithLocation(loc)),
		logger: logger.With().Str("component", "jobs").Logger(),
		now:    time.Now,
	}
}

// AddOverdueSweep registers the overdue-bill sweep on spec, a standard cron
// expression or descriptor such as "@hourly". An empty spec registers nothing.
func (s *Scheduler) AddOverdueSweep(spec string, bills OverdueMarker) error {
	if spec == "" {
		return nil
	}
	if _, err := s.cron.AddFunc(spec, func() { s.SweepOverdue(bills) }); err != nil {
		return fmt.Errorf("register overdue sweep %q: %w", spec, err)
	}
	s.logger.Info().Str("schedule", spec).Msg("overdue sweep registered")
	return nil
}

// SweepOverdue runs one sweep now.
func (s *Scheduler) SweepOverdue(bills OverdueMarker) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	n, err := bills.MarkOverdue(ctx, s.now())
	if err != nil {
		s.logger.Error().Err(err).Int("marked", n).Msg("overdue sweep failed")
		return
	}
	if n > 0 {
		s.logger.Info().Int("marked", n).Msg("bills marked overdue")
	}
}

// Jobs returns the number of registered jobs.
func (s *Scheduler) Jobs() int {
	return len(s.cron.Entries())
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info().Msg("scheduler started")
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info().Msg("scheduler stopped")
}
