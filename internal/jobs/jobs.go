package jobs

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"maitred/config"
	reservationService "maitred/internal/domains/reservation/service"
)

// Scheduler owns the background sweeps that keep the floor honest when no
// host is clicking anything.
type Scheduler struct {
	cron         *cron.Cron
	cfg          *config.Config
	reservations reservationService.Reservation
}

func NewScheduler(cfg *config.Config, reservations reservationService.Reservation) *Scheduler {
	return &Scheduler{
		cron:         cron.New(),
		cfg:          cfg,
		reservations: reservations,
	}
}

// Start registers the jobs and kicks off the cron loop. It returns an error
// only when a schedule expression cannot be parsed.
func (s *Scheduler) Start() error {
	schedule := s.cfg.Restaurant.NoShowSweepCron

	if _, err := s.cron.AddFunc(schedule, s.sweepNoShows); err != nil {
		return fmt.Errorf("failed to schedule no-show sweep: %w", err)
	}

	s.cron.Start()

	log.Info().Str("schedule", schedule).Msg("no-show sweep scheduled")

	return nil
}

// Stop halts the cron loop and waits for any running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()

	log.Info().Msg("background jobs stopped")
}

func (s *Scheduler) sweepNoShows() {
	marked, err := s.reservations.MarkNoShows(context.Background())
	if err != nil {
		log.Error().Err(err).Msg("no-show sweep failed")

		return
	}

	if marked > 0 {
		log.Info().Int("marked", marked).Msg("no-show sweep completed")
	}
}
