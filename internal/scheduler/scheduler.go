// Package scheduler runs the daily weather refresh job.
package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog"

	"github.com/sjpark-dev/weather-diary/internal/diary"
)

// Scheduler refreshes today's weather record once a day at a fixed
// wall-clock time. There is no catch-up: a run missed while the process
// was down is simply skipped for that day.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   *diary.Service
	at        string
	log       zerolog.Logger
}

// New creates a Scheduler firing daily at the given "HH:MM" local time.
func New(service *diary.Service, at string, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.Local),
		service:   service,
		at:        at,
		log:       log.With().Str("component", "scheduler").Logger(),
	}
}

// Start schedules the daily job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	_, err := s.scheduler.Every(1).Day().At(s.at).Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := s.service.RefreshTodayWeather(ctx); err != nil {
			s.log.Error().Err(err).Msg("scheduled weather refresh failed")
			return
		}
		s.log.Info().Msg("scheduled weather refresh completed")
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
