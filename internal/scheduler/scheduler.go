package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/ivannnito/AstroViewingConditions/internal/conditions"
	"github.com/ivannnito/AstroViewingConditions/pkg/logger"
)

// Scheduler periodically refreshes the default location through the cache
// manager so interactive requests usually hit a fresh snapshot. The manager's
// mutex serializes these refreshes with API callers, preserving single-flight
// per location.
type Scheduler struct {
	scheduler *gocron.Scheduler
	manager   *conditions.Manager
	location  conditions.Location
	interval  time.Duration
	logger    *logger.Logger
}

// New creates a new Scheduler.
func New(manager *conditions.Manager, location conditions.Location, interval time.Duration, log *logger.Logger) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		manager:   manager,
		location:  location,
		interval:  interval,
		logger:    log.Named("scheduler"),
	}
}

// Start schedules the periodic refresh job and starts the underlying
// scheduler.
func (s *Scheduler) Start() error {
	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 60
	}

	_, err := s.scheduler.Every(minutes).Minutes().Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		if _, err := s.manager.LoadConditionsIfNeeded(ctx, s.location); err != nil {
			s.logger.Warn("Scheduled refresh failed",
				logger.String("location", s.location.Name),
				logger.Error(err))
			return
		}
		s.logger.Debug("Scheduled refresh completed",
			logger.String("location", s.location.Name))
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	s.logger.Info("Background refresh scheduled",
		logger.String("location", s.location.Name),
		logger.Int("interval_minutes", minutes))
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
