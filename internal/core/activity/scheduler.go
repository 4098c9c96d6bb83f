package activity

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler runs the activity drain on a fixed interval using robfig/cron;
// it is the module's only periodic job.
type Scheduler struct {
	drainer  *Drainer
	cron     *cron.Cron
	logger   *zap.Logger
	interval time.Duration
}

// NewScheduler builds a Scheduler that runs every intervalSeconds seconds,
// per spec.md §5/§6's default 900s drain interval.
func NewScheduler(drainer *Drainer, intervalSeconds int, logger *zap.Logger) *Scheduler {
	if intervalSeconds <= 0 {
		intervalSeconds = 900
	}
	return &Scheduler{
		drainer:  drainer,
		cron:     cron.New(),
		logger:   logger.With(zap.String("component", "activity_scheduler")),
		interval: time.Duration(intervalSeconds) * time.Second,
	}
}

// Start schedules the drain job and begins running it in the background.
func (s *Scheduler) Start() error {
	spec := "@every " + s.interval.String()
	_, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()
		if err := s.drainer.DrainAll(ctx); err != nil {
			s.logger.Error("activity drain cycle failed", zap.Error(err))
		}
	})
	if err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info("activity drain scheduler started", zap.Duration("interval", s.interval))
	return nil
}

// Stop halts the scheduler, waiting for any in-flight drain to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("activity drain scheduler stopped")
}
