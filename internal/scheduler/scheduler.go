package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"sitewatch/internal/config"
	"sitewatch/internal/errorwrapper"
	"sitewatch/internal/monitor"
)

// Scheduler runs the periodic monitoring pass on a cron schedule and records
// each pass in the history database. The periodic pass does not bypass the
// daily throttle; on-demand forced passes go through the monitor service
// directly.
type Scheduler struct {
	cfg     *config.SchedulerConfig
	service *monitor.Service
	db      *DB
	cron    *cron.Cron
	logger  zerolog.Logger
}

// NewScheduler creates a scheduler for the given monitor service.
func NewScheduler(cfg *config.SchedulerConfig, service *monitor.Service, logger zerolog.Logger) (*Scheduler, error) {
	db, err := NewDB(cfg.SQLiteDBPath, logger)
	if err != nil {
		return nil, errorwrapper.WrapError(err, "failed to initialize pass history database")
	}

	return &Scheduler{
		cfg:     cfg,
		service: service,
		db:      db,
		cron:    cron.New(),
		logger:  logger.With().Str("component", "Scheduler").Logger(),
	}, nil
}

// Start registers the cron entry and blocks until ctx is cancelled, then
// waits for any in-flight pass to finish.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.cfg.CronSpec, func() {
		s.runScheduledPass(ctx)
	})
	if err != nil {
		return errorwrapper.WrapError(err, "invalid cron spec "+s.cfg.CronSpec)
	}

	s.logger.Info().Str("cron_spec", s.cfg.CronSpec).Msg("Scheduler started")
	s.cron.Start()

	<-ctx.Done()
	s.logger.Info().Msg("Stopping scheduler due to context cancellation")

	stopCtx := s.cron.Stop()
	<-stopCtx.Done()

	if err := s.db.Close(); err != nil {
		s.logger.Error().Err(err).Msg("Failed to close pass history database")
	}

	s.logger.Info().Msg("Scheduler stopped")
	return ctx.Err()
}

// runScheduledPass executes one non-forced pass and records it.
func (s *Scheduler) runScheduledPass(ctx context.Context) {
	startTime := time.Now().UTC()
	passID, err := s.db.RecordPassStart(startTime, false)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to record pass start, running pass anyway")
	}

	result := s.service.RunPass(ctx, false)

	if passID != 0 {
		if err := s.db.UpdatePassCompletion(passID, time.Now().UTC(), result.ProcessedCount, result.ErrorCount, len(result.AllNewURLs)); err != nil {
			s.logger.Error().Err(err).Msg("Failed to record pass completion")
		}
	}

	s.logger.Info().
		Int("processed", result.ProcessedCount).
		Int("errors", result.ErrorCount).
		Int("new_urls", len(result.AllNewURLs)).
		Msg("Scheduled pass finished")
}
