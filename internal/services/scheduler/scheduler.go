// -----------------------------------------------------------------------
// Last Modified: Monday, 1st September 2025
// -----------------------------------------------------------------------

// Package scheduler runs unattended report generation on a cron
// schedule.
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"

	"github.com/twokomi/oneclick-reports-backend/internal/common"
	"github.com/twokomi/oneclick-reports-backend/internal/services/reports"
)

// generationTimeout bounds one scheduled run, covering source fetches
// and a possible LLM call.
const generationTimeout = 5 * time.Minute

// Scheduler triggers report generation from a cron expression with a
// seconds field.
type Scheduler struct {
	cron    *cron.Cron
	reports *reports.Service
	config  *common.SchedulerConfig
	logger  arbor.ILogger
}

// New creates a scheduler. Call Start to begin running.
func New(service *reports.Service, config *common.SchedulerConfig, logger arbor.ILogger) *Scheduler {
	parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	return &Scheduler{
		cron:    cron.New(cron.WithParser(parser)),
		reports: service,
		config:  config,
		logger:  logger,
	}
}

// Start registers the configured job and starts the cron loop. Disabled
// schedulers are a no-op.
func (s *Scheduler) Start() error {
	if !s.config.Enabled {
		s.logger.Info().Msg("Scheduler disabled")
		return nil
	}

	_, err := s.cron.AddFunc(s.config.Schedule, s.run)
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info().
		Str("schedule", s.config.Schedule).
		Str("kind", s.config.Kind).
		Str("mode", s.config.Mode).
		Msg("Scheduler started")
	return nil
}

// Stop halts the cron loop and waits for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info().Msg("Scheduler stopped")
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), generationTimeout)
	defer cancel()

	report, err := s.reports.Create(ctx, s.config.Kind, s.config.Mode)
	if err != nil {
		s.logger.Error().Err(err).Msg("Scheduled report generation failed")
		return
	}
	s.logger.Info().Int64("id", report.ID).Str("title", report.Title).Msg("Scheduled report generated")
}
