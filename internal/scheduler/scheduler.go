package scheduler

import (
	"time"

	"github.com/robfig/cron/v3"

	"quote-negotiation-backend/internal/jobs"
	"quote-negotiation-backend/internal/logger"
)

// Scheduler manages cron job scheduling
type Scheduler struct {
	cron *cron.Cron
	jobs *jobs.JobRunner
}

// NewScheduler creates a new scheduler with the provided job runner
func NewScheduler(jobRunner *jobs.JobRunner) (*Scheduler, error) {
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithSeconds(),
	)

	s := &Scheduler{
		cron: c,
		jobs: jobRunner,
	}

	if err := s.registerJobs(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scheduler) registerJobs() error {
	cfg := s.jobs.Config().Scheduler

	if _, err := s.cron.AddFunc(cfg.DrainOutbox, s.jobs.DrainOutbox); err != nil {
		logger.Error("Failed to register DrainOutbox job", "spec", cfg.DrainOutbox, "error", err)
		return err
	}

	if _, err := s.cron.AddFunc(cfg.ReconcileExpiry, s.jobs.ReconcileExpiredNegotiations); err != nil {
		logger.Error("Failed to register ReconcileExpiredNegotiations job", "spec", cfg.ReconcileExpiry, "error", err)
		return err
	}

	logger.Info("All cron jobs registered successfully", "count", len(s.cron.Entries()))
	return nil
}

// Start begins the cron scheduler
func (s *Scheduler) Start() {
	logger.Info("Starting cron scheduler...")
	s.cron.Start()
}

// Stop waits for running jobs to finish before returning.
func (s *Scheduler) Stop() {
	logger.Info("Stopping cron scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("Cron scheduler stopped")
}

// Entries returns the number of registered jobs.
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}
