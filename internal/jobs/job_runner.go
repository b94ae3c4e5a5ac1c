package jobs

import (
	"quote-negotiation-backend/internal/config"
	"quote-negotiation-backend/internal/logger"
	"quote-negotiation-backend/internal/messaging"
	"quote-negotiation-backend/internal/repository"
	"quote-negotiation-backend/internal/service"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	quoteRepo  repository.QuoteRepository
	outboxRepo repository.OutboxRepository
	quotes     service.QuoteService
	producer   messaging.Producer
	config     *config.Config
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(
	quoteRepo repository.QuoteRepository,
	outboxRepo repository.OutboxRepository,
	quotes service.QuoteService,
	producer messaging.Producer,
	cfg *config.Config,
) *JobRunner {
	return &JobRunner{
		quoteRepo:  quoteRepo,
		outboxRepo: outboxRepo,
		quotes:     quotes,
		producer:   producer,
		config:     cfg,
	}
}

// Config returns the configuration the runner was built with.
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	jobFunc()
	logger.Info("Job completed", "job", jobName)
}

// RunAll runs every job once (for manual execution)
func (jr *JobRunner) RunAll() {
	jr.ReconcileExpiredNegotiations()
	jr.DrainOutbox()
}
