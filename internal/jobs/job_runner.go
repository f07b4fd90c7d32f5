package jobs

import (
	"sailing-club-backend/internal/config"
	"sailing-club-backend/internal/logger"
	"sailing-club-backend/internal/metrics"
	"sailing-club-backend/internal/repository"
	"sailing-club-backend/internal/service"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	store    repository.Store
	services *Services
	metrics  *metrics.Metrics
	config   *config.Config
}

// Services holds all service dependencies needed by jobs
type Services struct {
	Email service.EmailService
}

// NewJobRunner creates a new job runner with all dependencies. m may be nil.
func NewJobRunner(store repository.Store, services *Services, m *metrics.Metrics, cfg *config.Config) *JobRunner {
	return &JobRunner{
		store:    store,
		services: services,
		metrics:  m,
		config:   cfg,
	}
}

// Config returns the configuration the jobs were built with
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
	jr.ReconcileBalances()
	jr.RemindLongRentals()
}
