package scheduler

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"sailing-club-backend/internal/jobs"
	"sailing-club-backend/internal/logger"
)

// Scheduler manages cron job scheduling
type Scheduler struct {
	cron *cron.Cron
	jobs *jobs.JobRunner
}

// NewScheduler creates a new scheduler with the provided job runner. It
// fails when a configured cron spec does not parse.
func NewScheduler(jobRunner *jobs.JobRunner) (*Scheduler, error) {
	// Create cron with UTC timezone and seconds precision
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

// registerJobs registers all scheduled jobs with the cron scheduler
func (s *Scheduler) registerJobs() error {
	cfg := s.jobs.Config().Scheduler

	registrations := []struct {
		name string
		spec string
		run  func()
	}{
		{"ReconcileBalances", cfg.ReconcileBalances, s.jobs.ReconcileBalances},
		{"RemindLongRentals", cfg.RemindLongRentals, s.jobs.RemindLongRentals},
	}

	for _, r := range registrations {
		if _, err := s.cron.AddFunc(r.spec, r.run); err != nil {
			logger.Error("Failed to register job", "job", r.name, "spec", r.spec, "error", err)
			return fmt.Errorf("register %s: %w", r.name, err)
		}
		logger.Debug("Registered job", "job", r.name, "spec", r.spec)
	}

	logger.Info("All cron jobs registered successfully", "count", len(registrations))
	return nil
}

// Start begins the cron scheduler
func (s *Scheduler) Start() {
	logger.Info("Starting cron scheduler...")
	s.cron.Start()
	logger.Info("Cron scheduler started successfully")
}

// Stop gracefully stops the cron scheduler, waiting for running jobs
func (s *Scheduler) Stop() {
	logger.Info("Stopping cron scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("Cron scheduler stopped")
}

// IsRunning returns true if the scheduler has jobs registered
func (s *Scheduler) IsRunning() bool {
	return len(s.cron.Entries()) > 0
}

// NextRuns returns the next activation time of each registered job
func (s *Scheduler) NextRuns() []time.Time {
	entries := s.cron.Entries()
	next := make([]time.Time, 0, len(entries))
	for _, e := range entries {
		next = append(next, e.Next)
	}
	return next
}
