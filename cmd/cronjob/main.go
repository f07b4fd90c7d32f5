package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"sailing-club-backend/internal/config"
	"sailing-club-backend/internal/jobs"
	"sailing-club-backend/internal/logger"
	"sailing-club-backend/internal/metrics"
	"sailing-club-backend/internal/repository/postgres"
	"sailing-club-backend/internal/scheduler"
	"sailing-club-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'reconcile-balances', 'remind-long-rentals', 'all')")
	metricsAddr := flag.String("metrics-addr", "", "Serve Prometheus metrics on this address (e.g., ':9102')")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Sailing Club Cronjob Runner...", "log_level", cfg.Log.Level)

	// Initialize Database
	logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port)
	db, err := postgres.Open(context.Background(), cfg.GetDatabaseConnectionString(), cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	logger.Info("Database connection established")

	store := postgres.NewStore(db, cfg.LockTimeout())
	defer store.Close()

	m := metrics.New()
	jobServices := &jobs.Services{
		Email: service.NewEmailService(cfg.Email.SendGridAPIKey, cfg.Email.From, cfg.Email.FromName),
	}

	// Initialize Job Runner
	jobRunner := jobs.NewJobRunner(store, jobServices, m, cfg)

	// Check if running a single job
	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		runJobOnce(jobRunner, *runOnce)
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	if *metricsAddr != "" {
		go func() {
			logger.Info("Metrics server listening", "address", *metricsAddr)
			if err := http.ListenAndServe(*metricsAddr, m.Handler()); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("Metrics server error", "error", err)
			}
		}()
	}

	// Initialize Scheduler
	cronScheduler, err := scheduler.NewScheduler(jobRunner)
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}

	// Start scheduler
	cronScheduler.Start()
	logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down cronjob scheduler...")
	cronScheduler.Stop()
	logger.Info("Cronjob scheduler stopped. Goodbye!")
}

// runJobOnce runs a specific job once and exits
func runJobOnce(jobRunner *jobs.JobRunner, jobName string) {
	switch jobName {
	case "reconcile-balances":
		jobRunner.ReconcileBalances()
	case "remind-long-rentals":
		jobRunner.RemindLongRentals()
	case "all":
		jobRunner.RunAll()
	default:
		logger.Error("Unknown job name", "job", jobName)
		fmt.Printf("Available jobs:\n")
		fmt.Printf("  - reconcile-balances\n")
		fmt.Printf("  - remind-long-rentals\n")
		fmt.Printf("  - all\n")
		os.Exit(1)
	}
}
