package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	grpcapi "sailing-club-backend/internal/api/grpc"
	httpapi "sailing-club-backend/internal/api/http"
	"sailing-club-backend/internal/config"
	"sailing-club-backend/internal/logger"
	"sailing-club-backend/internal/metrics"
	"sailing-club-backend/internal/repository/postgres"
	"sailing-club-backend/internal/security"
	"sailing-club-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Sailing Club Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress(), "grpc_health_port", cfg.Server.GRPCHealthPort)
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)
	logger.Info("Ledger configuration", "record_rental_charges", cfg.RecordsRentalCharges(), "lock_timeout", cfg.LockTimeout())

	// Initialize Database
	ctx := context.Background()
	db, err := postgres.Open(ctx, cfg.GetDatabaseConnectionString(), cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	logger.Info("Database connection established")

	if cfg.Database.AutoMigrate {
		if err := postgres.Migrate(ctx, db); err != nil {
			logger.Error("Failed to migrate schema", "error", err)
			log.Fatalf("Failed to migrate schema: %v", err)
		}
		logger.Info("Database schema is up to date")
	}

	store := postgres.NewStore(db, cfg.LockTimeout())
	defer store.Close()

	// Initialize Security and Metrics
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, cfg.AccessTokenTTL(), cfg.RefreshTokenTTL())
	m := metrics.New()

	// Initialize Services
	emailSvc := service.NewEmailService(cfg.Email.SendGridAPIKey, cfg.Email.From, cfg.Email.FromName)
	if cfg.Email.SendGridAPIKey == "" {
		logger.Warn("SendGrid API key not set, emails will be logged only")
	}
	ledgerSvc := service.NewLedgerService(store, m)
	authSvc := service.NewAuthService(store, tokenManager)
	forumSvc := service.NewForumService(store)

	// Bootstrap data
	if cfg.BootstrapAdmin() {
		admin, created, err := authSvc.EnsureAdmin(ctx, cfg.Admin.Username, cfg.Admin.Password, cfg.Admin.Email)
		if err != nil {
			logger.Error("Failed to ensure bootstrap administrator", "error", err, "username", cfg.Admin.Username)
			log.Fatalf("Failed to ensure bootstrap administrator: %v", err)
		}
		logger.Info("Bootstrap administrator ready", "user_id", admin.ID, "created", created)
	}
	tags := cfg.Forum.DefaultTags
	if len(tags) == 0 {
		tags = service.DefaultForumTags
	}
	if n, err := forumSvc.EnsureTags(ctx, tags); err != nil {
		logger.Error("Failed to seed forum tags", "error", err)
	} else if n > 0 {
		logger.Info("Forum tags seeded", "created", n)
	}

	router := httpapi.NewRouter(httpapi.Dependencies{
		Auth:           authSvc,
		Users:          service.NewUserService(store),
		Boats:          service.NewBoatService(store),
		Rentals:        service.NewRentalService(store, emailSvc, m, cfg.RecordsRentalCharges()),
		Activities:     service.NewActivityService(store, emailSvc, m),
		Ledger:         ledgerSvc,
		Notices:        service.NewNoticeService(store),
		Forum:          forumSvc,
		Stats:          service.NewStatsService(store),
		Tokens:         tokenManager,
		Metrics:        m,
		Store:          store,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", "error", err)
			log.Fatalf("Failed to serve HTTP: %v", err)
		}
	}()

	// gRPC health server on its own port
	var health *grpcapi.HealthServer
	if cfg.Server.GRPCHealthPort != 0 {
		lis, err := net.Listen("tcp", cfg.GetHealthAddress())
		if err != nil {
			logger.Error("Failed to listen", "error", err, "address", cfg.GetHealthAddress())
			log.Fatalf("Failed to listen: %v", err)
		}
		health = grpcapi.NewHealthServer(store, grpcapi.DefaultCheckInterval)
		go func() {
			if err := health.Serve(lis); err != nil {
				logger.Error("gRPC health server error", "error", err)
			}
		}()
	}

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan

	// Graceful shutdown
	logger.Info("Shutting down...", "signal", sig.String())
	if health != nil {
		health.Stop()
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeoutSeconds)*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
	}
	logger.Info("Server stopped. Goodbye!")
}
