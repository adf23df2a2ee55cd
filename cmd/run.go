package cmd

import (
	"context"
	"fmt"
	"time"

	"fundbridge/config"
	"fundbridge/database"
	"fundbridge/events"
	"fundbridge/observability"
	"fundbridge/repository"
	"fundbridge/server"
	"fundbridge/service"

	log "github.com/sirupsen/logrus"
)

// Run initializes and serves the application until ctx is cancelled
func Run(ctx context.Context) error {
	log.Info("Starting fundbridge...")

	// Load configuration
	cfg := config.Get()

	// Initialize database connection
	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		log.Info("Closing database connection...")
		db.Close()
	}()
	log.Info("Database connection established successfully")

	// Initialize metrics
	if err := observability.InitializeGlobalMetrics(ctx, cfg); err != nil {
		return fmt.Errorf("failed to initialize metrics: %w", err)
	}
	metrics := observability.GetMetrics()

	// Initialize event bus and its subscribers
	log.Info("Initializing event bus...")
	eventBus := events.NewBus()
	observability.RegisterEventMetrics(eventBus, metrics)

	var natsClient *events.NATSClient
	if cfg.NATSServers != "" {
		natsClient = events.NewNATSClient(cfg.NATSServers)
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		err := natsClient.Connect(connectCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("failed to connect to NATS: %w", err)
		}
		if err := natsClient.EnsureEventStream(); err != nil {
			natsClient.Close()
			return fmt.Errorf("failed to ensure event stream: %w", err)
		}
		events.NewForwarder(natsClient, cfg.OTelServiceName).Register(eventBus)
		log.WithField("servers", cfg.NATSServers).Info("Forwarding events to NATS")
	}
	log.Info("Event bus initialized successfully")

	// Initialize unit of work factory and services
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)
	services := server.Services{
		Auth:          service.NewAuthService(uowFactory, cfg.JWTSecret, cfg.TokenTTL),
		Users:         service.NewUserService(uowFactory),
		Pitches:       service.NewPitchService(uowFactory),
		Investments:   service.NewInvestmentService(uowFactory),
		Distributions: service.NewDistributionService(uowFactory),
		Portfolios:    service.NewPortfolioService(uowFactory),
		Wallet:        service.NewWalletService(uowFactory),
		Campaigns:     service.NewAdCampaignService(uowFactory),
	}
	log.Info("Services initialized successfully")

	// Serve until shutdown
	log.WithField("environment", cfg.Environment).Info("Serving API")
	runErr := server.New(cfg, services, metrics).Run(ctx)

	// Cleanup resources
	log.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if natsClient != nil {
		if err := natsClient.Close(); err != nil {
			log.WithError(err).Error("Error closing NATS connection")
		}
	}
	if err := observability.ShutdownGlobalMetrics(shutdownCtx); err != nil {
		log.WithError(err).Error("Error shutting down metrics")
	}

	if runErr != nil {
		return runErr
	}
	log.Info("Shutdown completed")
	return nil
}
