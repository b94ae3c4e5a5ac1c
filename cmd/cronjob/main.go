package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"quote-negotiation-backend/internal/config"
	"quote-negotiation-backend/internal/jobs"
	"quote-negotiation-backend/internal/logger"
	"quote-negotiation-backend/internal/messaging"
	"quote-negotiation-backend/internal/notify"
	"quote-negotiation-backend/internal/repository/postgres"
	"quote-negotiation-backend/internal/scheduler"
	"quote-negotiation-backend/internal/service"
)

func main() {
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'drain-outbox', 'reconcile-expiry', 'all')")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting quote cronjob runner...", "log_level", cfg.Log.Level)

	if cfg.Database.Driver != config.DriverPostgres {
		log.Fatalf("cronjob needs the postgres store, got %q", cfg.Database.Driver)
	}

	logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port)
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	store := postgres.NewStore(db)

	producer := messaging.NewClient(cfg.Messaging)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := producer.Connect(ctx); err != nil {
		logger.Error("Kafka unavailable; outbox messages stay pending", "error", err, "brokers", cfg.Messaging.Kafka.Brokers)
	}
	cancel()
	defer producer.Close()

	// Expiries done by the reconcile job notify participants like any other transition.
	publishers := notify.Fanout{
		notify.NewInAppPublisher(store.NotificationRepository),
		notify.NewOutboxPublisher(store.OutboxRepository, cfg.Messaging.QuoteTopic),
	}
	if cfg.Email.SendGridAPIKey != "" {
		publishers = append(publishers, notify.NewEmailPublisher(cfg.Email.SendGridAPIKey, cfg.Email.From, cfg.Email.FromName))
	}
	quoteSvc := service.NewQuoteService(store.RentalRepository, store.QuoteRepository, publishers)

	jobRunner := jobs.NewJobRunner(store.QuoteRepository, store.OutboxRepository, quoteSvc, producer, cfg)

	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		runJobOnce(jobRunner, *runOnce)
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	cronScheduler, err := scheduler.NewScheduler(jobRunner)
	if err != nil {
		log.Fatalf("Failed to register jobs: %v", err)
	}
	cronScheduler.Start()
	logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down cronjob scheduler...")
	cronScheduler.Stop()
	logger.Info("Cronjob scheduler stopped. Goodbye!")
}

// runJobOnce runs a specific job once and exits
func runJobOnce(jobRunner *jobs.JobRunner, jobName string) {
	switch jobName {
	case "drain-outbox":
		jobRunner.DrainOutbox()
	case "reconcile-expiry":
		jobRunner.ReconcileExpiredNegotiations()
	case "all":
		jobRunner.RunAll()
	default:
		logger.Error("Unknown job name", "job", jobName)
		fmt.Printf("Available jobs:\n")
		fmt.Printf("  - drain-outbox\n")
		fmt.Printf("  - reconcile-expiry\n")
		fmt.Printf("  - all\n")
		os.Exit(1)
	}
}
