package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	api "quote-negotiation-backend/internal/api/grpc"
	"quote-negotiation-backend/internal/api/grpc/interceptor"
	httpapi "quote-negotiation-backend/internal/api/http"
	"quote-negotiation-backend/internal/config"
	"quote-negotiation-backend/internal/jobs"
	"quote-negotiation-backend/internal/logger"
	"quote-negotiation-backend/internal/messaging"
	"quote-negotiation-backend/internal/migrations"
	"quote-negotiation-backend/internal/notify"
	"quote-negotiation-backend/internal/repository"
	"quote-negotiation-backend/internal/repository/memory"
	"quote-negotiation-backend/internal/repository/postgres"
	"quote-negotiation-backend/internal/scheduler"
	"quote-negotiation-backend/internal/security"
	"quote-negotiation-backend/internal/service"
)

type repositories struct {
	rentals repository.RentalRepository
	quotes  repository.QuoteRepository
	notes   repository.NotificationRepository
	outbox  repository.OutboxRepository
}

func main() {
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting quote negotiation backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "grpc", cfg.GetServerAddress(), "http_port", cfg.HTTP.Port, "store", cfg.Database.Driver)

	var repos repositories
	switch cfg.Database.Driver {
	case config.DriverMemory:
		logger.Warn("Using in-memory store; data is lost on restart")
		store := memory.NewStore()
		repos = repositories{store.RentalRepository, store.QuoteRepository, store.NotificationRepository, store.OutboxRepository}
	default:
		logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)
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

		if cfg.Database.AutoMigrate {
			if err := migrations.Up(db); err != nil {
				log.Fatalf("Failed to run migrations: %v", err)
			}
			logger.Info("Database migrations applied")
		}

		store := postgres.NewStore(db)
		repos = repositories{store.RentalRepository, store.QuoteRepository, store.NotificationRepository, store.OutboxRepository}
	}

	// Every transition lands in the inbox of whoever acts next and in the
	// outbox the cronjob relays to Kafka.
	publishers := notify.Fanout{
		notify.NewInAppPublisher(repos.notes),
		notify.NewOutboxPublisher(repos.outbox, cfg.Messaging.QuoteTopic),
	}
	if cfg.Email.SendGridAPIKey != "" {
		logger.Info("Customer email enabled", "from", cfg.Email.From)
		publishers = append(publishers, notify.NewEmailPublisher(cfg.Email.SendGridAPIKey, cfg.Email.From, cfg.Email.FromName))
	}

	quoteSvc := service.NewQuoteService(repos.rentals, repos.quotes, publishers)
	noteSvc := service.NewNotificationService(repos.notes)

	tokenManager := security.NewTokenManager(cfg.JWT.Secret, time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute)
	authInterceptor := interceptor.NewAuthInterceptor(tokenManager)

	// The memory store lives in this process, so its jobs must too.
	if cfg.Database.Driver == config.DriverMemory {
		producer := messaging.NewClient(cfg.Messaging)
		if len(cfg.Messaging.Kafka.Brokers) > 0 {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			if err := producer.Connect(ctx); err != nil {
				logger.Error("Kafka unavailable; outbox will retry", "error", err)
			}
			cancel()
		}
		defer producer.Close()

		jobRunner := jobs.NewJobRunner(repos.quotes, repos.outbox, quoteSvc, producer, cfg)
		cronScheduler, err := scheduler.NewScheduler(jobRunner)
		if err != nil {
			log.Fatalf("Failed to register jobs: %v", err)
		}
		cronScheduler.Start()
		defer cronScheduler.Stop()
	}

	lis, err := net.Listen("tcp", cfg.GetServerAddress())
	if err != nil {
		logger.Error("Failed to listen", "error", err, "address", cfg.GetServerAddress())
		log.Fatalf("Failed to listen: %v", err)
	}

	s := grpc.NewServer(
		grpc.UnaryInterceptor(authInterceptor.Unary()),
	)
	api.Register(s, api.NewQuoteHandler(quoteSvc), api.NewNotificationHandler(noteSvc))

	// Register reflection service for grpcurl
	reflection.Register(s)

	var httpServer *http.Server
	if cfg.HTTP.Port > 0 {
		httpServer = &http.Server{
			Addr:              cfg.GetHTTPAddress(),
			Handler:           httpapi.NewRouter(quoteSvc, noteSvc, tokenManager),
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			logger.Info("HTTP server listening", "address", httpServer.Addr)
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("HTTP server error", "error", err)
			}
		}()
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down...")
		if httpServer != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			if err := httpServer.Shutdown(ctx); err != nil {
				logger.Error("HTTP shutdown error", "error", err)
			}
			cancel()
		}
		s.GracefulStop()
	}()

	logger.Info("gRPC server listening", "address", cfg.GetServerAddress())
	if err := s.Serve(lis); err != nil {
		logger.Error("Failed to serve gRPC", "error", err)
		log.Fatalf("Failed to serve: %v", err)
	}
	logger.Info("Server stopped")
}
