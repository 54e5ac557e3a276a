package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	httpapi "growshare-backend/internal/api/http"
	"growshare-backend/internal/config"
	"growshare-backend/internal/logger"
	"growshare-backend/internal/notify"
	"growshare-backend/internal/observability"
	"growshare-backend/internal/payment"
	"growshare-backend/internal/repository/postgres"
	"growshare-backend/internal/security"
	"growshare-backend/internal/service"
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
	logger.Info("Starting GrowShare Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize tracing
	shutdownTracer, err := observability.InitTracer(ctx, cfg.Tracing)
	if err != nil {
		log.Fatalf("Failed to initialize tracing: %v", err)
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			logger.Error("Failed to flush traces", "error", err)
		}
	}()

	// Initialize Database
	logger.Debug("Connecting to database...", "connection_string", fmt.Sprintf("%s@%s:%d/%s", cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.Database))
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if cfg.Database.MaxConns > 0 {
		db.SetMaxOpenConns(cfg.Database.MaxConns)
	}

	// Test database connection
	if err := db.PingContext(ctx); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.AccessTokenTTL())

	// Initialize Payment Gateway
	gateway, err := payment.NewOmiseGateway(cfg.Payment.PublicKey, cfg.Payment.SecretKey)
	if err != nil {
		logger.Error("Failed to initialize payment gateway", "error", err)
		log.Fatalf("Failed to initialize payment gateway: %v", err)
	}

	// Initialize Notification Channels
	channels := []notify.Channel{notify.NewInAppChannel(store.NotificationRepository)}
	if cfg.SendGrid.APIKey != "" {
		logger.Info("Email notifications enabled", "from", cfg.SendGrid.FromEmail)
		channels = append(channels, notify.NewEmailChannel(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName))
	}
	if cfg.Firebase.CredentialsFile != "" {
		push, err := notify.NewPushChannel(ctx, cfg.Firebase.CredentialsFile, cfg.Firebase.ProjectID, store.UserRepository)
		if err != nil {
			logger.Error("Push notifications disabled", "error", err)
		} else {
			logger.Info("Push notifications enabled", "project", cfg.Firebase.ProjectID)
			channels = append(channels, push)
		}
	}
	if cfg.Broker.URL != "" {
		publisher, err := notify.NewPublisher(cfg.Broker.URL, cfg.Broker.Exchange)
		if err != nil {
			logger.Error("Broker notifications disabled", "error", err)
		} else {
			defer publisher.Close()
			logger.Info("Broker notifications enabled", "exchange", cfg.Broker.Exchange)
			channels = append(channels, notify.NewBrokerChannel(publisher))
		}
	}
	dispatcher := notify.NewDispatcher(channels...)

	// Initialize Services
	authSvc := service.NewAuthService(store.UserRepository, tokenManager)
	bookingSvc := service.NewBookingService(
		store.Transactor,
		store.BookingRepository,
		store.PlotRepository,
		store.UserRepository,
		store.PaymentIntentRepository,
		store.ActivityRepository,
		gateway,
		dispatcher,
	)
	paymentSvc := service.NewPaymentService(
		store.Transactor,
		store.BookingRepository,
		store.PaymentIntentRepository,
		store.UserRepository,
		gateway,
		dispatcher,
		cfg.Payment.Currency,
	)
	noteSvc := service.NewNotificationService(store.NotificationRepository)
	activitySvc := service.NewActivityService(store.ActivityRepository)

	// Initialize HTTP handlers
	router := httpapi.NewRouter(httpapi.Handlers{
		Auth:    httpapi.NewAuthHandler(authSvc),
		Booking: httpapi.NewBookingHandler(bookingSvc),
		Payment: httpapi.NewPaymentHandler(paymentSvc),
		Inbox:   httpapi.NewInboxHandler(noteSvc, activitySvc),
		Health:  httpapi.HealthHandler(db),
	}, httpapi.NewAuthMiddleware(tokenManager, authSvc))

	srv := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSec) * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	// Graceful shutdown
	logger.Info("Shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", "error", err)
	}
	logger.Info("Server stopped. Goodbye!")
}
