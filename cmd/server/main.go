package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	domainRepo "farewatch-service/internal/domain/repository"
	"farewatch-service/internal/infrastructure/config"
	"farewatch-service/internal/infrastructure/persistence"
	"farewatch-service/internal/interface/handler"
	"farewatch-service/internal/interface/repository"
	"farewatch-service/internal/usecase"
	"farewatch-service/pkg/logger"
	"farewatch-service/pkg/metrics"

	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	// Create logger
	log := logger.NewLogger(cfg.LogLevel)
	log.Info("Starting Farewatch Service", "version", cfg.AppVersion)

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up MongoDB connection (durable key-value store)
	log.Info("Connecting to MongoDB")
	mongoClient, db, err := persistence.NewMongoClient(ctx, cfg.MongoURI, cfg.MongoDB, cfg.MongoUser, cfg.MongoPassword)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB", "error", err)
	}

	kvStore := repository.NewMongoKVStore(db)
	trackingRepo := repository.NewKVTrackingRepository(kvStore, log)
	notificationRepo := repository.NewKVNotificationRepository(kvStore, cfg.NotificationLimit, log)

	// Airline/airport reference data is optional; without it alert
	// messages fall back to raw codes
	var airlineRepo domainRepo.AirlineRepository
	var airportRepo domainRepo.AirportRepository
	if cfg.PostgresURI != "" {
		gormDB, err := gorm.Open(postgres.Open(cfg.PostgresURI), &gorm.Config{})
		if err != nil {
			log.Fatal("Failed to connect to PostgreSQL", "error", err)
		}
		airlineRepo = repository.NewGormAirlineRepository(gormDB)
		airportRepo = repository.NewGormAirportRepository(gormDB)
	} else {
		log.Warn("POSTGRES_DSN not set, reference data lookups disabled")
	}

	// Alert dispatch channels
	var dispatchers []domainRepo.AlertDispatcher
	if cfg.AlertWebhookURL != "" {
		dispatchers = append(dispatchers, repository.NewWebhookAlertDispatcher(cfg.AlertWebhookURL, cfg.AlertWebhookToken, log))
	}
	var kafkaDispatcher *repository.KafkaAlertDispatcher
	if len(cfg.KafkaBrokers) > 0 {
		kafkaDispatcher, err = repository.NewKafkaAlertDispatcher(cfg.KafkaBrokers, cfg.KafkaAlertTopic, log)
		if err != nil {
			log.Fatal("Failed to create Kafka dispatcher", "error", err)
		}
		dispatchers = append(dispatchers, kafkaDispatcher)
	}

	m := metrics.NewMetrics("farewatch")
	requestValidator := usecase.NewRequestValidator()
	tracker := usecase.NewPriceTracker(trackingRepo, notificationRepo, dispatchers, airlineRepo, airportRepo, requestValidator, m, log)

	// Set up HTTP server
	router := httprouter.New()
	trackingHandler := handler.NewTrackingHandler(tracker, notificationRepo, requestValidator, log)
	trackingHandler.Register(router)

	router.Handler("GET", "/metrics", promhttp.Handler())
	router.HandlerFunc("GET", "/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Healthy"))
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	// Start HTTP server in a goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Info("Received signal", "signal", sig)

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}

	cancel()

	if kafkaDispatcher != nil {
		if err := kafkaDispatcher.Close(); err != nil {
			log.Error("Kafka dispatcher close error", "error", err)
		}
	}

	// Disconnect from MongoDB
	if err := mongoClient.Disconnect(ctx); err != nil {
		log.Error("MongoDB disconnect error", "error", err)
	}

	log.Info("Farewatch Service stopped")
}
