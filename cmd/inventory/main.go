package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/tair/warehouse-stock/internal/inventory"
	httpDelivery "github.com/tair/warehouse-stock/internal/inventory/delivery/http"
	"github.com/tair/warehouse-stock/internal/inventory/domain"
	"github.com/tair/warehouse-stock/internal/inventory/repository"
	"github.com/tair/warehouse-stock/kafka"
	"github.com/tair/warehouse-stock/pkg/config"
	"github.com/tair/warehouse-stock/pkg/database"
	"github.com/tair/warehouse-stock/pkg/logger"
	"github.com/tair/warehouse-stock/pkg/tracing"
)

func main() {
	cfg := config.Load()

	// Initialize logger
	logger.Init(cfg.ServiceName, cfg.IsDevelopment())
	logger.SetLevel(cfg.LogLevel)

	logger.Logger.Info().
		Str("service", cfg.ServiceName).
		Str("environment", cfg.Environment).
		Str("log_level", cfg.LogLevel).
		Msg("Starting stock service")

	// Initialize tracer
	tp, err := tracing.InitTracer(cfg.ServiceName, cfg.JaegerEndpoint)
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to initialize tracer")
	} else {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracing.Shutdown(ctx, tp); err != nil {
				logger.Logger.Error().Err(err).Msg("Failed to shutdown tracer")
			}
		}()
	}

	// Connect to database
	db, err := database.NewGormConnection(cfg.Database)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to connect to database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to get database instance")
	}
	defer sqlDB.Close()

	if cfg.Database.AutoMigrate {
		if err := repository.NewGormInventoryRepository(db).AutoMigrate(); err != nil {
			logger.Logger.Fatal().Err(err).Msg("Failed to run migrations")
		}
		logger.Logger.Info().Msg("Database migrated successfully")
	}

	redisClient := connectRedis(cfg.Redis)
	if redisClient != nil {
		defer redisClient.Close()
	}

	publisher, closePublisher := newPublisher(cfg.Kafka)
	defer closePublisher()

	// Initialize app with Wire DI
	app, err := inventory.InitializeApp(cfg, db, redisClient, publisher)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize app")
	}

	logger.Logger.Info().
		Strs("write_strategies", app.Chain.Strategies()).
		Str("transfer_policy", cfg.TransferPolicy).
		Msg("Stock handlers initialized")

	router := mux.NewRouter()
	httpDelivery.RegisterMiddlewares(router, httpDelivery.DefaultMiddlewareConfig())
	app.Handler.RegisterRoutes(router)
	app.Store.RegisterRoutes(router)
	httpDelivery.RegisterHealthCheck(router, sqlDB, app.Chain, app.GatewayBreaker())
	httpDelivery.RegisterSwaggerDocs(router)

	// Prometheus metrics endpoint
	router.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           httpDelivery.SetupCORS(httpDelivery.DefaultMiddlewareConfig())(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Logger.Info().
			Str("port", cfg.HTTPPort).
			Str("metrics_endpoint", "/metrics").
			Msg("HTTP server started")

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Logger.Fatal().Err(err).Msg("Failed to start HTTP server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Logger.Error().Err(err).Msg("Server forced to shutdown")
	}

	logger.Logger.Info().Msg("Server exited")
}

// connectRedis returns nil when no address is configured. An unreachable
// server only degrades rate lookups to the store.
func connectRedis(cfg config.RedisConfig) *redis.Client {
	if cfg.Addr == "" {
		logger.Logger.Info().Msg("Redis not configured, conversion rate cache disabled")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Logger.Warn().Err(err).Str("addr", cfg.Addr).Msg("Redis unreachable, rate lookups will fall through to the database")
	} else {
		logger.Logger.Info().Str("addr", cfg.Addr).Msg("Connected to Redis")
	}
	return client
}

// newPublisher falls back to logging events when Kafka is absent or unreachable
func newPublisher(cfg config.KafkaConfig) (domain.EventPublisher, func()) {
	if len(cfg.Brokers) == 0 {
		logger.Logger.Info().Msg("Kafka not configured, stock events are only logged")
		return kafka.LogPublisher{}, func() {}
	}

	publisher, err := kafka.NewPublisher(cfg.Brokers, cfg.Topic)
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to create Kafka publisher, stock events are only logged")
		return kafka.LogPublisher{}, func() {}
	}

	return publisher, func() {
		if err := publisher.Close(); err != nil {
			logger.Logger.Error().Err(err).Msg("Failed to close Kafka publisher")
		}
	}
}
