package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fzokart/fzokart-orders-service/internal/clients"
	"github.com/fzokart/fzokart-orders-service/internal/config"
	"github.com/fzokart/fzokart-orders-service/internal/events"
	"github.com/fzokart/fzokart-orders-service/internal/handlers"
	"github.com/fzokart/fzokart-orders-service/internal/logging"
	"github.com/fzokart/fzokart-orders-service/internal/metrics"
	"github.com/fzokart/fzokart-orders-service/internal/repository"
	"github.com/fzokart/fzokart-orders-service/internal/server"
	"github.com/fzokart/fzokart-orders-service/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	_ "github.com/lib/pq"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(logging.Config{
		ServiceName: "orders-service",
		Environment: cfg.Environment,
		Version:     cfg.Version,
		Level:       cfg.LogLevel,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	db, err := initDatabase(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := repository.RunMigrations(db); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	readiness := map[string]handlers.ReadinessCheck{
		"postgres": db.PingContext,
	}

	orderRepo := repository.NewPostgresOrderRepository(db, logger)
	catalogRepo := repository.NewPostgresCatalogRepository(db, logger)

	var orderCache repository.OrderCache
	if cfg.Features.EnableOrderCaching {
		redisClient := repository.NewRedisClient(cfg.Redis)
		defer redisClient.Close()
		orderCache = repository.NewRedisOrderCache(redisClient, cfg.Redis.TTL, logger)
		readiness["redis"] = func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}
	}

	couponClient := clients.NewHTTPCouponClient(cfg.CouponService, logger)
	notificationClient := clients.NewHTTPNotificationClient(cfg.NotificationService, logger)

	var eventPublisher service.OrderEventPublisher
	if cfg.Features.EnableOrderEvents {
		publisher := events.NewKafkaPublisher(cfg.Kafka, logger)
		defer publisher.Close()
		eventPublisher = publisher
	}

	orderService := service.NewOrderService(
		orderRepo,
		catalogRepo,
		orderCache,
		couponClient,
		notificationClient,
		eventPublisher,
		m,
		cfg,
		logger,
	)

	paymentService := service.NewPaymentService(
		orderRepo,
		orderCache,
		notificationClient,
		eventPublisher,
		cfg,
		logger,
	)

	h := handlers.NewHandlers(orderService, paymentService, readiness, cfg, logger)
	srv := server.New(h, registry, cfg, logger)

	go func() {
		logger.Info("Server starting",
			zap.Int("port", cfg.Server.Port),
			zap.Bool("order_caching", cfg.Features.EnableOrderCaching),
			zap.Bool("order_events", cfg.Features.EnableOrderEvents),
		)
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	var eventConsumer *events.KafkaConsumer
	if cfg.Features.EnablePaymentConsumer {
		eventConsumer = events.NewKafkaConsumer(cfg.Kafka, paymentService, logger)
		go func() {
			if err := eventConsumer.Start(context.Background()); err != nil {
				logger.Error("Event consumer failed", zap.Error(err))
			}
		}()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if eventConsumer != nil {
		eventConsumer.Stop()
	}

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

func initDatabase(cfg *config.Config, logger *zap.Logger) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.Database.ConnectionString())
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("Database connected",
		zap.String("host", cfg.Database.Host),
		zap.String("name", cfg.Database.Name),
	)
	return db, nil
}
