package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/BarkinBalci/purchase-event-pipeline/docs/management"
	"github.com/BarkinBalci/purchase-event-pipeline/internal/config"
	"github.com/BarkinBalci/purchase-event-pipeline/internal/consumer"
	"github.com/BarkinBalci/purchase-event-pipeline/internal/handler"
	"github.com/BarkinBalci/purchase-event-pipeline/internal/health"
	"github.com/BarkinBalci/purchase-event-pipeline/internal/logger"
	"github.com/BarkinBalci/purchase-event-pipeline/internal/queue"
	"github.com/BarkinBalci/purchase-event-pipeline/internal/queue/kafka"
	"github.com/BarkinBalci/purchase-event-pipeline/internal/queue/sqs"
	"github.com/BarkinBalci/purchase-event-pipeline/internal/repository"
	"github.com/BarkinBalci/purchase-event-pipeline/internal/repository/clickhouse"
	"github.com/BarkinBalci/purchase-event-pipeline/internal/repository/mongo"
	"github.com/BarkinBalci/purchase-event-pipeline/internal/service"
)

const (
	shutdownTimeout   = 10 * time.Second
	initSchemaTimeout = 10 * time.Second
)

// @title Customer Management API
// @version 1.0
// @description Consumes purchase events and serves stored purchases
// @host localhost:8000
// @BasePath /
// @schemes http https
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Initialize logger
	baseLog, err := logger.New(cfg.Service.Environment, cfg.Service.LogLevel)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	log := logger.ForService(baseLog, handler.ManagementServiceName)
	defer func(log *zap.Logger) {
		_ = log.Sync()
	}(log)

	log.Info("Starting management service",
		zap.String("environment", cfg.Service.Environment),
		zap.String("port", cfg.Service.Port),
		zap.String("broker_driver", cfg.BrokerDriver),
		zap.String("store_driver", cfg.StoreDriver))

	if cfg.Service.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Configure Swagger host dynamically
	management.SwaggerInfo.Host = cfg.Service.Host

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize store
	repo, err := newRepository(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to create store client", zap.Error(err))
	}
	defer func() {
		if err := repo.Close(); err != nil {
			log.Error("Failed to close store client", zap.Error(err))
		}
	}()

	// A store that is down at startup must not keep the service from booting
	schemaCtx, cancelSchema := context.WithTimeout(ctx, initSchemaTimeout)
	if err := repo.InitSchema(schemaCtx); err != nil {
		log.Warn("Failed to initialize store schema", zap.Error(err))
	} else {
		log.Info("Store schema initialized")
	}
	cancelSchema()

	// Initialize broker subscriber
	subscriber, err := newSubscriber(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to create broker subscriber", zap.Error(err))
	}
	defer func() {
		if err := subscriber.Close(); err != nil {
			log.Error("Failed to close broker subscriber", zap.Error(err))
		}
	}()

	liveness := consumer.NewLiveness()
	c := consumer.NewConsumer(subscriber, repo, liveness, log)
	supervisor := consumer.NewSupervisor(c, consumer.RestartPolicy{
		Enabled:        cfg.Consumer.RestartEnabled,
		InitialBackoff: cfg.Consumer.RestartBackoffInitial,
		MaxBackoff:     cfg.Consumer.RestartBackoffMax,
		MaxAttempts:    cfg.Consumer.RestartMaxAttempts,
	}, log)

	queryService := service.NewQueryService(repo, cfg.Query.DefaultLimit, cfg.Query.MaxLimit, log)
	aggregator := health.NewAggregator(repo, liveness, cfg.Health.CheckTimeout, log)
	h := handler.NewManagementHandler(queryService, aggregator, log)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Service.Port),
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	log.Info("Consumer starting")
	supervisor.Start(gctx)

	// The consumer stopping leaves the HTTP API up, reporting degraded health
	g.Go(func() error {
		if err := supervisor.Wait(); err != nil {
			log.Error("Consumer is no longer running", zap.Error(err))
		}
		return nil
	})

	g.Go(func() error {
		log.Info("Management server starting", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("management server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down management service gracefully")

		supervisor.Stop()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down management server: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error("Management service exited with error", zap.Error(err))
	}
}

func newRepository(ctx context.Context, cfg *config.Config, log *zap.Logger) (repository.PurchaseRepository, error) {
	switch cfg.StoreDriver {
	case config.StoreClickHouse:
		client, err := clickhouse.NewClient(ctx, &cfg.ClickHouse, log)
		if err != nil {
			return nil, err
		}
		return clickhouse.NewRepository(client, log), nil
	default:
		client, err := mongo.NewClient(ctx, cfg.MongoDB, log)
		if err != nil {
			return nil, err
		}
		return mongo.NewRepository(client, log), nil
	}
}

func newSubscriber(ctx context.Context, cfg *config.Config, log *zap.Logger) (queue.Subscriber, error) {
	switch cfg.BrokerDriver {
	case config.BrokerSQS:
		client, err := sqs.NewClient(ctx, cfg.SQS, log)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return kafka.NewSubscriber(cfg.Kafka, log), nil
	}
}
