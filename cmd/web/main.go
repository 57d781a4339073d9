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

	"github.com/BarkinBalci/purchase-event-pipeline/docs/web"
	"github.com/BarkinBalci/purchase-event-pipeline/internal/client/management"
	"github.com/BarkinBalci/purchase-event-pipeline/internal/config"
	"github.com/BarkinBalci/purchase-event-pipeline/internal/handler"
	"github.com/BarkinBalci/purchase-event-pipeline/internal/logger"
	"github.com/BarkinBalci/purchase-event-pipeline/internal/publisher"
	"github.com/BarkinBalci/purchase-event-pipeline/internal/queue"
	"github.com/BarkinBalci/purchase-event-pipeline/internal/queue/kafka"
	"github.com/BarkinBalci/purchase-event-pipeline/internal/queue/sqs"
	"github.com/BarkinBalci/purchase-event-pipeline/internal/service"
)

const shutdownTimeout = 10 * time.Second

// @title Customer Web Server API
// @version 1.0
// @description Accepts purchases and proxies purchase history
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
	log := logger.ForService(baseLog, handler.WebServiceName)
	defer func(log *zap.Logger) {
		_ = log.Sync()
	}(log)

	log.Info("Starting web service",
		zap.String("environment", cfg.Service.Environment),
		zap.String("port", cfg.Service.Port),
		zap.String("broker_driver", cfg.BrokerDriver),
		zap.String("management_api", cfg.ManagementAPI.URL))

	if cfg.Service.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Configure Swagger host dynamically
	web.SwaggerInfo.Host = cfg.Service.Host

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize broker producer
	producer, err := newProducer(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to create broker producer", zap.Error(err))
	}
	defer func() {
		if err := producer.Close(); err != nil {
			log.Error("Failed to close broker producer", zap.Error(err))
		}
	}()

	purchaseService := service.NewPurchaseService(
		publisher.NewPublisher(producer, log),
		management.NewClient(cfg.ManagementAPI, log),
		log,
	)
	h := handler.NewWebHandler(purchaseService, log)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Service.Port),
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("Web server starting", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("web server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down web service gracefully")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down web server: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error("Web service exited with error", zap.Error(err))
	}
}

func newProducer(ctx context.Context, cfg *config.Config, log *zap.Logger) (queue.Producer, error) {
	switch cfg.BrokerDriver {
	case config.BrokerSQS:
		client, err := sqs.NewClient(ctx, cfg.SQS, log)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return kafka.NewProducer(cfg.Kafka, log), nil
	}
}
