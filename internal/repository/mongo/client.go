package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/BarkinBalci/purchase-event-pipeline/internal/config"
)

const disconnectTimeout = 5 * time.Second

// Client wraps the MongoDB connection shared by the whole process
type Client struct {
	client *mongo.Client
	config config.MongoDB
	log    *zap.Logger
}

// NewClient connects to MongoDB. The driver dials lazily, so a store that is
// down at startup does not prevent the service from booting; it shows up as a
// failed ping in the health check instead.
func NewClient(ctx context.Context, cfg config.MongoDB, log *zap.Logger) (*Client, error) {
	log.Info("Connecting to MongoDB",
		zap.String("database", cfg.Database),
		zap.String("collection", cfg.Collection))

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		log.Error("Failed to connect to MongoDB", zap.Error(err))
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	c := &Client{client: client, config: cfg, log: log}
	if err := c.Ping(ctx); err != nil {
		log.Warn("MongoDB is not reachable yet", zap.Error(err))
	} else {
		log.Info("MongoDB connection established successfully")
	}

	return c, nil
}

// Collection returns the purchases collection handle
func (c *Client) Collection() *mongo.Collection {
	return c.client.Database(c.config.Database).Collection(c.config.Collection)
}

// Ping issues the ping admin command
func (c *Client) Ping(ctx context.Context) error {
	return ping(ctx, c.client)
}

func ping(ctx context.Context, client *mongo.Client) error {
	return client.Database("admin").RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err()
}

func disconnect(client *mongo.Client, log *zap.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), disconnectTimeout)
	defer cancel()

	log.Info("Closing MongoDB connection")
	if err := client.Disconnect(ctx); err != nil {
		log.Error("Error closing MongoDB connection", zap.Error(err))
		return err
	}
	log.Info("MongoDB connection closed successfully")
	return nil
}
