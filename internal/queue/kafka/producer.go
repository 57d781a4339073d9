package kafka

import (
	"context"
	"fmt"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/BarkinBalci/purchase-event-pipeline/internal/config"
)

// Writes are synchronous single messages, so the writer should not wait to fill a batch
const syncBatchTimeout = 10 * time.Millisecond

// messageWriter is the subset of *kafka.Writer used by the producer
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Producer sends purchase messages to a Kafka topic
type Producer struct {
	writer messageWriter
	topic  string
	log    *zap.Logger
}

// NewProducer creates a producer for the configured topic. The connection is
// established lazily on the first write.
func NewProducer(cfg config.Kafka, log *zap.Logger) *Producer {
	writer := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireOne,
		WriteTimeout:           cfg.WriteTimeout,
		MaxAttempts:            1,
		BatchTimeout:           syncBatchTimeout,
		AllowAutoTopicCreation: true,
	}

	log.Info("Kafka producer created",
		zap.Strings("brokers", cfg.Brokers),
		zap.String("topic", cfg.Topic))

	return &Producer{writer: writer, topic: cfg.Topic, log: log}
}

// Send writes a single message keyed by key
func (p *Producer) Send(ctx context.Context, key string, body []byte) error {
	err := p.writer.WriteMessages(ctx, kafkago.Message{
		Key:   []byte(key),
		Value: body,
	})
	if err != nil {
		return fmt.Errorf("failed to write message to kafka topic %s: %w", p.topic, err)
	}
	return nil
}

// Close flushes pending writes and closes the writer
func (p *Producer) Close() error {
	p.log.Info("Closing Kafka producer")
	return p.writer.Close()
}
