package kafka

import (
	"context"
	"fmt"
	"strconv"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/BarkinBalci/purchase-event-pipeline/internal/config"
	"github.com/BarkinBalci/purchase-event-pipeline/internal/queue"
)

// messageReader is the subset of *kafka.Reader used by the subscriber
type messageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// metadataConn is the subset of *kafka.Conn used to check the cluster on subscribe
type metadataConn interface {
	ReadPartitions(topics ...string) ([]kafkago.Partition, error)
	Close() error
}

type dialFunc func(ctx context.Context, address string) (metadataConn, error)

const subscribeTimeout = 10 * time.Second

// Subscriber reads purchase messages from a Kafka topic as part of a consumer group
type Subscriber struct {
	reader  messageReader
	brokers []string
	topic   string
	dial    dialFunc
	log     *zap.Logger
}

func dialBroker(ctx context.Context, address string) (metadataConn, error) {
	conn, err := kafkago.DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// NewSubscriber joins the configured consumer group
func NewSubscriber(cfg config.Kafka, log *zap.Logger) *Subscriber {
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:  cfg.Brokers,
		GroupID:  cfg.GroupID,
		Topic:    cfg.Topic,
		MinBytes: 1,
		MaxBytes: 10e6,
	})

	log.Info("Kafka subscriber created",
		zap.Strings("brokers", cfg.Brokers),
		zap.String("topic", cfg.Topic),
		zap.String("group_id", cfg.GroupID))

	return &Subscriber{
		reader:  reader,
		brokers: cfg.Brokers,
		topic:   cfg.Topic,
		dial:    dialBroker,
		log:     log,
	}
}

// Subscribe dials the brokers until one answers a metadata request. The reader
// itself connects lazily and retries forever, so this is the only point where
// an unreachable cluster surfaces as an error.
func (s *Subscriber) Subscribe(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, subscribeTimeout)
	defer cancel()

	var lastErr error
	for _, broker := range s.brokers {
		conn, err := s.dial(ctx, broker)
		if err != nil {
			lastErr = err
			continue
		}

		partitions, err := conn.ReadPartitions()
		if closeErr := conn.Close(); closeErr != nil {
			s.log.Warn("Failed to close kafka metadata connection", zap.Error(closeErr))
		}
		if err != nil {
			lastErr = err
			continue
		}

		// the topic may still be auto-created on the first write
		found := false
		for _, p := range partitions {
			if p.Topic == s.topic {
				found = true
				break
			}
		}
		s.log.Info("Subscribed to kafka",
			zap.String("broker", broker),
			zap.String("topic", s.topic),
			zap.Bool("topic_exists", found))
		return nil
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("no brokers configured")
	}
	return fmt.Errorf("failed to reach kafka brokers for topic %s: %w", s.topic, lastErr)
}

// Receive fetches the next message without committing it
func (s *Subscriber) Receive(ctx context.Context) (*queue.Message, error) {
	m, err := s.reader.FetchMessage(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch kafka message: %w", err)
	}

	id := m.Topic + "/" + strconv.Itoa(m.Partition) + "/" + strconv.FormatInt(m.Offset, 10)
	return queue.NewMessage(id, string(m.Key), m.Value, m.Time, m), nil
}

// Commit commits the offset of msg for the consumer group
func (s *Subscriber) Commit(ctx context.Context, msg *queue.Message) error {
	m, ok := msg.Handle().(kafkago.Message)
	if !ok {
		return fmt.Errorf("message %s was not received from kafka", msg.ID)
	}
	if err := s.reader.CommitMessages(ctx, m); err != nil {
		return fmt.Errorf("failed to commit kafka message %s: %w", msg.ID, err)
	}
	return nil
}

// Close leaves the consumer group
func (s *Subscriber) Close() error {
	s.log.Info("Closing Kafka subscriber")
	return s.reader.Close()
}
