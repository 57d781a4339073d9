package consumer

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/BarkinBalci/purchase-event-pipeline/internal/queue"
)

// Consumer moves purchase events from the broker topic into the store, one
// message at a time in delivery order
type Consumer struct {
	receiver *Receiver
	parser   *ParserStage
	writer   *Writer
	liveness *Liveness
	log      *zap.Logger
}

// NewConsumer wires the receive, parse and write stages
func NewConsumer(subscriber queue.Subscriber, store RecordWriter, liveness *Liveness, log *zap.Logger) *Consumer {
	receiver := NewReceiver(subscriber, log)

	return &Consumer{
		receiver: receiver,
		parser:   NewParserStage(receiver, NewJSONPurchaseParser(), log),
		writer:   NewWriter(store, log),
		liveness: liveness,
		log:      log,
	}
}

// Liveness returns the state cell updated by Run
func (c *Consumer) Liveness() *Liveness {
	return c.liveness
}

// Run subscribes and then consumes until ctx is cancelled or the subscription
// fails. It returns nil on cancellation. The liveness cell is consuming only
// after a successful subscribe and while Run is inside its receive cycle.
func (c *Consumer) Run(ctx context.Context) error {
	defer c.liveness.set(StateStopped)

	if err := c.receiver.Subscribe(ctx); err != nil {
		if errors.Is(err, errShutdown) {
			c.log.Info("Consumer stopped before subscribing")
			return nil
		}
		return fmt.Errorf("consumer subscribe failed: %w", err)
	}

	c.liveness.set(StateConsuming)
	c.log.Info("Consumer loop started")

	for {
		msg, err := c.receiver.Receive(ctx)
		if errors.Is(err, errShutdown) {
			c.log.Info("Consumer loop shutting down")
			return nil
		}
		if err != nil {
			c.log.Error("Consumer loop stopped", zap.Error(err))
			return fmt.Errorf("consumer receive cycle failed: %w", err)
		}

		c.handle(ctx, msg)
	}
}

// handle processes a single message. Any failure, including a panic, is
// logged and the message is dropped.
func (c *Consumer) handle(ctx context.Context, msg *queue.Message) {
	defer func() {
		if r := recover(); r != nil {
			c.log.Error("Recovered from panic while handling message",
				zap.String("message_id", msg.ID),
				zap.Any("panic", r))
			_ = c.receiver.Commit(ctx, msg)
		}
	}()

	env := c.parser.Parse(ctx, msg)
	if env == nil {
		return
	}

	c.writer.Write(ctx, env)
}
