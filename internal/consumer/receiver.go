package consumer

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/BarkinBalci/purchase-event-pipeline/internal/queue"
)

// errShutdown is returned by Receive when the context was cancelled
var errShutdown = errors.New("receiver shutting down")

// Receiver handles receiving messages from the subscribed topic
type Receiver struct {
	subscriber queue.Subscriber
	log        *zap.Logger
}

// NewReceiver creates a new receiver
func NewReceiver(subscriber queue.Subscriber, log *zap.Logger) *Receiver {
	return &Receiver{
		subscriber: subscriber,
		log:        log,
	}
}

// Subscribe prepares the subscription. It returns errShutdown once ctx is done.
func (r *Receiver) Subscribe(ctx context.Context) error {
	if err := r.subscriber.Subscribe(ctx); err != nil {
		if ctx.Err() != nil {
			return errShutdown
		}
		r.log.Error("Failed to subscribe", zap.Error(err))
		return err
	}
	return nil
}

// Receive blocks for the next message. It returns errShutdown once ctx is
// done, and any other error only when the subscription is broken.
func (r *Receiver) Receive(ctx context.Context) (*queue.Message, error) {
	msg, err := r.subscriber.Receive(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, errShutdown
		}
		r.log.Error("Error receiving message", zap.Error(err))
		return nil, err
	}

	r.log.Debug("Received message", zap.String("message_id", msg.ID))
	return msg, nil
}

// Commit commits msg, logging failures
func (r *Receiver) Commit(ctx context.Context, msg *queue.Message) error {
	if err := r.subscriber.Commit(ctx, msg); err != nil {
		r.log.Error("Failed to commit message",
			zap.String("message_id", msg.ID),
			zap.Error(err))
		return err
	}
	return nil
}
