package publisher

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/BarkinBalci/purchase-event-pipeline/internal/domain"
	"github.com/BarkinBalci/purchase-event-pipeline/internal/queue"
)

// Publisher sends purchase events to the broker topic. It never returns an
// error: failures are logged and reported as false so callers can degrade.
type Publisher struct {
	producer queue.Producer
	log      *zap.Logger
	now      func() time.Time
	marshal  func(v any) ([]byte, error)
}

// NewPublisher creates a new purchase publisher
func NewPublisher(producer queue.Producer, log *zap.Logger) *Publisher {
	return &Publisher{
		producer: producer,
		log:      log,
		now:      time.Now,
		marshal:  json.Marshal,
	}
}

// Publish serializes event and sends it keyed by userId. It reports whether
// the broker accepted the message. No retry is attempted.
func (p *Publisher) Publish(ctx context.Context, event domain.PurchaseEvent) bool {
	if event.Timestamp.IsZero() {
		event.Timestamp = p.now().UTC()
	}

	body, err := p.marshal(event)
	if err != nil {
		p.log.Error("Failed to marshal purchase event",
			zap.String("user_id", event.UserID),
			zap.Error(err))
		return false
	}

	if err := p.producer.Send(ctx, event.UserID, body); err != nil {
		p.log.Error("Failed to publish purchase event",
			zap.String("user_id", event.UserID),
			zap.String("username", event.Username),
			zap.Error(err))
		return false
	}

	p.log.Info("Purchase event published",
		zap.String("user_id", event.UserID),
		zap.Float64("price", event.Price))

	return true
}
