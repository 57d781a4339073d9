package consumer

import (
	"context"

	"github.com/BarkinBalci/purchase-event-pipeline/internal/domain"
	"github.com/BarkinBalci/purchase-event-pipeline/internal/queue"
)

// Envelope wraps a parsed purchase event with the message it came from and
// its acknowledgment callback
type Envelope struct {
	Event   *domain.PurchaseEvent
	Message *queue.Message
	ack     func(context.Context) error
}

// NewEnvelope creates a new message envelope
func NewEnvelope(event *domain.PurchaseEvent, msg *queue.Message, ack func(context.Context) error) *Envelope {
	return &Envelope{
		Event:   event,
		Message: msg,
		ack:     ack,
	}
}

// Ack marks the message as handled
func (e *Envelope) Ack(ctx context.Context) error {
	if e.ack != nil {
		return e.ack(ctx)
	}
	return nil
}
