package consumer

import (
	"context"

	"github.com/BarkinBalci/purchase-event-pipeline/internal/domain"
)

// MessageParser defines the interface for parsing raw message bytes into purchase events
type MessageParser interface {
	Parse(body []byte) (*domain.PurchaseEvent, error)
}

// RecordWriter is the part of the store the consumer writes to
type RecordWriter interface {
	InsertPurchase(ctx context.Context, record *domain.PurchaseRecord) error
}

// Runner is a long running task that can be supervised
type Runner interface {
	Run(ctx context.Context) error
}
