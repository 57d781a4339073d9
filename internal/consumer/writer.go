package consumer

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/BarkinBalci/purchase-event-pipeline/internal/domain"
)

// Writer persists envelopes as purchase records
type Writer struct {
	store RecordWriter
	log   *zap.Logger
	now   func() time.Time
}

// NewWriter creates a new writer
func NewWriter(store RecordWriter, log *zap.Logger) *Writer {
	return &Writer{
		store: store,
		log:   log,
		now:   time.Now,
	}
}

// Write stores the envelope's event and acks it. A failed insert drops the
// event: it is logged and still acked, so it is not redelivered.
func (w *Writer) Write(ctx context.Context, env *Envelope) {
	record := domain.NewPurchaseRecord(env.Event, w.now())

	if err := w.store.InsertPurchase(ctx, record); err != nil {
		w.log.Error("Failed to store purchase, dropping event",
			zap.String("message_id", env.Message.ID),
			zap.String("user_id", record.UserID),
			zap.Error(err))
	} else {
		w.log.Info("Stored purchase",
			zap.String("id", record.ID),
			zap.String("user_id", record.UserID),
			zap.Float64("price", record.Price))
	}

	if err := env.Ack(ctx); err != nil {
		w.log.Error("Failed to ack envelope", zap.Error(err))
	}
}
