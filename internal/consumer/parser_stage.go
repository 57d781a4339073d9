package consumer

import (
	"context"

	"go.uber.org/zap"

	"github.com/BarkinBalci/purchase-event-pipeline/internal/queue"
)

// ParserStage turns raw messages into envelopes
type ParserStage struct {
	receiver *Receiver
	parser   MessageParser
	log      *zap.Logger
}

// NewParserStage creates a new parser stage
func NewParserStage(receiver *Receiver, parser MessageParser, log *zap.Logger) *ParserStage {
	return &ParserStage{
		receiver: receiver,
		parser:   parser,
		log:      log,
	}
}

// Parse returns the envelope for msg, or nil if the message is malformed.
// Malformed messages are committed so they are skipped, not redelivered.
func (p *ParserStage) Parse(ctx context.Context, msg *queue.Message) *Envelope {
	event, err := p.parser.Parse(msg.Body)
	if err != nil {
		p.log.Warn("Failed to parse message, skipping",
			zap.String("message_id", msg.ID),
			zap.Error(err))
		if err := p.receiver.Commit(ctx, msg); err == nil {
			p.log.Info("Skipped malformed message", zap.String("message_id", msg.ID))
		}
		return nil
	}

	ack := func(ctx context.Context) error {
		return p.receiver.Commit(ctx, msg)
	}

	return NewEnvelope(event, msg, ack)
}
