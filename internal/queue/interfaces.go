package queue

import (
	"context"
	"time"
)

// Message is a raw broker message handed to the consumer loop
type Message struct {
	ID        string
	Key       string
	Body      []byte
	Timestamp time.Time

	// handle is the transport specific value needed to commit the message
	handle any
}

// NewMessage creates a message carrying a transport specific commit handle
func NewMessage(id, key string, body []byte, ts time.Time, handle any) *Message {
	return &Message{
		ID:        id,
		Key:       key,
		Body:      body,
		Timestamp: ts,
		handle:    handle,
	}
}

// Handle returns the transport specific commit handle
func (m *Message) Handle() any {
	return m.handle
}

// Producer defines the interface for sending raw messages to the purchase topic
type Producer interface {
	Send(ctx context.Context, key string, body []byte) error
	Close() error
}

// Subscriber defines the interface for consuming messages from the purchase topic
type Subscriber interface {
	// Subscribe verifies the broker is reachable. It must succeed before Receive is called.
	Subscribe(ctx context.Context) error

	// Receive blocks until the next message is available or ctx is done
	Receive(ctx context.Context) (*Message, error)

	// Commit marks a message as handled so it is not delivered again
	Commit(ctx context.Context, msg *Message) error

	Close() error
}
