package domain

import (
	"errors"
	"time"
)

var (
	ErrMissingUsername = errors.New("username is required")
	ErrMissingUserID   = errors.New("userId is required")
	ErrNegativePrice   = errors.New("price must be non-negative")
)

// PurchaseEvent is the message published by the web service and consumed by
// the management service.
type PurchaseEvent struct {
	Username  string    `json:"username"`
	UserID    string    `json:"userId"`
	Price     float64   `json:"price"`
	Timestamp time.Time `json:"timestamp"`
}

// Validate checks the fields every event must carry.
func (e *PurchaseEvent) Validate() error {
	if e.Username == "" {
		return ErrMissingUsername
	}
	if e.UserID == "" {
		return ErrMissingUserID
	}
	if e.Price < 0 {
		return ErrNegativePrice
	}
	return nil
}

// PurchaseRecord is the persisted form of a PurchaseEvent. Records are written
// once by the consumer and never updated.
type PurchaseRecord struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	UserID    string    `json:"userId"`
	Price     float64   `json:"price"`
	Timestamp time.Time `json:"timestamp"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewPurchaseRecord builds the record for an event received at now. A missing
// event timestamp falls back to now.
func NewPurchaseRecord(event *PurchaseEvent, now time.Time) *PurchaseRecord {
	ts := event.Timestamp
	if ts.IsZero() {
		ts = now
	}

	return &PurchaseRecord{
		Username:  event.Username,
		UserID:    event.UserID,
		Price:     event.Price,
		Timestamp: ts.UTC(),
		CreatedAt: now.UTC(),
	}
}
