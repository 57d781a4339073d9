package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPurchaseEvent_Validate(t *testing.T) {
	tests := []struct {
		name  string
		event PurchaseEvent
		want  error
	}{
		{"valid", PurchaseEvent{Username: "testuser", UserID: "user123", Price: 99.99}, nil},
		{"free purchase", PurchaseEvent{Username: "testuser", UserID: "user123", Price: 0}, nil},
		{"missing username", PurchaseEvent{UserID: "user123", Price: 1}, ErrMissingUsername},
		{"missing user id", PurchaseEvent{Username: "testuser", Price: 1}, ErrMissingUserID},
		{"negative price", PurchaseEvent{Username: "testuser", UserID: "user123", Price: -1}, ErrNegativePrice},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.event.Validate(), tt.want)
		})
	}
}

func TestNewPurchaseRecord_KeepsEventTimestamp(t *testing.T) {
	published := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	now := published.Add(time.Minute)

	record := NewPurchaseRecord(&PurchaseEvent{Username: "testuser", UserID: "user123", Price: 99.99, Timestamp: published}, now)

	assert.Equal(t, published, record.Timestamp)
	assert.Equal(t, now, record.CreatedAt)
	assert.Equal(t, "user123", record.UserID)
	assert.Empty(t, record.ID)
}

func TestNewPurchaseRecord_DefaultsTimestampToNow(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	record := NewPurchaseRecord(&PurchaseEvent{Username: "testuser", UserID: "user123", Price: 5}, now)

	assert.Equal(t, now, record.Timestamp)
	assert.Equal(t, now, record.CreatedAt)
}
