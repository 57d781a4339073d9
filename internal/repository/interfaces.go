package repository

import (
	"context"

	"github.com/BarkinBalci/purchase-event-pipeline/internal/domain"
)

// PurchaseRepository defines the storage operations for purchase records.
// Reads are ordered by createdAt descending; equal createdAt values are ordered
// by id descending, which follows insertion order for every implementation.
type PurchaseRepository interface {
	// InsertPurchase stores a new record and sets its store assigned ID
	InsertPurchase(ctx context.Context, record *domain.PurchaseRecord) error

	// FindByUser returns every record whose userId equals userID
	FindByUser(ctx context.Context, userID string) ([]*domain.PurchaseRecord, error)

	// FindAll returns at most limit records
	FindAll(ctx context.Context, limit int) ([]*domain.PurchaseRecord, error)

	// InitSchema creates tables or indexes if they don't exist
	InitSchema(ctx context.Context) error

	// Ping checks if the store is reachable
	Ping(ctx context.Context) error

	// Close releases the store connection
	Close() error
}
