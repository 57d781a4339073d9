package service

import (
	"context"

	"github.com/BarkinBalci/purchase-event-pipeline/internal/domain"
	"github.com/BarkinBalci/purchase-event-pipeline/internal/dto"
)

// PurchaseServicer defines the operations of the web service
type PurchaseServicer interface {
	Buy(ctx context.Context, req *dto.BuyRequest) *dto.BuyResponse
	GetUserBuys(ctx context.Context, userID string) *dto.UserPurchasesResponse
}

// QueryServicer defines the read operations of the management service
type QueryServicer interface {
	GetUserPurchases(ctx context.Context, userID string) ([]*domain.PurchaseRecord, error)
	GetAllPurchases(ctx context.Context, limit *int) ([]*domain.PurchaseRecord, int, error)
}

// EventPublisher publishes purchase events and reports whether it succeeded
type EventPublisher interface {
	Publish(ctx context.Context, event domain.PurchaseEvent) bool
}

// UserPurchasesFetcher fetches one user's purchases from the management service
type UserPurchasesFetcher interface {
	GetUserPurchases(ctx context.Context, userID string) (*dto.UserPurchasesResponse, error)
}

// PurchaseReader is the read side of the purchase store
type PurchaseReader interface {
	FindByUser(ctx context.Context, userID string) ([]*domain.PurchaseRecord, error)
	FindAll(ctx context.Context, limit int) ([]*domain.PurchaseRecord, error)
}
