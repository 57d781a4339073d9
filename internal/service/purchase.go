package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/BarkinBalci/purchase-event-pipeline/internal/domain"
	"github.com/BarkinBalci/purchase-event-pipeline/internal/dto"
)

const statusSuccess = "success"

// PurchaseService accepts purchases on the web service
type PurchaseService struct {
	publisher EventPublisher
	fetcher   UserPurchasesFetcher
	log       *zap.Logger
}

// NewPurchaseService creates a new purchase service
func NewPurchaseService(publisher EventPublisher, fetcher UserPurchasesFetcher, log *zap.Logger) *PurchaseService {
	return &PurchaseService{
		publisher: publisher,
		fetcher:   fetcher,
		log:       log,
	}
}

// Buy publishes the purchase. A failed publish does not fail the purchase; it
// is reported through KafkaPublished.
func (s *PurchaseService) Buy(ctx context.Context, req *dto.BuyRequest) *dto.BuyResponse {
	data := dto.PurchaseData{
		Username: req.Username,
		UserID:   req.UserID,
		Price:    *req.Price,
	}

	published := s.publisher.Publish(ctx, domain.PurchaseEvent{
		Username: data.Username,
		UserID:   data.UserID,
		Price:    data.Price,
	})
	if !published {
		s.log.Warn("Purchase accepted without publishing",
			zap.String("user_id", data.UserID))
	}

	return &dto.BuyResponse{
		Status:         statusSuccess,
		KafkaPublished: published,
		Data:           data,
	}
}

// GetUserBuys returns the user's purchases from the management service. When
// that service cannot answer, an empty list with the error is returned.
func (s *PurchaseService) GetUserBuys(ctx context.Context, userID string) *dto.UserPurchasesResponse {
	resp, err := s.fetcher.GetUserPurchases(ctx, userID)
	if err != nil {
		s.log.Warn("Management service unavailable",
			zap.String("user_id", userID),
			zap.Error(err))
		return &dto.UserPurchasesResponse{
			UserID:    userID,
			Purchases: []*domain.PurchaseRecord{},
			Error:     "management service unavailable: " + err.Error(),
		}
	}

	if resp.Purchases == nil {
		resp.Purchases = []*domain.PurchaseRecord{}
	}
	return resp
}
