package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/BarkinBalci/purchase-event-pipeline/internal/domain"
)

// QueryService reads purchase records for the management service
type QueryService struct {
	reader       PurchaseReader
	defaultLimit int
	maxLimit     int
	log          *zap.Logger
}

// NewQueryService creates a new query service. defaultLimit bounds
// GetAllPurchases when no limit is given; maxLimit caps any given limit.
func NewQueryService(reader PurchaseReader, defaultLimit, maxLimit int, log *zap.Logger) *QueryService {
	return &QueryService{
		reader:       reader,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
		log:          log,
	}
}

// GetUserPurchases returns every purchase of userID, newest first. No match is
// an empty list, not an error.
func (s *QueryService) GetUserPurchases(ctx context.Context, userID string) ([]*domain.PurchaseRecord, error) {
	records, err := s.reader.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get purchases for user %s: %w", userID, err)
	}

	if records == nil {
		records = []*domain.PurchaseRecord{}
	}

	s.log.Debug("User purchases retrieved",
		zap.String("user_id", userID),
		zap.Int("count", len(records)))

	return records, nil
}

// GetAllPurchases returns the most recent purchases and how many were returned
func (s *QueryService) GetAllPurchases(ctx context.Context, limit *int) ([]*domain.PurchaseRecord, int, error) {
	n := s.effectiveLimit(limit)

	records, err := s.reader.FindAll(ctx, n)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get purchases: %w", err)
	}

	if records == nil {
		records = []*domain.PurchaseRecord{}
	}
	// the store already applied the limit; this guards readers that don't
	if len(records) > n {
		records = records[:n]
	}

	s.log.Debug("Purchases retrieved",
		zap.Int("limit", n),
		zap.Int("count", len(records)))

	return records, len(records), nil
}

func (s *QueryService) effectiveLimit(limit *int) int {
	if limit == nil || *limit <= 0 {
		return s.defaultLimit
	}
	if *limit > s.maxLimit {
		s.log.Warn("Limit exceeds maximum, clamping",
			zap.Int("requested", *limit),
			zap.Int("max", s.maxLimit))
		return s.maxLimit
	}
	return *limit
}
