package services

import (
	"context"
	"errors"
	"fmt"

	"tokopos/internal/models"
	"tokopos/internal/repositories"

	lru "github.com/hashicorp/golang-lru"
	"go.uber.org/zap"
)

const seenEventsSize = 4096

// LoyaltyService awards loyalty points for committed sales.
type LoyaltyService struct {
	customers repositories.CustomerRepository
	seen      *lru.Cache
	logger    *zap.Logger
}

// NewLoyaltyService creates a new LoyaltyService.
func NewLoyaltyService(customers repositories.CustomerRepository, logger *zap.Logger) (*LoyaltyService, error) {
	seen, err := lru.New(seenEventsSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create event cache: %w", err)
	}
	return &LoyaltyService{
		customers: customers,
		seen:      seen,
		logger:    logger,
	}, nil
}

// PointsFor is one point per whole currency unit of the sale total.
func PointsFor(event models.SaleCreatedEvent) int {
	if !event.TotalAmount.IsPositive() {
		return 0
	}
	return int(event.TotalAmount.Floor().IntPart())
}

// HandleSaleCreated credits the customer of a sale. Anonymous sales and
// redelivered events are ignored.
func (s *LoyaltyService) HandleSaleCreated(ctx context.Context, event models.SaleCreatedEvent) error {
	if event.CustomerID == nil {
		return nil
	}
	points := PointsFor(event)
	if points == 0 {
		return nil
	}
	if event.EventID != "" && s.seen.Contains(event.EventID) {
		s.logger.Debug("duplicate sale event ignored", zap.String("event_id", event.EventID))
		return nil
	}

	if err := s.customers.AddLoyaltyPoints(ctx, *event.CustomerID, points); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.logger.Warn("loyalty points skipped for missing customer",
				zap.Uint("customer_id", *event.CustomerID), zap.Uint("sale_id", event.SaleID))
			return nil
		}
		return fmt.Errorf("failed to award loyalty points for sale %d: %w", event.SaleID, err)
	}
	if event.EventID != "" {
		s.seen.Add(event.EventID, struct{}{})
	}
	s.logger.Info("loyalty points awarded",
		zap.Uint("customer_id", *event.CustomerID), zap.Uint("sale_id", event.SaleID), zap.Int("points", points))
	return nil
}
