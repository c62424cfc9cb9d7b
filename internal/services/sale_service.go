package services

import (
	"context"
	"fmt"
	"time"

	"tokopos/internal/admission"
	"tokopos/internal/models"
	"tokopos/internal/pricing"
	"tokopos/internal/repositories"
	"tokopos/internal/validation"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const publishTimeout = 5 * time.Second

// DefaultSaleTxTimeout bounds a sale transaction when none is configured.
const DefaultSaleTxTimeout = 10 * time.Second

// SaleEventPublisher delivers sale events to other services.
type SaleEventPublisher interface {
	PublishSaleCreated(ctx context.Context, event models.SaleCreatedEvent) error
}

// SaleService runs the sale transaction pipeline.
type SaleService struct {
	store      repositories.Store
	gate       *admission.Gate
	calculator *pricing.Calculator
	publisher  SaleEventPublisher
	logger     *zap.Logger
	txTimeout  time.Duration
}

// NewSaleService creates a new SaleService. publisher may be nil, in which
// case no events are sent.
func NewSaleService(
	store repositories.Store,
	gate *admission.Gate,
	calculator *pricing.Calculator,
	publisher SaleEventPublisher,
	logger *zap.Logger,
	txTimeout time.Duration,
) *SaleService {
	if txTimeout <= 0 {
		txTimeout = DefaultSaleTxTimeout
	}
	return &SaleService{
		store:      store,
		gate:       gate,
		calculator: calculator,
		publisher:  publisher,
		logger:     logger,
		txTimeout:  txTimeout,
	}
}

// CreateSale records a sale, deducts the stock of every line and prices the
// result. Either all of it is persisted or none of it is.
func (s *SaleService) CreateSale(ctx context.Context, req models.CreateSaleRequest) (*models.Sale, error) {
	if !s.gate.TryAcquire() {
		s.logger.Warn("sale rejected by admission gate",
			zap.Int("capacity", s.gate.Capacity()),
			zap.Int("in_flight", s.gate.InFlight()))
		return nil, models.ErrTooManyRequests
	}
	defer s.gate.Release()

	if err := validateSaleRequest(req); err != nil {
		return nil, err
	}

	txCtx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	var sale *models.Sale
	err := s.store.WithinTransaction(txCtx, func(tx repositories.Store) error {
		recorded, err := s.recordSale(txCtx, tx, req)
		if err != nil {
			return err
		}
		sale = recorded
		return nil
	})
	if err != nil {
		s.logger.Info("sale failed", zap.Int("lines", len(req.Lines)), zap.Error(err))
		return nil, err
	}

	s.logger.Info("sale created",
		zap.Uint("sale_id", sale.ID),
		zap.String("total", sale.TotalAmount.String()),
		zap.String("due", sale.DueAmount.String()))
	s.publishSaleCreated(ctx, sale)
	return sale, nil
}

func validateSaleRequest(req models.CreateSaleRequest) error {
	if req.SaleDate.IsZero() {
		return fmt.Errorf("%w: sale_date is required", models.ErrValidation)
	}
	return validation.Struct(req)
}

// recordSale is the body of the sale transaction. It may run more than once
// when the store retries a conflicting transaction.
func (s *SaleService) recordSale(ctx context.Context, tx repositories.Store, req models.CreateSaleRequest) (*models.Sale, error) {
	if req.CustomerID != nil {
		if _, err := tx.Customers().GetByID(ctx, *req.CustomerID); err != nil {
			return nil, err
		}
	}

	sale := &models.Sale{
		SaleDate:       req.SaleDate,
		CustomerID:     req.CustomerID,
		PaidAmount:     req.PaidAmount,
		DiscountAmount: decimal.Zero,
		VATAmount:      decimal.Zero,
		TotalAmount:    decimal.Zero,
		DueAmount:      decimal.Zero,
	}
	if err := tx.Sales().Create(ctx, sale); err != nil {
		return nil, err
	}

	ledger := NewStockLedger(tx.Products())
	subtotal := decimal.Zero
	for _, line := range req.Lines {
		if _, err := ledger.TryDeduct(ctx, line.ProductID, line.Quantity); err != nil {
			return nil, err
		}
		detail := &models.SaleDetail{
			SaleID:    sale.ID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Price:     line.Price,
		}
		if err := tx.Sales().AddDetail(ctx, detail); err != nil {
			return nil, err
		}
		sale.Details = append(sale.Details, *detail)
		subtotal = subtotal.Add(detail.LineTotal())
	}

	breakdown := s.calculator.Calculate(subtotal)
	totals := models.SaleTotals{
		DiscountAmount: breakdown.Discount,
		VATAmount:      breakdown.VAT,
		TotalAmount:    breakdown.Total,
		DueAmount:      breakdown.Total.Sub(req.PaidAmount),
	}
	if err := tx.Sales().UpdateTotals(ctx, sale.ID, totals); err != nil {
		return nil, err
	}
	totals.Apply(sale)
	return sale, nil
}

// publishSaleCreated is best effort; the sale is already committed.
func (s *SaleService) publishSaleCreated(ctx context.Context, sale *models.Sale) {
	if s.publisher == nil {
		return
	}
	event := models.SaleCreatedEvent{
		EventID:     uuid.NewString(),
		SaleID:      sale.ID,
		CustomerID:  sale.CustomerID,
		SaleDate:    sale.SaleDate,
		TotalAmount: sale.TotalAmount,
		PaidAmount:  sale.PaidAmount,
		DueAmount:   sale.DueAmount,
		OccurredAt:  time.Now().UTC(),
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := s.publisher.PublishSaleCreated(pubCtx, event); err != nil {
		s.logger.Warn("failed to publish sale created event",
			zap.Uint("sale_id", sale.ID), zap.String("event_id", event.EventID), zap.Error(err))
	}
}

// GetSale retrieves a sale with its details.
func (s *SaleService) GetSale(ctx context.Context, id uint) (*models.Sale, error) {
	return s.store.Sales().GetByID(ctx, id)
}

// ListSales retrieves a page of sales within an optional date range.
func (s *SaleService) ListSales(ctx context.Context, q repositories.SaleQuery) ([]models.Sale, int64, error) {
	if !q.From.IsZero() && !q.To.IsZero() && q.From.After(q.To) {
		return nil, 0, fmt.Errorf("%w: from must not be after to", models.ErrValidation)
	}
	return s.store.Sales().List(ctx, q)
}
