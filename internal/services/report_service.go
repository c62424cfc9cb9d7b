package services

import (
	"context"
	"fmt"
	"time"

	"tokopos/internal/models"
	"tokopos/internal/repositories"
)

// ReportService aggregates recorded sales.
type ReportService struct {
	sales repositories.SaleRepository
}

// NewReportService creates a new ReportService.
func NewReportService(sales repositories.SaleRepository) *ReportService {
	return &ReportService{sales: sales}
}

// GetSummary totals the sales whose sale date lies in [start, end], both ends
// included. A range without sales yields a zero summary.
func (s *ReportService) GetSummary(ctx context.Context, start, end time.Time) (models.SalesSummary, error) {
	if start.IsZero() || end.IsZero() {
		return models.SalesSummary{}, fmt.Errorf("%w: start and end dates are required", models.ErrValidation)
	}
	if start.After(end) {
		return models.SalesSummary{}, fmt.Errorf("%w: start date cannot be later than end date", models.ErrValidation)
	}
	return s.sales.Summarize(ctx, start, end)
}
