package repositories

import (
	"context"
	"fmt"
	"sort"
	"time"

	"tokopos/internal/models"

	"github.com/shopspring/decimal"
)

// MemorySaleRepository is an in-memory implementation of SaleRepository.
// Sale rows and detail rows live in separate tables joined by sale id.
type MemorySaleRepository struct {
	store *MemoryStore
}

func (r *MemorySaleRepository) Create(ctx context.Context, sale *models.Sale) error {
	return r.store.write(ctx, func(t *memoryTables) error {
		t.nextSale++
		now := time.Now()
		sale.ID = t.nextSale
		sale.SaleDate = sale.SaleDate.UTC()
		sale.CreatedAt = now
		sale.UpdatedAt = now
		row := *sale
		row.Details = nil
		t.sales[sale.ID] = row
		return nil
	})
}

func (r *MemorySaleRepository) AddDetail(ctx context.Context, detail *models.SaleDetail) error {
	return r.store.write(ctx, func(t *memoryTables) error {
		if _, ok := t.sales[detail.SaleID]; !ok {
			return fmt.Errorf("sale with ID %d: %w", detail.SaleID, models.ErrNotFound)
		}
		t.nextDetail++
		detail.ID = t.nextDetail
		t.details[detail.ID] = *detail
		return nil
	})
}

func (r *MemorySaleRepository) UpdateTotals(ctx context.Context, id uint, totals models.SaleTotals) error {
	return r.store.write(ctx, func(t *memoryTables) error {
		sale, ok := t.sales[id]
		if !ok {
			return fmt.Errorf("sale with ID %d: %w", id, models.ErrNotFound)
		}
		totals.Apply(&sale)
		sale.UpdatedAt = time.Now()
		t.sales[id] = sale
		return nil
	})
}

func (r *MemorySaleRepository) GetByID(ctx context.Context, id uint) (*models.Sale, error) {
	var sale models.Sale
	err := r.store.read(func(t *memoryTables) error {
		s, ok := t.sales[id]
		if !ok {
			return fmt.Errorf("sale with ID %d: %w", id, models.ErrNotFound)
		}
		s.Details = detailsOf(t, id)
		sale = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

func (r *MemorySaleRepository) List(ctx context.Context, q SaleQuery) ([]models.Sale, int64, error) {
	var matched []models.Sale
	_ = r.store.read(func(t *memoryTables) error {
		for _, id := range sortedIDs(t.sales) {
			s := t.sales[id]
			if !q.From.IsZero() && s.SaleDate.Before(q.From) {
				continue
			}
			if !q.To.IsZero() && s.SaleDate.After(q.To) {
				continue
			}
			s.Details = detailsOf(t, id)
			matched = append(matched, s)
		}
		return nil
	})
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].SaleDate.Before(matched[j].SaleDate) })
	return page(matched, q.Offset, q.Limit), int64(len(matched)), nil
}

func (r *MemorySaleRepository) Summarize(ctx context.Context, start, end time.Time) (models.SalesSummary, error) {
	summary := models.SalesSummary{TotalSales: decimal.Zero, TotalRevenue: decimal.Zero}
	_ = r.store.read(func(t *memoryTables) error {
		for _, s := range t.sales {
			if s.SaleDate.Before(start) || s.SaleDate.After(end) {
				continue
			}
			summary.TotalSales = summary.TotalSales.Add(s.TotalAmount)
			summary.TotalRevenue = summary.TotalRevenue.Add(s.PaidAmount)
			summary.TransactionCount++
		}
		return nil
	})
	return summary, nil
}

func detailsOf(t *memoryTables, saleID uint) []models.SaleDetail {
	details := []models.SaleDetail{}
	for _, id := range sortedIDs(t.details) {
		if d := t.details[id]; d.SaleID == saleID {
			details = append(details, d)
		}
	}
	return details
}
