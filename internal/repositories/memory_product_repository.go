package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"tokopos/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MemoryProductRepository is an in-memory implementation of ProductRepository.
type MemoryProductRepository struct {
	store *MemoryStore
}

// GetByID returns a non-deleted product by its ID.
func (r *MemoryProductRepository) GetByID(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	err := r.store.read(func(t *memoryTables) error {
		p, err := liveProduct(t, id)
		if err != nil {
			return err
		}
		product = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// GetForUpdate returns the product as seen by the current transaction. The
// store admits one transaction at a time, so the read is already exclusive.
func (r *MemoryProductRepository) GetForUpdate(ctx context.Context, id uint) (*models.Product, error) {
	return r.GetByID(ctx, id)
}

// List returns a page of products whose name, barcode or category contains the search term.
func (r *MemoryProductRepository) List(ctx context.Context, opts ListOptions) ([]models.Product, int64, error) {
	term := strings.ToLower(strings.TrimSpace(opts.Search))
	var matched []models.Product
	_ = r.store.read(func(t *memoryTables) error {
		for _, id := range sortedIDs(t.products) {
			p := t.products[id]
			if p.DeletedAt.Valid {
				continue
			}
			if term != "" && !containsAny(term, p.Name, p.Barcode, p.Category) {
				continue
			}
			matched = append(matched, p)
		}
		return nil
	})
	return page(matched, opts.Offset, opts.Limit), int64(len(matched)), nil
}

// Create adds a new product. Barcodes stay unique across deleted rows too.
func (r *MemoryProductRepository) Create(ctx context.Context, product *models.Product) error {
	return r.store.write(ctx, func(t *memoryTables) error {
		if barcodeTaken(t, product.Barcode, 0) {
			return fmt.Errorf("product with barcode %s: %w", product.Barcode, models.ErrAlreadyExists)
		}
		t.nextProduct++
		now := time.Now()
		product.ID = t.nextProduct
		product.CreatedAt = now
		product.UpdatedAt = now
		t.products[product.ID] = *product
		return nil
	})
}

// Update modifies the set fields of an existing product.
func (r *MemoryProductRepository) Update(ctx context.Context, id uint, upd models.ProductUpdate) (*models.Product, error) {
	var updated models.Product
	err := r.store.write(ctx, func(t *memoryTables) error {
		p, err := liveProduct(t, id)
		if err != nil {
			return err
		}
		if upd.Barcode != nil && barcodeTaken(t, *upd.Barcode, id) {
			return fmt.Errorf("product with barcode %s: %w", *upd.Barcode, models.ErrAlreadyExists)
		}
		if !upd.Empty() {
			upd.Apply(&p)
			p.UpdatedAt = time.Now()
			t.products[id] = p
		}
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// UpdateStock overwrites the stock quantity of a product.
func (r *MemoryProductRepository) UpdateStock(ctx context.Context, id uint, stockQty decimal.Decimal) error {
	return r.store.write(ctx, func(t *memoryTables) error {
		p, err := liveProduct(t, id)
		if err != nil {
			return err
		}
		p.StockQty = stockQty
		p.UpdatedAt = time.Now()
		t.products[id] = p
		return nil
	})
}

// Delete marks a product as deleted.
func (r *MemoryProductRepository) Delete(ctx context.Context, id uint) error {
	return r.store.write(ctx, func(t *memoryTables) error {
		p, err := liveProduct(t, id)
		if err != nil {
			return err
		}
		p.DeletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
		t.products[id] = p
		return nil
	})
}

func liveProduct(t *memoryTables, id uint) (models.Product, error) {
	p, ok := t.products[id]
	if !ok || p.DeletedAt.Valid {
		return models.Product{}, fmt.Errorf("product with ID %d: %w", id, models.ErrNotFound)
	}
	return p, nil
}

func barcodeTaken(t *memoryTables, barcode string, except uint) bool {
	for id, p := range t.products {
		if id != except && p.Barcode == barcode {
			return true
		}
	}
	return false
}

func containsAny(term string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}
