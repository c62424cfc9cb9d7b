package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"tokopos/internal/models"

	"gorm.io/gorm"
)

// MemoryCustomerRepository is an in-memory implementation of CustomerRepository.
type MemoryCustomerRepository struct {
	store *MemoryStore
}

func (r *MemoryCustomerRepository) GetByID(ctx context.Context, id uint) (*models.Customer, error) {
	var customer models.Customer
	err := r.store.read(func(t *memoryTables) error {
		c, err := liveCustomer(t, id)
		customer = c
		return err
	})
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *MemoryCustomerRepository) List(ctx context.Context, opts ListOptions) ([]models.Customer, int64, error) {
	term := strings.ToLower(strings.TrimSpace(opts.Search))
	var matched []models.Customer
	_ = r.store.read(func(t *memoryTables) error {
		for _, id := range sortedIDs(t.customers) {
			c := t.customers[id]
			if c.DeletedAt.Valid {
				continue
			}
			if term != "" && !containsAny(term, c.FullName, c.Email, c.Phone) {
				continue
			}
			matched = append(matched, c)
		}
		return nil
	})
	return page(matched, opts.Offset, opts.Limit), int64(len(matched)), nil
}

func (r *MemoryCustomerRepository) Create(ctx context.Context, customer *models.Customer) error {
	return r.store.write(ctx, func(t *memoryTables) error {
		t.nextCustomer++
		now := time.Now()
		customer.ID = t.nextCustomer
		customer.CreatedAt = now
		customer.UpdatedAt = now
		t.customers[customer.ID] = *customer
		return nil
	})
}

func (r *MemoryCustomerRepository) Update(ctx context.Context, id uint, upd models.CustomerUpdate) (*models.Customer, error) {
	var updated models.Customer
	err := r.store.write(ctx, func(t *memoryTables) error {
		c, err := liveCustomer(t, id)
		if err != nil {
			return err
		}
		if !upd.Empty() {
			upd.Apply(&c)
			c.UpdatedAt = time.Now()
			t.customers[id] = c
		}
		updated = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *MemoryCustomerRepository) AddLoyaltyPoints(ctx context.Context, id uint, points int) error {
	return r.store.write(ctx, func(t *memoryTables) error {
		c, err := liveCustomer(t, id)
		if err != nil {
			return err
		}
		c.LoyaltyPoints += points
		c.UpdatedAt = time.Now()
		t.customers[id] = c
		return nil
	})
}

func (r *MemoryCustomerRepository) Delete(ctx context.Context, id uint) error {
	return r.store.write(ctx, func(t *memoryTables) error {
		c, err := liveCustomer(t, id)
		if err != nil {
			return err
		}
		c.DeletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
		t.customers[id] = c
		return nil
	})
}

func liveCustomer(t *memoryTables, id uint) (models.Customer, error) {
	c, ok := t.customers[id]
	if !ok || c.DeletedAt.Valid {
		return models.Customer{}, fmt.Errorf("customer with ID %d: %w", id, models.ErrNotFound)
	}
	return c, nil
}
