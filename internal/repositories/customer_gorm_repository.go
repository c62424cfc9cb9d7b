package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tokopos/internal/models"

	"gorm.io/gorm"
)

// GORMCustomerRepository is a GORM implementation of CustomerRepository.
type GORMCustomerRepository struct {
	db *gorm.DB
}

// NewGORMCustomerRepository creates a new instance of GORMCustomerRepository.
func NewGORMCustomerRepository(db *gorm.DB) *GORMCustomerRepository {
	return &GORMCustomerRepository{
		db: db,
	}
}

// GetByID retrieves a non-deleted customer by ID.
func (r *GORMCustomerRepository) GetByID(ctx context.Context, id uint) (*models.Customer, error) {
	var customer models.Customer
	if err := r.db.WithContext(ctx).First(&customer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("customer with ID %d: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get customer by ID %d: %w", id, err)
	}
	return &customer, nil
}

// List retrieves a page of customers matching the search term on name, email or phone.
func (r *GORMCustomerRepository) List(ctx context.Context, opts ListOptions) ([]models.Customer, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Customer{})
	if term := strings.ToLower(strings.TrimSpace(opts.Search)); term != "" {
		like := "%" + term + "%"
		query = query.Where("LOWER(full_name) LIKE ? OR LOWER(email) LIKE ? OR phone LIKE ?", like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count customers: %w", err)
	}

	customers := []models.Customer{}
	if err := paginate(query, opts.Offset, opts.Limit).Order("id").Find(&customers).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list customers: %w", err)
	}
	return customers, total, nil
}

// Create creates a new customer.
func (r *GORMCustomerRepository) Create(ctx context.Context, customer *models.Customer) error {
	if err := r.db.WithContext(ctx).Create(customer).Error; err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}
	return nil
}

// Update writes only the fields set in upd.
func (r *GORMCustomerRepository) Update(ctx context.Context, id uint, upd models.CustomerUpdate) (*models.Customer, error) {
	if upd.Empty() {
		return r.GetByID(ctx, id)
	}
	res := r.db.WithContext(ctx).Model(&models.Customer{}).Where("id = ?", id).Updates(upd.Columns())
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update customer: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("customer with ID %d: %w", id, models.ErrNotFound)
	}
	return r.GetByID(ctx, id)
}

// AddLoyaltyPoints increments the loyalty balance in place.
func (r *GORMCustomerRepository) AddLoyaltyPoints(ctx context.Context, id uint, points int) error {
	res := r.db.WithContext(ctx).Model(&models.Customer{}).Where("id = ?", id).
		UpdateColumn("loyalty_points", gorm.Expr("loyalty_points + ?", points))
	if res.Error != nil {
		return fmt.Errorf("failed to add loyalty points to customer %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("customer with ID %d: %w", id, models.ErrNotFound)
	}
	return nil
}

// Delete soft-deletes a customer.
func (r *GORMCustomerRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Customer{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete customer: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("customer with ID %d: %w", id, models.ErrNotFound)
	}
	return nil
}
