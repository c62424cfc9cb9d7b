package repositories

import (
	"context"

	"tokopos/internal/models"
)

// CustomerRepository defines the interface for customer data access.
type CustomerRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Customer, error)
	List(ctx context.Context, opts ListOptions) ([]models.Customer, int64, error)
	Create(ctx context.Context, customer *models.Customer) error
	Update(ctx context.Context, id uint, upd models.CustomerUpdate) (*models.Customer, error)
	AddLoyaltyPoints(ctx context.Context, id uint, points int) error
	Delete(ctx context.Context, id uint) error
}
