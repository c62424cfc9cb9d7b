package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale is a finalized point-of-sale transaction. It owns its details.
type Sale struct {
	ID             uint            `json:"id" gorm:"primaryKey"`
	SaleDate       time.Time       `json:"sale_date" gorm:"index;not null"`
	CustomerID     *uint           `json:"customer_id,omitempty" gorm:"index"`
	DiscountAmount decimal.Decimal `json:"discount_amount" gorm:"type:decimal(18,2);not null;default:0"`
	VATAmount      decimal.Decimal `json:"vat_amount" gorm:"column:vat_amount;type:decimal(18,2);not null;default:0"`
	TotalAmount    decimal.Decimal `json:"total_amount" gorm:"type:decimal(18,2);not null;default:0"`
	PaidAmount     decimal.Decimal `json:"paid_amount" gorm:"type:decimal(18,2);not null;default:0"`
	DueAmount      decimal.Decimal `json:"due_amount" gorm:"type:decimal(18,2);not null;default:0"`
	Details        []SaleDetail    `json:"details" gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// SaleDetail is one line of a sale. It is written once, inside the sale transaction.
type SaleDetail struct {
	ID        uint            `json:"id" gorm:"primaryKey"`
	SaleID    uint            `json:"sale_id" gorm:"index;not null"`
	ProductID uint            `json:"product_id" gorm:"index;not null"`
	Quantity  decimal.Decimal `json:"quantity" gorm:"type:decimal(18,3);not null"`
	Price     decimal.Decimal `json:"price" gorm:"type:decimal(18,2);not null"`
}

// LineTotal is quantity times unit price.
func (d SaleDetail) LineTotal() decimal.Decimal {
	return d.Quantity.Mul(d.Price)
}

// SaleTotals is the set of sale fields rewritten once pricing has run.
type SaleTotals struct {
	DiscountAmount decimal.Decimal
	VATAmount      decimal.Decimal
	TotalAmount    decimal.Decimal
	DueAmount      decimal.Decimal
}

// Apply copies the totals onto s.
func (t SaleTotals) Apply(s *Sale) {
	s.DiscountAmount = t.DiscountAmount
	s.VATAmount = t.VATAmount
	s.TotalAmount = t.TotalAmount
	s.DueAmount = t.DueAmount
}

// SalesSummary aggregates the sales recorded in a date range.
type SalesSummary struct {
	TotalSales       decimal.Decimal `json:"total_sales" db:"total_sales"`
	TotalRevenue     decimal.Decimal `json:"total_revenue" db:"total_revenue"`
	TransactionCount int64           `json:"transaction_count" db:"transaction_count"`
}

// SaleCreatedEvent is published once a sale has been committed.
type SaleCreatedEvent struct {
	EventID     string          `json:"event_id"`
	SaleID      uint            `json:"sale_id"`
	CustomerID  *uint           `json:"customer_id,omitempty"`
	SaleDate    time.Time       `json:"sale_date"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	PaidAmount  decimal.Decimal `json:"paid_amount"`
	DueAmount   decimal.Decimal `json:"due_amount"`
	OccurredAt  time.Time       `json:"occurred_at"`
}

// SaleLine is one requested line of a new sale.
type SaleLine struct {
	ProductID uint            `json:"product_id" validate:"gt=0"`
	Quantity  decimal.Decimal `json:"quantity" validate:"gt=0"`
	Price     decimal.Decimal `json:"price" validate:"gt=0"`
}

// CreateSaleRequest is the input of the sale pipeline.
type CreateSaleRequest struct {
	SaleDate   time.Time       `json:"sale_date"`
	CustomerID *uint           `json:"customer_id,omitempty" validate:"omitempty,gt=0"`
	PaidAmount decimal.Decimal `json:"paid_amount" validate:"gte=0"`
	Lines      []SaleLine      `json:"lines" validate:"required,min=1,dive"`
}
