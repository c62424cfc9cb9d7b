package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product represents a product in the store.
type Product struct {
	gorm.Model
	Name     string          `json:"name" gorm:"type:varchar(100);not null" validate:"required,min=1,max=100"`
	Barcode  string          `json:"barcode" gorm:"uniqueIndex;type:varchar(64);not null" validate:"required,max=64"`
	Price    decimal.Decimal `json:"price" gorm:"type:decimal(18,2);not null" validate:"gt=0"`
	StockQty decimal.Decimal `json:"stock_qty" gorm:"type:decimal(18,3);not null;default:0" validate:"gte=0"`
	Category string          `json:"category" gorm:"type:varchar(100);not null" validate:"required,max=100"`
	IsActive bool            `json:"is_active" gorm:"not null"`
}

// ProductUpdate lists the mutable product fields. Nil fields are left untouched.
type ProductUpdate struct {
	Name     *string          `json:"name" validate:"omitempty,min=1,max=100"`
	Barcode  *string          `json:"barcode" validate:"omitempty,max=64"`
	Price    *decimal.Decimal `json:"price" validate:"omitempty,gt=0"`
	StockQty *decimal.Decimal `json:"stock_qty" validate:"omitempty,gte=0"`
	Category *string          `json:"category" validate:"omitempty,max=100"`
	IsActive *bool            `json:"is_active"`
}

// Empty reports whether the update carries no field at all.
func (u ProductUpdate) Empty() bool {
	return u.Name == nil && u.Barcode == nil && u.Price == nil &&
		u.StockQty == nil && u.Category == nil && u.IsActive == nil
}

// Apply copies the set fields onto p.
func (u ProductUpdate) Apply(p *Product) {
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Barcode != nil {
		p.Barcode = *u.Barcode
	}
	if u.Price != nil {
		p.Price = *u.Price
	}
	if u.StockQty != nil {
		p.StockQty = *u.StockQty
	}
	if u.Category != nil {
		p.Category = *u.Category
	}
	if u.IsActive != nil {
		p.IsActive = *u.IsActive
	}
}

// Columns returns the column/value pairs of the set fields.
func (u ProductUpdate) Columns() map[string]interface{} {
	cols := make(map[string]interface{})
	if u.Name != nil {
		cols["name"] = *u.Name
	}
	if u.Barcode != nil {
		cols["barcode"] = *u.Barcode
	}
	if u.Price != nil {
		cols["price"] = *u.Price
	}
	if u.StockQty != nil {
		cols["stock_qty"] = *u.StockQty
	}
	if u.Category != nil {
		cols["category"] = *u.Category
	}
	if u.IsActive != nil {
		cols["is_active"] = *u.IsActive
	}
	return cols
}
