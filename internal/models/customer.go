package models

import "gorm.io/gorm"

// Customer represents a store customer. Sales reference customers by id.
type Customer struct {
	gorm.Model
	FullName      string `json:"full_name" gorm:"type:varchar(150);not null" validate:"required,max=150"`
	Email         string `json:"email" gorm:"type:varchar(255)" validate:"omitempty,email"`
	Phone         string `json:"phone" gorm:"type:varchar(32)" validate:"omitempty,max=32"`
	LoyaltyPoints int    `json:"loyalty_points" gorm:"not null;default:0" validate:"gte=0"`
}

// CustomerUpdate lists the mutable customer fields. Nil fields are left untouched.
type CustomerUpdate struct {
	FullName      *string `json:"full_name" validate:"omitempty,min=1,max=150"`
	Email         *string `json:"email" validate:"omitempty,email"`
	Phone         *string `json:"phone" validate:"omitempty,min=1,max=32"`
	LoyaltyPoints *int    `json:"loyalty_points" validate:"omitempty,gte=0"`
}

// Empty reports whether the update carries no field at all.
func (u CustomerUpdate) Empty() bool {
	return u.FullName == nil && u.Email == nil && u.Phone == nil && u.LoyaltyPoints == nil
}

// Apply copies the set fields onto c.
func (u CustomerUpdate) Apply(c *Customer) {
	if u.FullName != nil {
		c.FullName = *u.FullName
	}
	if u.Email != nil {
		c.Email = *u.Email
	}
	if u.Phone != nil {
		c.Phone = *u.Phone
	}
	if u.LoyaltyPoints != nil {
		c.LoyaltyPoints = *u.LoyaltyPoints
	}
}

// Columns returns the column/value pairs of the set fields.
func (u CustomerUpdate) Columns() map[string]interface{} {
	cols := make(map[string]interface{})
	if u.FullName != nil {
		cols["full_name"] = *u.FullName
	}
	if u.Email != nil {
		cols["email"] = *u.Email
	}
	if u.Phone != nil {
		cols["phone"] = *u.Phone
	}
	if u.LoyaltyPoints != nil {
		cols["loyalty_points"] = *u.LoyaltyPoints
	}
	return cols
}
