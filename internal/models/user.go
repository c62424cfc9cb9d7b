package models

import "gorm.io/gorm"

// User represents an operator allowed to call the API.
type User struct {
	gorm.Model
	Username     string `json:"username" gorm:"uniqueIndex;type:varchar(100)" validate:"required,min=3,max=100"`
	Email        string `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Password     string `json:"password,omitempty" gorm:"-" validate:"required,min=6"`
	PasswordHash string `json:"-" gorm:"type:varchar(255);not null"`
}
