package models

import (
	"time"

	"gorm.io/gorm"
)

// Employee represents a training participant
type Employee struct {
	ID         string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Email      string `gorm:"uniqueIndex;not null" json:"email"`
	FullName   string `gorm:"not null" json:"full_name"`
	Department string `gorm:"index" json:"department"`
	IsActive   bool   `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name
func (Employee) TableName() string {
	return "employees"
}
