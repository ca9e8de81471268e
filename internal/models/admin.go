package models

import (
	"time"
)

// Admin represents a platform administrator account
type Admin struct {
	ID           string  `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Username     string  `gorm:"uniqueIndex;not null" json:"username"`
	Email        string  `gorm:"uniqueIndex;not null" json:"email"`
	FullName     string  `json:"full_name"`
	PasswordHash *string `gorm:"type:text" json:"-"`
	IsActive     bool    `gorm:"default:true" json:"is_active"`

	LastLoginAt *time.Time `json:"last_login_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name
func (Admin) TableName() string {
	return "admins"
}
