package models

import (
	"time"
)

// AuditLog records admin and system actions for compliance review
type AuditLog struct {
	ID           string  `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Action       string  `gorm:"not null" json:"action"`
	ResourceType string  `gorm:"not null" json:"resource_type"` // "campaign", "employee", "quiz", ...
	ResourceID   string  `json:"resource_id"`
	AdminID      *string `gorm:"index" json:"admin_id"`
	Details      string  `gorm:"type:text" json:"details"`
	IPAddress    string  `json:"ip_address"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// TableName specifies the table name
func (AuditLog) TableName() string {
	return "audit_logs"
}
