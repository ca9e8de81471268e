package models

import (
	"time"

	"gorm.io/gorm"
)

// Campaign statuses
const (
	CampaignStatusDraft     = "draft"
	CampaignStatusScheduled = "scheduled"
	CampaignStatusSent      = "sent"
	CampaignStatusCompleted = "completed"
)

// Campaign represents one phishing simulation campaign. The email template
// and sender identity are copied from a phishing template at creation time
// so later template edits never change a campaign that already went out.
type Campaign struct {
	ID          string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Name        string `gorm:"not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`

	SenderName    string `gorm:"not null" json:"sender_name"`
	SenderEmail   string `gorm:"not null" json:"sender_email"`
	SubjectLine   string `gorm:"not null" json:"subject_line"`
	PhishingType  string `gorm:"not null;index" json:"phishing_type"` // "credential_harvesting", "malware", "urgent_action"
	EmailTemplate string `gorm:"type:text;not null" json:"-"`

	CreatedByID string `gorm:"not null;index" json:"created_by_id"`
	CreatedBy   Admin  `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`

	Status      string     `gorm:"default:draft" json:"status"`
	ScheduledAt *time.Time `json:"scheduled_at"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name
func (Campaign) TableName() string {
	return "campaigns"
}
