package models

import (
	"time"
)

// Enrollment statuses
const (
	EnrollmentStatusPending   = "pending"
	EnrollmentStatusSent      = "sent"
	EnrollmentStatusClicked   = "clicked"
	EnrollmentStatusCompleted = "completed"
)

// Awareness levels, from most to least prepared
const (
	AwarenessHigh    = "high"
	AwarenessMedium  = "medium"
	AwarenessLow     = "low"
	AwarenessUnknown = "unknown"
)

// Enrollment links one employee to one campaign. The tracking token is
// generated once at creation and never changes; it is the only identifier
// exposed in phishing links, so it must not be derivable from the employee.
type Enrollment struct {
	ID string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`

	CampaignID string   `gorm:"not null;uniqueIndex:idx_enrollments_campaign_employee" json:"campaign_id"`
	Campaign   Campaign `gorm:"foreignKey:CampaignID" json:"campaign,omitempty"`

	EmployeeID string   `gorm:"not null;uniqueIndex:idx_enrollments_campaign_employee" json:"employee_id"`
	Employee   Employee `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`

	TrackingToken string `gorm:"uniqueIndex;not null" json:"-"`

	EmailSentAt *time.Time `json:"email_sent_at"`
	Clicked     bool       `gorm:"default:false" json:"clicked"`
	ClickedAt   *time.Time `json:"clicked_at"`

	Status         string `gorm:"default:pending" json:"status"`
	AwarenessLevel string `gorm:"default:unknown" json:"awareness_level"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name
func (Enrollment) TableName() string {
	return "enrollments"
}
