package models

import (
	"time"
)

// Device types derived from the client string
const (
	DeviceDesktop = "desktop"
	DeviceMobile  = "mobile"
	DeviceTablet  = "tablet"
	DeviceUnknown = "unknown"
)

// ClickEvent is the authoritative first-click record for an enrollment.
// The unique index on EnrollmentID is what makes the first-click capture
// idempotent under concurrent requests: the loser of the insert race is
// reinterpreted as a repeat click. Repeat clicks only bump RepeatCount.
type ClickEvent struct {
	ID string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`

	EnrollmentID string     `gorm:"not null;uniqueIndex" json:"enrollment_id"`
	Enrollment   Enrollment `gorm:"foreignKey:EnrollmentID" json:"enrollment,omitempty"`

	CampaignID string `gorm:"not null;index:idx_click_events_campaign_employee" json:"campaign_id"`
	EmployeeID string `gorm:"not null;index:idx_click_events_campaign_employee" json:"employee_id"`

	ClickedAt      time.Time `gorm:"not null" json:"clicked_at"`
	ElapsedSeconds int64     `gorm:"not null" json:"elapsed_seconds"` // since email send, clamped >= 0

	IPAddress     string `json:"ip_address"`
	UserAgent     string `gorm:"type:text" json:"user_agent"`
	DeviceType    string `json:"device_type"`
	BrowserFamily string `json:"browser_family"`

	RepeatCount int `gorm:"default:0" json:"repeat_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name
func (ClickEvent) TableName() string {
	return "click_events"
}
