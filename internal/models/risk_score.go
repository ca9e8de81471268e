package models

import (
	"time"
)

// Risk levels, the categorical inverse of awareness levels
const (
	RiskLow    = "low"
	RiskMedium = "medium"
	RiskHigh   = "high"
)

// RiskScore is the scoring engine's output for one enrollment. There is
// exactly one row per enrollment; recomputation overwrites it in place.
// QuizSubScore stays NULL when no quiz was taken so reports can tell
// "not attempted" apart from "scored zero", even though the weighted
// formula treats both as zero.
type RiskScore struct {
	ID string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`

	EnrollmentID string     `gorm:"not null;uniqueIndex" json:"enrollment_id"`
	Enrollment   Enrollment `gorm:"foreignKey:EnrollmentID" json:"enrollment,omitempty"`

	CampaignID string `gorm:"not null;index" json:"campaign_id"`
	EmployeeID string `gorm:"not null;index" json:"employee_id"`

	ClickedLink    bool     `gorm:"default:false" json:"clicked_link"`
	EmailSubScore  float64  `gorm:"not null" json:"email_sub_score"` // 0-100
	QuizSubScore   *float64 `json:"quiz_sub_score"`                  // 0-100, nil when no quiz taken
	OverallScore   float64  `gorm:"not null" json:"overall_score"`   // 0-100
	AwarenessLevel string   `gorm:"not null" json:"awareness_level"`
	RiskLevel      string   `gorm:"not null" json:"risk_level"`

	CalculatedAt time.Time `gorm:"not null" json:"calculated_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name
func (RiskScore) TableName() string {
	return "risk_scores"
}
