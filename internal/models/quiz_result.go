package models

import (
	"time"
)

// QuizResult stores one graded quiz attempt for an enrollment. Rows are
// immutable once written; resubmission policy belongs to the quiz endpoint,
// which treats the first stored result as authoritative.
type QuizResult struct {
	ID string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`

	EnrollmentID string     `gorm:"not null;uniqueIndex" json:"enrollment_id"`
	Enrollment   Enrollment `gorm:"foreignKey:EnrollmentID" json:"enrollment,omitempty"`

	CampaignID string `gorm:"not null;index" json:"campaign_id"`
	EmployeeID string `gorm:"not null;index" json:"employee_id"`

	Category       string  `gorm:"not null" json:"category"`
	TotalQuestions int     `gorm:"not null" json:"total_questions"`
	CorrectAnswers int     `gorm:"not null" json:"correct_answers"`
	Score          float64 `gorm:"not null" json:"score"` // percentage, 0-100
	Passed         bool    `gorm:"not null" json:"passed"`
	TimeTaken      int     `gorm:"not null" json:"time_taken"` // seconds

	AnswersJSON string `gorm:"type:text" json:"-"` // per-question breakdown for review

	CompletedAt time.Time `gorm:"not null" json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name
func (QuizResult) TableName() string {
	return "quiz_results"
}
