package reporting

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/phishaware/backend/internal/models"
	"github.com/phishaware/backend/internal/repository"
)

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(t, err)

	for _, ddl := range []string{
		`CREATE TABLE employees (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			full_name TEXT NOT NULL,
			department TEXT,
			is_active INTEGER DEFAULT 1,
			created_at DATETIME,
			updated_at DATETIME,
			deleted_at DATETIME
		)`,
		`CREATE TABLE enrollments (
			id TEXT PRIMARY KEY,
			campaign_id TEXT NOT NULL,
			employee_id TEXT NOT NULL,
			tracking_token TEXT NOT NULL UNIQUE,
			email_sent_at DATETIME,
			clicked INTEGER DEFAULT 0,
			clicked_at DATETIME,
			status TEXT DEFAULT 'pending',
			awareness_level TEXT DEFAULT 'unknown',
			created_at DATETIME,
			updated_at DATETIME
		)`,
		`CREATE TABLE quiz_results (
			id TEXT PRIMARY KEY,
			enrollment_id TEXT NOT NULL UNIQUE,
			campaign_id TEXT NOT NULL,
			employee_id TEXT NOT NULL,
			category TEXT NOT NULL,
			total_questions INTEGER NOT NULL,
			correct_answers INTEGER NOT NULL,
			score REAL NOT NULL,
			passed INTEGER NOT NULL,
			time_taken INTEGER NOT NULL,
			answers_json TEXT,
			completed_at DATETIME NOT NULL,
			created_at DATETIME,
			updated_at DATETIME
		)`,
		`CREATE TABLE risk_scores (
			id TEXT PRIMARY KEY,
			enrollment_id TEXT NOT NULL UNIQUE,
			campaign_id TEXT NOT NULL,
			employee_id TEXT NOT NULL,
			clicked_link INTEGER DEFAULT 0,
			email_sub_score REAL NOT NULL,
			quiz_sub_score REAL,
			overall_score REAL NOT NULL,
			awareness_level TEXT NOT NULL,
			risk_level TEXT NOT NULL,
			calculated_at DATETIME NOT NULL,
			created_at DATETIME,
			updated_at DATETIME
		)`,
	} {
		require.NoError(t, db.Exec(ddl).Error)
	}

	return db
}

type fixture struct {
	department string
	sent       bool
	clicked    bool
	quizScore  float64 // <0 means no quiz
	quizPassed bool
	overall    float64 // <0 means no risk score yet
	awareness  string
}

func seedCampaign(t *testing.T, db *gorm.DB, campaignID string, rows []fixture) {
	now := time.Now().UTC()
	for i, row := range rows {
		employee := models.Employee{
			Email:      uuid.NewString() + "@example.com",
			FullName:   "Employee",
			Department: row.department,
		}
		require.NoError(t, db.Create(&employee).Error)

		enrollment := models.Enrollment{
			CampaignID:    campaignID,
			EmployeeID:    employee.ID,
			TrackingToken: uuid.NewString(),
			Clicked:       row.clicked,
		}
		if row.sent {
			enrollment.EmailSentAt = &now
		}
		require.NoError(t, db.Create(&enrollment).Error)

		if row.quizScore >= 0 {
			require.NoError(t, db.Create(&models.QuizResult{
				EnrollmentID:   enrollment.ID,
				CampaignID:     campaignID,
				EmployeeID:     employee.ID,
				Category:       "malware",
				TotalQuestions: 5,
				CorrectAnswers: i,
				Score:          row.quizScore,
				Passed:         row.quizPassed,
				TimeTaken:      60,
				CompletedAt:    now,
			}).Error)
		}

		if row.overall >= 0 {
			require.NoError(t, db.Create(&models.RiskScore{
				EnrollmentID:   enrollment.ID,
				CampaignID:     campaignID,
				EmployeeID:     employee.ID,
				ClickedLink:    row.clicked,
				EmailSubScore:  50,
				OverallScore:   row.overall,
				AwarenessLevel: row.awareness,
				RiskLevel:      riskFor(row.awareness),
				CalculatedAt:   now,
			}).Error)
		}
	}
}

func riskFor(awareness string) string {
	switch awareness {
	case models.AwarenessHigh:
		return models.RiskLow
	case models.AwarenessLow:
		return models.RiskHigh
	default:
		return models.RiskMedium
	}
}

func TestCampaignSummary(t *testing.T) {
	db := setupTestDB(t)
	aggregator := NewAggregator(repository.NewEnrollmentRepository(db))
	campaignID := uuid.NewString()

	seedCampaign(t, db, campaignID, []fixture{
		{department: "Finance", sent: true, clicked: true, quizScore: 80, quizPassed: true, overall: 50, awareness: models.AwarenessMedium},
		{department: "Finance", sent: true, clicked: false, quizScore: 90, quizPassed: true, overall: 96, awareness: models.AwarenessHigh},
		{department: "Sales", sent: true, clicked: true, quizScore: 40, quizPassed: false, overall: 34, awareness: models.AwarenessLow},
		{department: "Sales", sent: false, clicked: false, quizScore: -1, overall: -1},
	})

	summary, err := aggregator.CampaignSummary(context.Background(), campaignID)
	require.NoError(t, err)

	assert.Equal(t, 4, summary.TotalEnrolled)
	assert.Equal(t, 3, summary.EmailsSent)
	assert.Equal(t, 2, summary.Clicked)
	assert.Equal(t, 3, summary.QuizAttempted)
	assert.Equal(t, 2, summary.QuizPassed)

	// 2 of 4 enrolled clicked; 2 of 3 attempts passed
	assert.Equal(t, 50.0, summary.ClickThroughRate)
	assert.InDelta(t, 66.67, summary.QuizPassRate, 0.01)
	assert.Equal(t, 70.0, summary.AverageQuizScore)
	assert.Equal(t, 60.0, summary.AverageOverallScore)

	assert.Equal(t, 1, summary.HighAwareness)
	assert.Equal(t, 1, summary.MediumAwareness)
	assert.Equal(t, 1, summary.LowAwareness)
	assert.Equal(t, 1, summary.HighRisk)
	assert.Equal(t, 1, summary.LowRisk)
}

func TestCampaignSummaryEmptyCampaign(t *testing.T) {
	db := setupTestDB(t)
	aggregator := NewAggregator(repository.NewEnrollmentRepository(db))

	summary, err := aggregator.CampaignSummary(context.Background(), uuid.NewString())
	require.NoError(t, err)

	// Division guards: everything zero, nothing NaN, no error
	assert.Equal(t, 0, summary.TotalEnrolled)
	assert.Equal(t, 0.0, summary.ClickThroughRate)
	assert.Equal(t, 0.0, summary.QuizPassRate)
	assert.Equal(t, 0.0, summary.AverageOverallScore)
	assert.Equal(t, 0.0, summary.AverageQuizScore)
}

func TestCampaignSummaryNoQuizAttempts(t *testing.T) {
	db := setupTestDB(t)
	aggregator := NewAggregator(repository.NewEnrollmentRepository(db))
	campaignID := uuid.NewString()

	seedCampaign(t, db, campaignID, []fixture{
		{department: "Legal", sent: true, clicked: true, quizScore: -1, overall: 18, awareness: models.AwarenessLow},
	})

	summary, err := aggregator.CampaignSummary(context.Background(), campaignID)
	require.NoError(t, err)

	assert.Equal(t, 0, summary.QuizAttempted)
	assert.Equal(t, 0.0, summary.QuizPassRate)
	assert.Equal(t, 0.0, summary.AverageQuizScore)
	assert.Equal(t, 100.0, summary.ClickThroughRate)
}

func TestDepartmentBreakdownSortedAndFiltered(t *testing.T) {
	db := setupTestDB(t)
	aggregator := NewAggregator(repository.NewEnrollmentRepository(db))
	campaignID := uuid.NewString()

	seedCampaign(t, db, campaignID, []fixture{
		{department: "Sales", sent: true, clicked: true, quizScore: -1, overall: 18, awareness: models.AwarenessLow},
		{department: "Finance", sent: true, clicked: false, quizScore: 100, quizPassed: true, overall: 100, awareness: models.AwarenessHigh},
		{department: "", sent: true, clicked: false, quizScore: -1, overall: 60, awareness: models.AwarenessMedium},
	})

	breakdown, err := aggregator.DepartmentBreakdown(context.Background(), campaignID)
	require.NoError(t, err)
	require.Len(t, breakdown, 3)

	// Sorted by department, empty department grouped as Unknown
	assert.Equal(t, "Finance", breakdown[0].Department)
	assert.Equal(t, "Sales", breakdown[1].Department)
	assert.Equal(t, "Unknown", breakdown[2].Department)

	assert.Equal(t, 1, breakdown[0].Summary.TotalEnrolled)
	assert.Equal(t, 0.0, breakdown[0].Summary.ClickThroughRate)
	assert.Equal(t, 100.0, breakdown[1].Summary.ClickThroughRate)
}

func TestDepartmentSummarySingleDepartment(t *testing.T) {
	db := setupTestDB(t)
	aggregator := NewAggregator(repository.NewEnrollmentRepository(db))
	campaignID := uuid.NewString()

	seedCampaign(t, db, campaignID, []fixture{
		{department: "Engineering", sent: true, clicked: true, quizScore: 60, quizPassed: false, overall: 42, awareness: models.AwarenessLow},
		{department: "Engineering", sent: true, clicked: false, quizScore: -1, overall: 60, awareness: models.AwarenessMedium},
		{department: "Marketing", sent: true, clicked: true, quizScore: 100, quizPassed: true, overall: 58, awareness: models.AwarenessMedium},
	})

	summary, err := aggregator.DepartmentSummary(context.Background(), campaignID, "Engineering")
	require.NoError(t, err)

	assert.Equal(t, 2, summary.TotalEnrolled)
	assert.Equal(t, 1, summary.Clicked)
	assert.Equal(t, 1, summary.QuizAttempted)
	assert.Equal(t, 51.0, summary.AverageOverallScore) // (42+60)/2

	// Unknown department yields a zero summary, not an error
	empty, err := aggregator.DepartmentSummary(context.Background(), campaignID, "Warehouse")
	require.NoError(t, err)
	assert.Equal(t, 0, empty.TotalEnrolled)
}
