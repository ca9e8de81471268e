package scoring

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/phishaware/backend/internal/config"
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
		`CREATE TABLE click_events (
			id TEXT PRIMARY KEY,
			enrollment_id TEXT NOT NULL UNIQUE,
			campaign_id TEXT NOT NULL,
			employee_id TEXT NOT NULL,
			clicked_at DATETIME NOT NULL,
			elapsed_seconds INTEGER NOT NULL,
			ip_address TEXT,
			user_agent TEXT,
			device_type TEXT,
			browser_family TEXT,
			repeat_count INTEGER DEFAULT 0,
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

func createEnrollment(t *testing.T, db *gorm.DB) *models.Enrollment {
	enrollment := &models.Enrollment{
		CampaignID:     uuid.NewString(),
		EmployeeID:     uuid.NewString(),
		TrackingToken:  uuid.NewString(),
		Status:         models.EnrollmentStatusSent,
		AwarenessLevel: models.AwarenessUnknown,
	}
	require.NoError(t, db.Create(enrollment).Error)
	return enrollment
}

func createClick(t *testing.T, db *gorm.DB, enrollment *models.Enrollment, elapsed int64) {
	require.NoError(t, db.Create(&models.ClickEvent{
		EnrollmentID:   enrollment.ID,
		CampaignID:     enrollment.CampaignID,
		EmployeeID:     enrollment.EmployeeID,
		ClickedAt:      time.Now().UTC(),
		ElapsedSeconds: elapsed,
	}).Error)
}

func createQuizResult(t *testing.T, db *gorm.DB, enrollment *models.Enrollment, score float64) {
	require.NoError(t, db.Create(&models.QuizResult{
		EnrollmentID:   enrollment.ID,
		CampaignID:     enrollment.CampaignID,
		EmployeeID:     enrollment.EmployeeID,
		Category:       "malware",
		TotalQuestions: 5,
		CorrectAnswers: int(score / 20),
		Score:          score,
		Passed:         score >= 70,
		TimeTaken:      120,
		CompletedAt:    time.Now().UTC(),
	}).Error)
}

func TestElapsedSubScoreBoundaries(t *testing.T) {
	tests := []struct {
		elapsed  int64
		expected float64
	}{
		{0, 30},
		{59, 30},
		{60, 55},
		{299, 55},
		{300, 80},
		{1799, 80},
		{1800, 85},
		{3599, 85},
		{3600, 90},
		{86400, 90},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, ElapsedSubScore(tt.elapsed), "elapsed=%d", tt.elapsed)
	}
}

func TestEmailSubScoreNoClick(t *testing.T) {
	assert.Equal(t, 100.0, EmailSubScore(nil))
	assert.Equal(t, 55.0, EmailSubScore(&models.ClickEvent{ElapsedSeconds: 120}))
}

func TestAwarenessLevelBoundaries(t *testing.T) {
	engine := NewEngine(nil, config.DefaultScoring())

	assert.Equal(t, models.AwarenessHigh, engine.AwarenessLevel(100))
	assert.Equal(t, models.AwarenessHigh, engine.AwarenessLevel(80))
	assert.Equal(t, models.AwarenessMedium, engine.AwarenessLevel(79.999))
	assert.Equal(t, models.AwarenessMedium, engine.AwarenessLevel(50))
	assert.Equal(t, models.AwarenessLow, engine.AwarenessLevel(49.999))
	assert.Equal(t, models.AwarenessLow, engine.AwarenessLevel(0))
}

func TestRiskLevelInverseOfAwareness(t *testing.T) {
	assert.Equal(t, models.RiskLow, RiskLevelFor(models.AwarenessHigh))
	assert.Equal(t, models.RiskMedium, RiskLevelFor(models.AwarenessMedium))
	assert.Equal(t, models.RiskHigh, RiskLevelFor(models.AwarenessLow))
}

func TestScoreClickAndQuiz(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewEnrollmentRepository(db)
	engine := NewEngine(repo, config.DefaultScoring())
	ctx := context.Background()

	enrollment := createEnrollment(t, db)
	createClick(t, db, enrollment, 45) // fast click: email sub-score 30
	createQuizResult(t, db, enrollment, 80)

	score, err := engine.Score(ctx, enrollment.ID)
	require.NoError(t, err)

	// 0.4*80 + 0.6*30 = 50
	assert.Equal(t, 30.0, score.EmailSubScore)
	require.NotNil(t, score.QuizSubScore)
	assert.Equal(t, 80.0, *score.QuizSubScore)
	assert.InDelta(t, 50.0, score.OverallScore, 1e-9)
	assert.Equal(t, models.AwarenessMedium, score.AwarenessLevel)
	assert.Equal(t, models.RiskMedium, score.RiskLevel)
	assert.True(t, score.ClickedLink)
}

func TestScoreNoClickWithQuiz(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewEnrollmentRepository(db)
	engine := NewEngine(repo, config.DefaultScoring())

	enrollment := createEnrollment(t, db)
	createQuizResult(t, db, enrollment, 90)

	score, err := engine.Score(context.Background(), enrollment.ID)
	require.NoError(t, err)

	// 0.4*90 + 0.6*100 = 96
	assert.Equal(t, 100.0, score.EmailSubScore)
	assert.InDelta(t, 96.0, score.OverallScore, 1e-9)
	assert.Equal(t, models.AwarenessHigh, score.AwarenessLevel)
	assert.Equal(t, models.RiskLow, score.RiskLevel)
	assert.False(t, score.ClickedLink)
}

func TestScoreNoQuizKeepsSubScoreNull(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewEnrollmentRepository(db)
	engine := NewEngine(repo, config.DefaultScoring())

	enrollment := createEnrollment(t, db)
	createClick(t, db, enrollment, 500) // 300..1799s: email sub-score 80

	score, err := engine.Score(context.Background(), enrollment.ID)
	require.NoError(t, err)

	// Quiz contributes zero but the stored sub-score stays NULL
	assert.Nil(t, score.QuizSubScore)
	assert.InDelta(t, 48.0, score.OverallScore, 1e-9) // 0.4*0 + 0.6*80
	assert.Equal(t, models.AwarenessLow, score.AwarenessLevel)
	assert.Equal(t, models.RiskHigh, score.RiskLevel)
}

func TestScoreUpdatesEnrollmentAwareness(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewEnrollmentRepository(db)
	engine := NewEngine(repo, config.DefaultScoring())

	enrollment := createEnrollment(t, db)
	createQuizResult(t, db, enrollment, 100)

	_, err := engine.Score(context.Background(), enrollment.ID)
	require.NoError(t, err)

	var updated models.Enrollment
	require.NoError(t, db.First(&updated, "id = ?", enrollment.ID).Error)
	assert.Equal(t, models.AwarenessHigh, updated.AwarenessLevel)
}

func TestScoreRecomputeOverwritesSingleRow(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewEnrollmentRepository(db)
	engine := NewEngine(repo, config.DefaultScoring())
	ctx := context.Background()

	enrollment := createEnrollment(t, db)

	first, err := engine.Score(ctx, enrollment.ID)
	require.NoError(t, err)
	assert.InDelta(t, 60.0, first.OverallScore, 1e-9) // no click, no quiz

	// A click arrives and the score is recomputed
	createClick(t, db, enrollment, 10)
	second, err := engine.Score(ctx, enrollment.ID)
	require.NoError(t, err)
	assert.InDelta(t, 18.0, second.OverallScore, 1e-9) // 0.6*30

	var count int64
	require.NoError(t, db.Model(&models.RiskScore{}).Count(&count).Error)
	assert.Equal(t, int64(1), count, "recomputation overwrites, never duplicates")
	assert.Equal(t, first.ID, second.ID)
}

func TestScoreDeterministicWithFixedClock(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewEnrollmentRepository(db)
	engine := NewEngine(repo, config.DefaultScoring())

	fixed := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	engine.now = func() time.Time { return fixed }

	enrollment := createEnrollment(t, db)
	createQuizResult(t, db, enrollment, 60)

	ctx := context.Background()
	a, err := engine.Score(ctx, enrollment.ID)
	require.NoError(t, err)
	b, err := engine.Score(ctx, enrollment.ID)
	require.NoError(t, err)

	assert.Equal(t, a.OverallScore, b.OverallScore)
	assert.Equal(t, a.CalculatedAt, b.CalculatedAt)
}

func TestScoreMissingEnrollment(t *testing.T) {
	db := setupTestDB(t)
	engine := NewEngine(repository.NewEnrollmentRepository(db), config.DefaultScoring())

	_, err := engine.Score(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, ErrMissingEnrollment)
}
