package tracking

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

	// Create tables manually with SQLite-compatible syntax
	// (AutoMigrate relies on PostgreSQL-specific defaults)
	err = db.Exec(`
		CREATE TABLE enrollments (
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
		)
	`).Error
	require.NoError(t, err)

	err = db.Exec(`
		CREATE TABLE click_events (
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
		)
	`).Error
	require.NoError(t, err)

	return db
}

// createEnrollment inserts an enrollment whose email went out at sentAt
func createEnrollment(t *testing.T, db *gorm.DB, sentAt time.Time) *models.Enrollment {
	enrollment := &models.Enrollment{
		CampaignID:     uuid.NewString(),
		EmployeeID:     uuid.NewString(),
		TrackingToken:  uuid.NewString(),
		EmailSentAt:    &sentAt,
		Status:         models.EnrollmentStatusSent,
		AwarenessLevel: models.AwarenessUnknown,
	}
	require.NoError(t, db.Create(enrollment).Error)
	return enrollment
}

func TestRecordClickFirstClick(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewEnrollmentRepository(db)
	recorder := NewRecorder(repo)
	ctx := context.Background()

	sentAt := time.Now().UTC().Add(-10 * time.Minute)
	enrollment := createEnrollment(t, db, sentAt)

	clickedAt := sentAt.Add(90 * time.Second)
	ua := "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0) AppleWebKit/605.1.15 Mobile/15E148 Safari/604.1"

	result, err := recorder.RecordClick(ctx, enrollment.TrackingToken, clickedAt, "203.0.113.9", ua)
	require.NoError(t, err)

	assert.Equal(t, OutcomeFirstClick, result.Outcome)
	assert.Equal(t, int64(90), result.Event.ElapsedSeconds)
	assert.Equal(t, models.DeviceMobile, result.Event.DeviceType)
	assert.Equal(t, BrowserSafari, result.Event.BrowserFamily)
	assert.Equal(t, 0, result.Event.RepeatCount)

	// Enrollment transitions to clicked
	var updated models.Enrollment
	require.NoError(t, db.First(&updated, "id = ?", enrollment.ID).Error)
	assert.True(t, updated.Clicked)
	assert.Equal(t, models.EnrollmentStatusClicked, updated.Status)
	require.NotNil(t, updated.ClickedAt)
}

func TestRecordClickRepeatPreservesPrimary(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewEnrollmentRepository(db)
	recorder := NewRecorder(repo)
	ctx := context.Background()

	sentAt := time.Now().UTC().Add(-1 * time.Hour)
	enrollment := createEnrollment(t, db, sentAt)

	first, err := recorder.RecordClick(ctx, enrollment.TrackingToken, sentAt.Add(45*time.Second), "203.0.113.9", "chrome")
	require.NoError(t, err)
	require.Equal(t, OutcomeFirstClick, first.Outcome)

	// Three more clicks, later and from a different device
	for i := 1; i <= 3; i++ {
		repeat, err := recorder.RecordClick(ctx, enrollment.TrackingToken, sentAt.Add(time.Duration(i)*time.Hour), "198.51.100.20", "firefox")
		require.NoError(t, err)
		assert.Equal(t, OutcomeRepeatClick, repeat.Outcome)
	}

	var events []models.ClickEvent
	require.NoError(t, db.Find(&events).Error)
	require.Len(t, events, 1, "only one click event row per enrollment")

	// Primary record untouched except the repeat counter
	assert.Equal(t, int64(45), events[0].ElapsedSeconds)
	assert.Equal(t, "203.0.113.9", events[0].IPAddress)
	assert.Equal(t, 3, events[0].RepeatCount)
}

func TestRecordClickUnknownToken(t *testing.T) {
	db := setupTestDB(t)
	recorder := NewRecorder(repository.NewEnrollmentRepository(db))

	_, err := recorder.RecordClick(context.Background(), "no-such-token", time.Now().UTC(), "203.0.113.9", "")
	assert.ErrorIs(t, err, ErrUnknownToken)
}

func TestRecordClickClampsNegativeElapsed(t *testing.T) {
	db := setupTestDB(t)
	recorder := NewRecorder(repository.NewEnrollmentRepository(db))
	ctx := context.Background()

	// Clock skew: click observed before the recorded send time
	sentAt := time.Now().UTC()
	enrollment := createEnrollment(t, db, sentAt)

	result, err := recorder.RecordClick(ctx, enrollment.TrackingToken, sentAt.Add(-30*time.Second), "203.0.113.9", "")
	require.NoError(t, err)
	assert.Equal(t, int64(0), result.Event.ElapsedSeconds)
}

func TestRecordClickFallsBackToEnrollmentTime(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewEnrollmentRepository(db)
	recorder := NewRecorder(repo)
	ctx := context.Background()

	// Enrollment without a recorded send time
	enrollment := &models.Enrollment{
		CampaignID:     uuid.NewString(),
		EmployeeID:     uuid.NewString(),
		TrackingToken:  uuid.NewString(),
		Status:         models.EnrollmentStatusPending,
		AwarenessLevel: models.AwarenessUnknown,
	}
	require.NoError(t, db.Create(enrollment).Error)

	var stored models.Enrollment
	require.NoError(t, db.First(&stored, "id = ?", enrollment.ID).Error)

	result, err := recorder.RecordClick(ctx, enrollment.TrackingToken, stored.CreatedAt.Add(120*time.Second), "203.0.113.9", "")
	require.NoError(t, err)
	assert.Equal(t, int64(120), result.Event.ElapsedSeconds)
}

func TestIssueTokenUnique(t *testing.T) {
	db := setupTestDB(t)
	issuer := NewTokenIssuer(repository.NewEnrollmentRepository(db))
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		token, err := issuer.IssueToken(ctx)
		require.NoError(t, err)
		require.NotEmpty(t, token)
		assert.False(t, seen[token], "token issued twice: %s", token)
		seen[token] = true
	}
}
