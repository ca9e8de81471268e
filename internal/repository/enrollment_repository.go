package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/phishaware/backend/internal/models"
	"gorm.io/gorm"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrEnrollmentNotFound = errors.New("enrollment not found")
	ErrClickNotFound      = errors.New("click event not found")
	ErrQuizResultNotFound = errors.New("quiz result not found")
	ErrRiskScoreNotFound  = errors.New("risk score not found")

	// ErrDuplicateClick reports that another request already created the
	// primary click event for this enrollment
	ErrDuplicateClick = errors.New("primary click already recorded")
)

// EnrollmentRepository handles all database operations for the enrollment
// aggregate: the enrollment row itself plus its click event, quiz result,
// and risk score.
type EnrollmentRepository interface {
	// Enrollments
	CreateEnrollment(ctx context.Context, enrollment *models.Enrollment) error
	GetEnrollment(ctx context.Context, enrollmentID string) (*models.Enrollment, error)
	GetEnrollmentByToken(ctx context.Context, token string) (*models.Enrollment, error)
	TokenExists(ctx context.Context, token string) (bool, error)
	UpdateEnrollment(ctx context.Context, enrollment *models.Enrollment) error
	ListEnrollmentsByCampaign(ctx context.Context, campaignID string) ([]*models.Enrollment, error)

	// Click events
	CreateClickEvent(ctx context.Context, event *models.ClickEvent) error
	GetClickEvent(ctx context.Context, enrollmentID string) (*models.ClickEvent, error)
	IncrementRepeatCount(ctx context.Context, enrollmentID string) error

	// Quiz results
	CreateQuizResult(ctx context.Context, result *models.QuizResult) error
	GetQuizResult(ctx context.Context, enrollmentID string) (*models.QuizResult, error)
	ListQuizResultsByCampaign(ctx context.Context, campaignID string) ([]*models.QuizResult, error)

	// Risk scores
	UpsertRiskScore(ctx context.Context, score *models.RiskScore) error
	GetRiskScore(ctx context.Context, enrollmentID string) (*models.RiskScore, error)
	ListRiskScoresByCampaign(ctx context.Context, campaignID string) ([]*models.RiskScore, error)
}

// enrollmentRepository implements EnrollmentRepository
type enrollmentRepository struct {
	db *gorm.DB
}

// NewEnrollmentRepository creates a new enrollment repository
func NewEnrollmentRepository(db *gorm.DB) EnrollmentRepository {
	return &enrollmentRepository{db: db}
}

// CreateEnrollment creates a new enrollment
func (r *enrollmentRepository) CreateEnrollment(ctx context.Context, enrollment *models.Enrollment) error {
	if enrollment == nil {
		return ErrInvalidInput
	}
	return r.db.WithContext(ctx).Create(enrollment).Error
}

// GetEnrollment gets an enrollment by ID
func (r *enrollmentRepository) GetEnrollment(ctx context.Context, enrollmentID string) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	err := r.db.WithContext(ctx).Where("id = ?", enrollmentID).First(&enrollment).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrEnrollmentNotFound
	}

	return &enrollment, err
}

// GetEnrollmentByToken resolves a tracking token to its enrollment
func (r *enrollmentRepository) GetEnrollmentByToken(ctx context.Context, token string) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	err := r.db.WithContext(ctx).Where("tracking_token = ?", token).First(&enrollment).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrEnrollmentNotFound
	}

	return &enrollment, err
}

// TokenExists reports whether a tracking token is already in use
func (r *enrollmentRepository) TokenExists(ctx context.Context, token string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Enrollment{}).
		Where("tracking_token = ?", token).
		Count(&count).Error
	return count > 0, err
}

// UpdateEnrollment saves enrollment mutations (click status, awareness level)
func (r *enrollmentRepository) UpdateEnrollment(ctx context.Context, enrollment *models.Enrollment) error {
	if enrollment == nil || enrollment.ID == "" {
		return ErrInvalidInput
	}
	return r.db.WithContext(ctx).Save(enrollment).Error
}

// ListEnrollmentsByCampaign returns all enrollments for a campaign with
// their employees preloaded
func (r *enrollmentRepository) ListEnrollmentsByCampaign(ctx context.Context, campaignID string) ([]*models.Enrollment, error) {
	var enrollments []*models.Enrollment
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Where("campaign_id = ?", campaignID).
		Order("created_at ASC").
		Find(&enrollments).Error
	return enrollments, err
}

// CreateClickEvent inserts the primary click event for an enrollment.
// Returns ErrDuplicateClick when the unique index on enrollment_id rejects
// the insert, which callers treat as a repeat click rather than a failure.
func (r *enrollmentRepository) CreateClickEvent(ctx context.Context, event *models.ClickEvent) error {
	if event == nil {
		return ErrInvalidInput
	}

	err := r.db.WithContext(ctx).Create(event).Error
	if err != nil && isDuplicateKeyError(err) {
		return ErrDuplicateClick
	}
	return err
}

// GetClickEvent gets the primary click event for an enrollment
func (r *enrollmentRepository) GetClickEvent(ctx context.Context, enrollmentID string) (*models.ClickEvent, error) {
	var event models.ClickEvent
	err := r.db.WithContext(ctx).Where("enrollment_id = ?", enrollmentID).First(&event).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrClickNotFound
	}

	return &event, err
}

// IncrementRepeatCount bumps the repeat counter without touching the
// primary click's timestamp, elapsed time, or device fields
func (r *enrollmentRepository) IncrementRepeatCount(ctx context.Context, enrollmentID string) error {
	return r.db.WithContext(ctx).Model(&models.ClickEvent{}).
		Where("enrollment_id = ?", enrollmentID).
		UpdateColumn("repeat_count", gorm.Expr("repeat_count + 1")).Error
}

// CreateQuizResult stores a graded quiz attempt
func (r *enrollmentRepository) CreateQuizResult(ctx context.Context, result *models.QuizResult) error {
	if result == nil {
		return ErrInvalidInput
	}
	return r.db.WithContext(ctx).Create(result).Error
}

// GetQuizResult gets the quiz result for an enrollment
func (r *enrollmentRepository) GetQuizResult(ctx context.Context, enrollmentID string) (*models.QuizResult, error) {
	var result models.QuizResult
	err := r.db.WithContext(ctx).Where("enrollment_id = ?", enrollmentID).First(&result).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrQuizResultNotFound
	}

	return &result, err
}

// ListQuizResultsByCampaign returns all quiz results for a campaign
func (r *enrollmentRepository) ListQuizResultsByCampaign(ctx context.Context, campaignID string) ([]*models.QuizResult, error) {
	var results []*models.QuizResult
	err := r.db.WithContext(ctx).Where("campaign_id = ?", campaignID).Find(&results).Error
	return results, err
}

// UpsertRiskScore creates or replaces the single risk score for an
// enrollment. Last writer wins; the scoring engine is deterministic over
// its inputs, so concurrent recomputation converges on the same row.
func (r *enrollmentRepository) UpsertRiskScore(ctx context.Context, score *models.RiskScore) error {
	if score == nil {
		return ErrInvalidInput
	}

	existing, err := r.GetRiskScore(ctx, score.EnrollmentID)
	if err != nil && !errors.Is(err, ErrRiskScoreNotFound) {
		return err
	}
	if existing != nil {
		score.ID = existing.ID
		score.CreatedAt = existing.CreatedAt
		return r.db.WithContext(ctx).Save(score).Error
	}

	return r.db.WithContext(ctx).Create(score).Error
}

// GetRiskScore gets the risk score for an enrollment
func (r *enrollmentRepository) GetRiskScore(ctx context.Context, enrollmentID string) (*models.RiskScore, error) {
	var score models.RiskScore
	err := r.db.WithContext(ctx).Where("enrollment_id = ?", enrollmentID).First(&score).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRiskScoreNotFound
	}

	return &score, err
}

// ListRiskScoresByCampaign returns all risk scores for a campaign
func (r *enrollmentRepository) ListRiskScoresByCampaign(ctx context.Context, campaignID string) ([]*models.RiskScore, error) {
	var scores []*models.RiskScore
	err := r.db.WithContext(ctx).Where("campaign_id = ?", campaignID).Find(&scores).Error
	return scores, err
}

// isDuplicateKeyError detects unique-constraint violations across the
// drivers we run against (pgx in production, sqlite in tests)
func isDuplicateKeyError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
