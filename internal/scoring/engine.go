package scoring

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/phishaware/backend/internal/config"
	"github.com/phishaware/backend/internal/logger"
	"github.com/phishaware/backend/internal/models"
	"github.com/phishaware/backend/internal/repository"
	"go.uber.org/zap"
)

// ErrMissingEnrollment reports a scoring request for a nonexistent enrollment
var ErrMissingEnrollment = errors.New("enrollment not found")

// Email-behavior sub-score steps. A fast click means the employee acted on
// the lure with little scrutiny; a slow or absent click means deliberation
// or disengagement.
const (
	subScoreNoClick   = 100
	subScoreUnder1m   = 30
	subScoreUnder5m   = 55
	subScoreUnder30m  = 80
	subScoreUnder60m  = 85
	subScoreOver60m   = 90
)

// Engine computes and persists awareness scores. It holds no mutable state
// of its own; the score is a pure function of the enrollment's click event
// and quiz result.
type Engine struct {
	repo repository.EnrollmentRepository
	cfg  config.ScoringConfig
	now  func() time.Time
}

// NewEngine creates a scoring engine
func NewEngine(repo repository.EnrollmentRepository, cfg config.ScoringConfig) *Engine {
	return &Engine{
		repo: repo,
		cfg:  cfg,
		now:  time.Now,
	}
}

// Score reads the enrollment's click event and quiz result, computes the
// weighted awareness score, and upserts the single RiskScore row for the
// enrollment. Partial data (no click, no quiz) is a valid scorable state.
func (e *Engine) Score(ctx context.Context, enrollmentID string) (*models.RiskScore, error) {
	enrollment, err := e.repo.GetEnrollment(ctx, enrollmentID)
	if err != nil {
		if errors.Is(err, repository.ErrEnrollmentNotFound) {
			return nil, ErrMissingEnrollment
		}
		return nil, fmt.Errorf("failed to load enrollment: %w", err)
	}

	click, err := e.repo.GetClickEvent(ctx, enrollmentID)
	if err != nil && !errors.Is(err, repository.ErrClickNotFound) {
		return nil, fmt.Errorf("failed to load click event: %w", err)
	}

	quiz, err := e.repo.GetQuizResult(ctx, enrollmentID)
	if err != nil && !errors.Is(err, repository.ErrQuizResultNotFound) {
		return nil, fmt.Errorf("failed to load quiz result: %w", err)
	}

	emailSub := EmailSubScore(click)

	// A never-attempted quiz contributes zero to the weighted formula, but
	// the stored sub-score stays NULL so reports can tell "not attempted"
	// apart from "scored zero".
	var quizSub *float64
	quizContribution := 0.0
	if quiz != nil {
		score := quiz.Score
		quizSub = &score
		quizContribution = score
	}

	overall := e.cfg.QuizWeight*quizContribution + e.cfg.EmailWeight*emailSub
	awareness := e.AwarenessLevel(overall)

	score := &models.RiskScore{
		EnrollmentID:   enrollment.ID,
		CampaignID:     enrollment.CampaignID,
		EmployeeID:     enrollment.EmployeeID,
		ClickedLink:    click != nil,
		EmailSubScore:  emailSub,
		QuizSubScore:   quizSub,
		OverallScore:   overall,
		AwarenessLevel: awareness,
		RiskLevel:      RiskLevelFor(awareness),
		CalculatedAt:   e.now().UTC(),
	}

	if err := e.repo.UpsertRiskScore(ctx, score); err != nil {
		return nil, fmt.Errorf("failed to persist risk score: %w", err)
	}

	if enrollment.AwarenessLevel != awareness {
		enrollment.AwarenessLevel = awareness
		if err := e.repo.UpdateEnrollment(ctx, enrollment); err != nil {
			return nil, fmt.Errorf("failed to update enrollment awareness level: %w", err)
		}
	}

	logger.Log.Info("Risk score calculated",
		logger.WithEnrollmentID(enrollment.ID),
		logger.WithCampaignID(enrollment.CampaignID),
		zap.Float64("email_sub_score", emailSub),
		zap.Float64("overall_score", overall),
		zap.String("awareness_level", awareness),
		zap.String("risk_level", score.RiskLevel),
	)

	return score, nil
}

// EmailSubScore maps click timing to the behavioral sub-score. Absence of
// any click is the safest observed behavior and scores the maximum.
func EmailSubScore(click *models.ClickEvent) float64 {
	if click == nil {
		return subScoreNoClick
	}
	return ElapsedSubScore(click.ElapsedSeconds)
}

// ElapsedSubScore is the step function over elapsed seconds since send
func ElapsedSubScore(elapsedSeconds int64) float64 {
	switch {
	case elapsedSeconds < 60:
		return subScoreUnder1m
	case elapsedSeconds < 300:
		return subScoreUnder5m
	case elapsedSeconds < 1800:
		return subScoreUnder30m
	case elapsedSeconds < 3600:
		return subScoreUnder60m
	default:
		return subScoreOver60m
	}
}

// AwarenessLevel classifies an overall score into an awareness level
func (e *Engine) AwarenessLevel(overall float64) string {
	switch {
	case overall >= e.cfg.HighCutoff:
		return models.AwarenessHigh
	case overall >= e.cfg.MediumCutoff:
		return models.AwarenessMedium
	default:
		return models.AwarenessLow
	}
}

// RiskLevelFor derives the risk level from an awareness level. Risk is
// never computed independently; it is always the inverse mapping.
func RiskLevelFor(awareness string) string {
	switch awareness {
	case models.AwarenessHigh:
		return models.RiskLow
	case models.AwarenessMedium:
		return models.RiskMedium
	default:
		return models.RiskHigh
	}
}
