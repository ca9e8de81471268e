package tracking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/phishaware/backend/internal/logger"
	"github.com/phishaware/backend/internal/models"
	"github.com/phishaware/backend/internal/repository"
	"go.uber.org/zap"
)

// ErrUnknownToken reports a tracking token with no matching enrollment
var ErrUnknownToken = errors.New("unknown tracking token")

// ClickOutcome tells the caller whether this request created the primary
// click event or only bumped the repeat counter
type ClickOutcome string

const (
	OutcomeFirstClick  ClickOutcome = "first_click"
	OutcomeRepeatClick ClickOutcome = "repeat_click"
)

// ClickResult is the recorder's return value
type ClickResult struct {
	Outcome    ClickOutcome
	Enrollment *models.Enrollment
	Event      *models.ClickEvent
}

// Recorder captures click events for phishing simulation links
type Recorder struct {
	repo repository.EnrollmentRepository
}

// NewRecorder creates a new click recorder
func NewRecorder(repo repository.EnrollmentRepository) *Recorder {
	return &Recorder{repo: repo}
}

// RecordClick records a click on a tracking link. The first click for an
// enrollment creates the authoritative ClickEvent; every later click, and
// the loser of a concurrent first-click race, only increments the repeat
// counter and leaves the primary record untouched.
func (r *Recorder) RecordClick(ctx context.Context, token string, observedAt time.Time, sourceAddr, clientString string) (*ClickResult, error) {
	enrollment, err := r.repo.GetEnrollmentByToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrEnrollmentNotFound) {
			logger.Log.Warn("Click with unknown tracking token", logger.WithIP(sourceAddr))
			return nil, ErrUnknownToken
		}
		return nil, fmt.Errorf("failed to resolve tracking token: %w", err)
	}

	// Already clicked: bump the repeat counter and return the original event
	if existing, err := r.repo.GetClickEvent(ctx, enrollment.ID); err == nil {
		return r.repeatClick(ctx, enrollment, existing)
	} else if !errors.Is(err, repository.ErrClickNotFound) {
		return nil, fmt.Errorf("failed to load click event: %w", err)
	}

	event := &models.ClickEvent{
		EnrollmentID:   enrollment.ID,
		CampaignID:     enrollment.CampaignID,
		EmployeeID:     enrollment.EmployeeID,
		ClickedAt:      observedAt,
		ElapsedSeconds: elapsedSince(enrollment, observedAt),
		IPAddress:      sourceAddr,
		UserAgent:      clientString,
		DeviceType:     ClassifyDevice(clientString),
		BrowserFamily:  ClassifyBrowser(clientString),
	}

	if err := r.repo.CreateClickEvent(ctx, event); err != nil {
		if errors.Is(err, repository.ErrDuplicateClick) {
			// Lost the first-click race; the winner's record is authoritative
			existing, err := r.repo.GetClickEvent(ctx, enrollment.ID)
			if err != nil {
				return nil, fmt.Errorf("failed to load winning click event: %w", err)
			}
			return r.repeatClick(ctx, enrollment, existing)
		}
		return nil, fmt.Errorf("failed to record click: %w", err)
	}

	enrollment.Clicked = true
	enrollment.ClickedAt = &observedAt
	enrollment.Status = models.EnrollmentStatusClicked
	if err := r.repo.UpdateEnrollment(ctx, enrollment); err != nil {
		return nil, fmt.Errorf("failed to update enrollment click status: %w", err)
	}

	logger.Log.Info("Click recorded",
		logger.WithEnrollmentID(enrollment.ID),
		logger.WithCampaignID(enrollment.CampaignID),
		logger.WithIP(sourceAddr),
		zap.Int64("elapsed_seconds", event.ElapsedSeconds),
		zap.String("device_type", event.DeviceType),
		zap.String("browser_family", event.BrowserFamily),
	)

	return &ClickResult{
		Outcome:    OutcomeFirstClick,
		Enrollment: enrollment,
		Event:      event,
	}, nil
}

// repeatClick handles every click after the primary one
func (r *Recorder) repeatClick(ctx context.Context, enrollment *models.Enrollment, event *models.ClickEvent) (*ClickResult, error) {
	if err := r.repo.IncrementRepeatCount(ctx, enrollment.ID); err != nil {
		return nil, fmt.Errorf("failed to increment repeat count: %w", err)
	}
	event.RepeatCount++

	logger.Log.Info("Repeat click recorded",
		logger.WithEnrollmentID(enrollment.ID),
		zap.Int("repeat_count", event.RepeatCount),
	)

	return &ClickResult{
		Outcome:    OutcomeRepeatClick,
		Enrollment: enrollment,
		Event:      event,
	}, nil
}

// elapsedSince computes seconds between email dispatch and the click,
// clamped to zero. Falls back to the enrollment timestamp when the send
// time was never recorded.
func elapsedSince(enrollment *models.Enrollment, observedAt time.Time) int64 {
	base := enrollment.CreatedAt
	if enrollment.EmailSentAt != nil {
		base = *enrollment.EmailSentAt
	}

	elapsed := int64(observedAt.Sub(base).Seconds())
	if elapsed < 0 {
		elapsed = 0
	}
	return elapsed
}
