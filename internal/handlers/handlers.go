package handlers

import (
	"context"

	"github.com/phishaware/backend/internal/audit"
	"github.com/phishaware/backend/internal/auth"
	"github.com/phishaware/backend/internal/config"
	"github.com/phishaware/backend/internal/models"
	"github.com/phishaware/backend/internal/quiz"
	"github.com/phishaware/backend/internal/reporting"
	"github.com/phishaware/backend/internal/repository"
	"github.com/phishaware/backend/internal/scoring"
	"github.com/phishaware/backend/internal/tracking"
)

// EmailSender abstracts the SES mailer so handlers can be tested without AWS
type EmailSender interface {
	SendSimulationEmail(ctx context.Context, campaign *models.Campaign, employee *models.Employee, trackingToken string) error
	SendTestEmail(ctx context.Context, campaign *models.Campaign, toEmail string) error
	TrackingLink(token string) string
}

// Handlers contains all HTTP handlers for the API
type Handlers struct {
	cfg         *config.Config
	repo        repository.EnrollmentRepository
	authService *auth.Service
	tokenIssuer *tracking.TokenIssuer
	recorder    *tracking.Recorder
	grader      *quiz.Grader
	engine      *scoring.Engine
	aggregator  *reporting.Aggregator
	auditor     *audit.Recorder
	mailer      EmailSender
}

// NewHandlers creates a new handlers instance
func NewHandlers(cfg *config.Config, repo repository.EnrollmentRepository, authService *auth.Service, auditor *audit.Recorder) *Handlers {
	return &Handlers{
		cfg:         cfg,
		repo:        repo,
		authService: authService,
		tokenIssuer: tracking.NewTokenIssuer(repo),
		recorder:    tracking.NewRecorder(repo),
		grader:      quiz.NewGrader(cfg.Quiz),
		engine:      scoring.NewEngine(repo, cfg.Scoring),
		aggregator:  reporting.NewAggregator(repo),
		auditor:     auditor,
	}
}

// SetMailer sets the outbound email sender. Campaign dispatch endpoints
// return an error when no mailer is configured.
func (h *Handlers) SetMailer(mailer EmailSender) {
	h.mailer = mailer
}
