package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/phishaware/backend/internal/config"
	"github.com/phishaware/backend/internal/email"
	"github.com/phishaware/backend/internal/logger"
	"github.com/phishaware/backend/internal/models"
	"github.com/phishaware/backend/internal/quiz"
	"github.com/phishaware/backend/internal/repository"
	"github.com/phishaware/backend/internal/scoring"
	"github.com/phishaware/backend/internal/tracking"
)

var departments = []string{
	"Engineering", "Finance", "Human Resources", "Sales", "Marketing",
	"Operations", "Legal", "Customer Support",
}

// Seeder populates the database with a demo dataset: an admin, an employee
// directory, one campaign per phishing template, and simulated click and
// quiz activity with computed risk scores.
type Seeder struct {
	db     *gorm.DB
	repo   repository.EnrollmentRepository
	issuer *tracking.TokenIssuer
	grader *quiz.Grader
	engine *scoring.Engine
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	_ = gofakeit.Seed(time.Now().UnixNano())
	repo := repository.NewEnrollmentRepository(db)
	return &Seeder{
		db:     db,
		repo:   repo,
		issuer: tracking.NewTokenIssuer(repo),
		grader: quiz.NewGrader(config.DefaultQuiz()),
		engine: scoring.NewEngine(repo, config.DefaultScoring()),
	}
}

// SeedDev seeds the development database
func (s *Seeder) SeedDev() error {
	ctx := context.Background()

	logger.Log.Info("Creating admin...")
	admin, err := s.seedAdmin()
	if err != nil {
		return fmt.Errorf("failed to seed admin: %w", err)
	}

	logger.Log.Info("Creating employees...")
	employees, err := s.seedEmployees(60)
	if err != nil {
		return fmt.Errorf("failed to seed employees: %w", err)
	}

	logger.Log.Info("Creating campaigns...")
	for _, tmpl := range email.Templates() {
		campaign, err := s.seedCampaign(admin, tmpl)
		if err != nil {
			return fmt.Errorf("failed to seed campaign: %w", err)
		}
		if err := s.seedActivity(ctx, campaign, employees); err != nil {
			return fmt.Errorf("failed to seed activity for %s: %w", campaign.Name, err)
		}
	}

	return nil
}

// seedAdmin creates the demo admin account (admin / admin123)
func (s *Seeder) seedAdmin() (*models.Admin, error) {
	var existing models.Admin
	if err := s.db.Where("username = ?", "admin").First(&existing).Error; err == nil {
		return &existing, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	hashStr := string(hash)

	admin := models.Admin{
		Username:     "admin",
		Email:        "admin@phishaware.local",
		PasswordHash: &hashStr,
		IsActive:     true,
	}
	if err := s.db.Create(&admin).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}

func (s *Seeder) seedEmployees(count int) ([]models.Employee, error) {
	employees := make([]models.Employee, 0, count)
	for i := 0; i < count; i++ {
		first := gofakeit.FirstName()
		last := gofakeit.LastName()
		employee := models.Employee{
			Email:      strings.ToLower(fmt.Sprintf("%s.%s%d@example.com", first, last, i)),
			FullName:   first + " " + last,
			Department: departments[rand.Intn(len(departments))],
			IsActive:   true,
		}
		if err := s.db.Create(&employee).Error; err != nil {
			return nil, err
		}
		employees = append(employees, employee)
	}
	return employees, nil
}

func (s *Seeder) seedCampaign(admin *models.Admin, tmpl email.Template) (*models.Campaign, error) {
	campaign := models.Campaign{
		Name:          tmpl.Name + " " + gofakeit.MonthString(),
		Description:   "Seeded demo campaign",
		SenderName:    tmpl.SenderName,
		SenderEmail:   tmpl.SenderEmail,
		SubjectLine:   tmpl.SubjectLine,
		PhishingType:  tmpl.PhishingType,
		EmailTemplate: tmpl.HTML,
		CreatedByID:   admin.ID,
		Status:        models.CampaignStatusSent,
	}
	if err := s.db.Create(&campaign).Error; err != nil {
		return nil, err
	}
	return &campaign, nil
}

// seedActivity enrolls a random subset of employees and simulates the
// spread of outcomes a real campaign produces: ignorers, fast clickers,
// careful clickers, and quiz takers at varied skill levels.
func (s *Seeder) seedActivity(ctx context.Context, campaign *models.Campaign, employees []models.Employee) error {
	sentAt := time.Now().UTC().Add(-72 * time.Hour)

	for _, employee := range employees {
		if rand.Float64() < 0.3 {
			continue // not everyone is enrolled in every campaign
		}

		token, err := s.issuer.IssueToken(ctx)
		if err != nil {
			return err
		}

		enrollment := &models.Enrollment{
			CampaignID:     campaign.ID,
			EmployeeID:     employee.ID,
			TrackingToken:  token,
			EmailSentAt:    &sentAt,
			Status:         models.EnrollmentStatusSent,
			AwarenessLevel: models.AwarenessUnknown,
		}
		if err := s.repo.CreateEnrollment(ctx, enrollment); err != nil {
			return err
		}

		clicked := rand.Float64() < 0.45
		if clicked {
			if err := s.seedClick(ctx, enrollment, sentAt); err != nil {
				return err
			}
		}

		// Most clickers and some non-clickers take the quiz
		tookQuiz := (clicked && rand.Float64() < 0.8) || (!clicked && rand.Float64() < 0.25)
		if tookQuiz {
			if err := s.seedQuizResult(ctx, enrollment, campaign.PhishingType); err != nil {
				return err
			}
			enrollment.Status = models.EnrollmentStatusCompleted
			if err := s.repo.UpdateEnrollment(ctx, enrollment); err != nil {
				return err
			}
		}

		if _, err := s.engine.Score(ctx, enrollment.ID); err != nil {
			return err
		}
	}

	return nil
}

func (s *Seeder) seedClick(ctx context.Context, enrollment *models.Enrollment, sentAt time.Time) error {
	// Spread of reaction times from impulsive to cautious
	elapsed := []int64{25, 140, 600, 2400, 5400}[rand.Intn(5)]
	clickedAt := sentAt.Add(time.Duration(elapsed) * time.Second)

	userAgents := []string{
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 Chrome/126.0 Safari/537.36",
		"Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 Mobile/15E148 Safari/604.1",
		"Mozilla/5.0 (iPad; CPU OS 17_0 like Mac OS X) AppleWebKit/605.1.15 Mobile/15E148 Safari/604.1",
		"Mozilla/5.0 (X11; Linux x86_64; rv:127.0) Gecko/20100101 Firefox/127.0",
	}
	ua := userAgents[rand.Intn(len(userAgents))]

	event := &models.ClickEvent{
		EnrollmentID:   enrollment.ID,
		CampaignID:     enrollment.CampaignID,
		EmployeeID:     enrollment.EmployeeID,
		ClickedAt:      clickedAt,
		ElapsedSeconds: elapsed,
		IPAddress:      gofakeit.IPv4Address(),
		UserAgent:      ua,
		DeviceType:     tracking.ClassifyDevice(ua),
		BrowserFamily:  tracking.ClassifyBrowser(ua),
	}
	if err := s.repo.CreateClickEvent(ctx, event); err != nil {
		return err
	}

	enrollment.Clicked = true
	enrollment.ClickedAt = &clickedAt
	enrollment.Status = models.EnrollmentStatusClicked
	return s.repo.UpdateEnrollment(ctx, enrollment)
}

func (s *Seeder) seedQuizResult(ctx context.Context, enrollment *models.Enrollment, category string) error {
	questions, err := quiz.QuestionsForDisplay(category)
	if err != nil {
		return err
	}

	// Answer correctly with a per-employee skill level
	skill := 0.4 + rand.Float64()*0.6
	answers := make(map[string]int, len(questions))
	for _, q := range questions {
		if correct, ok := quiz.CorrectIndex(category, q.ID); ok && rand.Float64() < skill {
			answers[q.ID] = correct
		} else {
			answers[q.ID] = rand.Intn(len(q.Options))
		}
	}

	graded, err := s.grader.Grade(category, answers)
	if err != nil {
		return err
	}

	answersJSON, err := json.Marshal(answers)
	if err != nil {
		return err
	}

	result := &models.QuizResult{
		EnrollmentID:   enrollment.ID,
		CampaignID:     enrollment.CampaignID,
		EmployeeID:     enrollment.EmployeeID,
		Category:       graded.Category,
		TotalQuestions: graded.TotalQuestions,
		CorrectAnswers: graded.CorrectAnswers,
		Score:          graded.Percentage,
		Passed:         graded.Passed,
		TimeTaken:      60 + rand.Intn(240),
		AnswersJSON:    string(answersJSON),
		CompletedAt:    time.Now().UTC(),
	}
	return s.repo.CreateQuizResult(ctx, result)
}

// Clean removes all seeded data
func (s *Seeder) Clean() error {
	tables := []string{
		"risk_scores", "quiz_results", "click_events", "enrollments",
		"campaigns", "employees", "audit_logs", "admins",
	}
	for _, table := range tables {
		if err := s.db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clean %s: %w", table, err)
		}
	}
	return nil
}
