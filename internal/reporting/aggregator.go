package reporting

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/phishaware/backend/internal/models"
	"github.com/phishaware/backend/internal/repository"
)

// Summary is a read-only rollup over many enrollments' scores. A campaign
// with no enrollments or no quiz attempts yields a zero summary, never an
// error or NaN.
type Summary struct {
	TotalEnrolled int `json:"total_enrolled"`
	EmailsSent    int `json:"emails_sent"`
	Clicked       int `json:"clicked"`
	QuizAttempted int `json:"quiz_attempted"`
	QuizPassed    int `json:"quiz_passed"`

	ClickThroughRate float64 `json:"click_through_rate"` // percent of enrolled
	QuizPassRate     float64 `json:"quiz_pass_rate"`     // percent of attempted

	AverageOverallScore float64 `json:"average_overall_score"`
	AverageQuizScore    float64 `json:"average_quiz_score"`

	HighAwareness   int `json:"high_awareness"`
	MediumAwareness int `json:"medium_awareness"`
	LowAwareness    int `json:"low_awareness"`

	HighRisk   int `json:"high_risk"`
	MediumRisk int `json:"medium_risk"`
	LowRisk    int `json:"low_risk"`
}

// DepartmentSummary pairs a department name with its rollup
type DepartmentSummary struct {
	Department string  `json:"department"`
	Summary    Summary `json:"summary"`
}

// Aggregator builds campaign- and department-level rollups. It never
// mutates scores, clicks, or quiz results.
type Aggregator struct {
	repo repository.EnrollmentRepository
}

// NewAggregator creates a new aggregator
func NewAggregator(repo repository.EnrollmentRepository) *Aggregator {
	return &Aggregator{repo: repo}
}

// CampaignSummary aggregates over all enrollments of one campaign
func (a *Aggregator) CampaignSummary(ctx context.Context, campaignID string) (*Summary, error) {
	enrollments, scores, quizzes, err := a.load(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	return summarize(enrollments, scores, quizzes), nil
}

// DepartmentSummary aggregates over the enrollments of one campaign whose
// employee belongs to the given department
func (a *Aggregator) DepartmentSummary(ctx context.Context, campaignID, department string) (*Summary, error) {
	enrollments, scores, quizzes, err := a.load(ctx, campaignID)
	if err != nil {
		return nil, err
	}

	var filtered []*models.Enrollment
	for _, e := range enrollments {
		if departmentOf(e) == department {
			filtered = append(filtered, e)
		}
	}
	return summarize(filtered, scores, quizzes), nil
}

// DepartmentBreakdown groups one campaign's enrollments by department and
// summarizes each group, sorted by department name
func (a *Aggregator) DepartmentBreakdown(ctx context.Context, campaignID string) ([]DepartmentSummary, error) {
	enrollments, scores, quizzes, err := a.load(ctx, campaignID)
	if err != nil {
		return nil, err
	}

	byDept := make(map[string][]*models.Enrollment)
	for _, e := range enrollments {
		dept := departmentOf(e)
		byDept[dept] = append(byDept[dept], e)
	}

	departments := make([]string, 0, len(byDept))
	for dept := range byDept {
		departments = append(departments, dept)
	}
	sort.Strings(departments)

	breakdown := make([]DepartmentSummary, 0, len(departments))
	for _, dept := range departments {
		breakdown = append(breakdown, DepartmentSummary{
			Department: dept,
			Summary:    *summarize(byDept[dept], scores, quizzes),
		})
	}
	return breakdown, nil
}

func (a *Aggregator) load(ctx context.Context, campaignID string) ([]*models.Enrollment, map[string]*models.RiskScore, map[string]*models.QuizResult, error) {
	enrollments, err := a.repo.ListEnrollmentsByCampaign(ctx, campaignID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to list enrollments: %w", err)
	}

	scoreList, err := a.repo.ListRiskScoresByCampaign(ctx, campaignID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to list risk scores: %w", err)
	}
	scores := make(map[string]*models.RiskScore, len(scoreList))
	for _, s := range scoreList {
		scores[s.EnrollmentID] = s
	}

	quizList, err := a.repo.ListQuizResultsByCampaign(ctx, campaignID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to list quiz results: %w", err)
	}
	quizzes := make(map[string]*models.QuizResult, len(quizList))
	for _, q := range quizList {
		quizzes[q.EnrollmentID] = q
	}

	return enrollments, scores, quizzes, nil
}

// summarize folds one set of enrollments into a Summary. Guard every
// division: empty inputs produce zeroes.
func summarize(enrollments []*models.Enrollment, scores map[string]*models.RiskScore, quizzes map[string]*models.QuizResult) *Summary {
	s := &Summary{TotalEnrolled: len(enrollments)}

	var overallSum, quizSum float64
	var scored int

	for _, e := range enrollments {
		if e.EmailSentAt != nil {
			s.EmailsSent++
		}
		if e.Clicked {
			s.Clicked++
		}

		if quiz, ok := quizzes[e.ID]; ok {
			s.QuizAttempted++
			quizSum += quiz.Score
			if quiz.Passed {
				s.QuizPassed++
			}
		}

		score, ok := scores[e.ID]
		if !ok {
			continue
		}
		scored++
		overallSum += score.OverallScore

		switch score.AwarenessLevel {
		case models.AwarenessHigh:
			s.HighAwareness++
		case models.AwarenessMedium:
			s.MediumAwareness++
		case models.AwarenessLow:
			s.LowAwareness++
		}
		switch score.RiskLevel {
		case models.RiskHigh:
			s.HighRisk++
		case models.RiskMedium:
			s.MediumRisk++
		case models.RiskLow:
			s.LowRisk++
		}
	}

	if s.TotalEnrolled > 0 {
		s.ClickThroughRate = round2(100 * float64(s.Clicked) / float64(s.TotalEnrolled))
	}
	if s.QuizAttempted > 0 {
		s.QuizPassRate = round2(100 * float64(s.QuizPassed) / float64(s.QuizAttempted))
		s.AverageQuizScore = round2(quizSum / float64(s.QuizAttempted))
	}
	if scored > 0 {
		s.AverageOverallScore = round2(overallSum / float64(scored))
	}

	return s
}

func departmentOf(e *models.Enrollment) string {
	if e.Employee.Department == "" {
		return "Unknown"
	}
	return e.Employee.Department
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
