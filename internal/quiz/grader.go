package quiz

import (
	"errors"
	"math"

	"github.com/phishaware/backend/internal/config"
	"github.com/phishaware/backend/internal/logger"
	"go.uber.org/zap"
)

// ErrUnknownCategory reports a category outside the fixed set of three
var ErrUnknownCategory = errors.New("unknown quiz category")

// AnswerReview is per-question feedback for the results page
type AnswerReview struct {
	QuestionID    string `json:"question_id"`
	Prompt        string `json:"prompt"`
	SelectedIndex *int   `json:"selected_index"` // nil when unanswered
	CorrectIndex  int    `json:"correct_index"`
	Correct       bool   `json:"correct"`
	Explanation   string `json:"explanation"`
}

// GradedResult is the grader's output for one submission
type GradedResult struct {
	Category       string         `json:"category"`
	TotalQuestions int            `json:"total_questions"`
	CorrectAnswers int            `json:"correct_answers"`
	Percentage     float64        `json:"percentage"`
	Passed         bool           `json:"passed"`
	Answers        []AnswerReview `json:"answers"`
}

// Grader scores quiz submissions against the fixed question bank
type Grader struct {
	passScore int
}

// NewGrader creates a grader with the given policy
func NewGrader(cfg config.QuizConfig) *Grader {
	return &Grader{passScore: cfg.PassScore}
}

// Grade compares submitted answers against the bank for a category.
// Unanswered questions count as incorrect. Fails only for an unrecognized
// category.
func (g *Grader) Grade(category string, answers map[string]int) (*GradedResult, error) {
	bank, ok := questionBank[category]
	if !ok {
		return nil, ErrUnknownCategory
	}

	result := &GradedResult{
		Category:       category,
		TotalQuestions: len(bank),
		Answers:        make([]AnswerReview, 0, len(bank)),
	}

	for _, q := range bank {
		review := AnswerReview{
			QuestionID:   q.ID,
			Prompt:       q.Prompt,
			CorrectIndex: q.CorrectIndex,
			Explanation:  q.Explanation,
		}

		if selected, answered := answers[q.ID]; answered {
			review.SelectedIndex = &selected
			review.Correct = selected == q.CorrectIndex
		}
		if review.Correct {
			result.CorrectAnswers++
		}

		result.Answers = append(result.Answers, review)
	}

	result.Percentage = math.Round(100 * float64(result.CorrectAnswers) / float64(result.TotalQuestions))
	result.Passed = result.Percentage >= float64(g.passScore)

	logger.Log.Info("Quiz graded",
		zap.String("category", category),
		zap.Int("total", result.TotalQuestions),
		zap.Int("correct", result.CorrectAnswers),
		zap.Float64("percentage", result.Percentage),
		zap.Bool("passed", result.Passed),
	)

	return result, nil
}
