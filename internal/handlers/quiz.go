package handlers

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/phishaware/backend/internal/database"
	"github.com/phishaware/backend/internal/errors"
	"github.com/phishaware/backend/internal/logger"
	"github.com/phishaware/backend/internal/metrics"
	"github.com/phishaware/backend/internal/models"
	"github.com/phishaware/backend/internal/quiz"
	"github.com/phishaware/backend/internal/repository"
	"github.com/phishaware/backend/internal/util"
)

// GetQuiz returns the quiz questions for an enrollment's campaign category.
// Correct answers and explanations are stripped from the payload.
func (h *Handlers) GetQuiz(c *gin.Context) {
	enrollment, campaign, ok := h.resolveToken(c)
	if !ok {
		return
	}

	questions, err := quiz.QuestionsForDisplay(campaign.PhishingType)
	if err != nil {
		util.RespondWithAPIError(c, errors.UnknownCategory(campaign.PhishingType))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"category":           campaign.PhishingType,
		"questions":          questions,
		"pass_score":         h.cfg.Quiz.PassScore,
		"time_limit_seconds": int(h.cfg.Quiz.TimeLimit.Seconds()),
		"already_completed":  enrollment.Status == models.EnrollmentStatusCompleted,
	})
}

// SubmitQuizRequest carries the answers, keyed by question ID
type SubmitQuizRequest struct {
	Answers   map[string]int `json:"answers" binding:"required"`
	TimeTaken int            `json:"time_taken_seconds"`
}

// SubmitQuiz grades a submission, stores the result, and recomputes the
// enrollment's risk score. Each enrollment gets one attempt.
func (h *Handlers) SubmitQuiz(c *gin.Context) {
	enrollment, campaign, ok := h.resolveToken(c)
	if !ok {
		return
	}

	var req SubmitQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}

	ctx := c.Request.Context()

	if _, err := h.repo.GetQuizResult(ctx, enrollment.ID); err == nil {
		util.RespondConflict(c, "quiz result")
		return
	} else if !stderrors.Is(err, repository.ErrQuizResultNotFound) {
		logger.Log.Error("failed to check quiz result", zap.Error(err))
		util.RespondInternalError(c, "failed to submit quiz")
		return
	}

	graded, err := h.grader.Grade(campaign.PhishingType, req.Answers)
	if err != nil {
		util.RespondWithAPIError(c, errors.UnknownCategory(campaign.PhishingType))
		return
	}

	answersJSON, err := json.Marshal(req.Answers)
	if err != nil {
		util.RespondBadRequest(c, "answers are not serializable")
		return
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
		TimeTaken:      req.TimeTaken,
		AnswersJSON:    string(answersJSON),
		CompletedAt:    time.Now().UTC(),
	}
	if err := h.repo.CreateQuizResult(ctx, result); err != nil {
		logger.Log.Error("failed to store quiz result",
			logger.WithEnrollmentID(enrollment.ID),
			zap.Error(err),
		)
		util.RespondInternalError(c, "failed to store quiz result")
		return
	}

	enrollment.Status = models.EnrollmentStatusCompleted
	if err := h.repo.UpdateEnrollment(ctx, enrollment); err != nil {
		logger.Log.Error("failed to update enrollment status",
			logger.WithEnrollmentID(enrollment.ID),
			zap.Error(err),
		)
	}

	riskScore, err := h.engine.Score(ctx, enrollment.ID)
	if err != nil {
		logger.Log.Error("failed to compute risk score",
			logger.WithEnrollmentID(enrollment.ID),
			zap.Error(err),
		)
		util.RespondInternalError(c, "failed to compute risk score")
		return
	}

	m := metrics.Get()
	m.QuizSubmissionsTotal.WithLabelValues(graded.Category, strconv.FormatBool(graded.Passed)).Inc()
	m.RiskScoresComputed.WithLabelValues(riskScore.AwarenessLevel).Inc()

	h.invalidateReportCache(ctx, enrollment.CampaignID)

	c.JSON(http.StatusOK, gin.H{
		"result":     graded,
		"risk_score": riskScore,
	})
}

// GetQuizResults returns the stored result and risk score for an enrollment
func (h *Handlers) GetQuizResults(c *gin.Context) {
	enrollment, _, ok := h.resolveToken(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()

	result, err := h.repo.GetQuizResult(ctx, enrollment.ID)
	if err != nil {
		if stderrors.Is(err, repository.ErrQuizResultNotFound) {
			util.RespondNotFound(c, "quiz result")
			return
		}
		logger.Log.Error("failed to load quiz result", zap.Error(err))
		util.RespondInternalError(c, "failed to load quiz result")
		return
	}

	response := gin.H{"result": result}
	if riskScore, err := h.repo.GetRiskScore(ctx, enrollment.ID); err == nil {
		response["risk_score"] = riskScore
	}

	c.JSON(http.StatusOK, response)
}

// resolveToken maps the :token path parameter to its enrollment and
// campaign. Writes the error response itself on failure.
func (h *Handlers) resolveToken(c *gin.Context) (*models.Enrollment, *models.Campaign, bool) {
	token := c.Param("token")

	enrollment, err := h.repo.GetEnrollmentByToken(c.Request.Context(), token)
	if err != nil {
		if stderrors.Is(err, repository.ErrEnrollmentNotFound) {
			util.RespondWithAPIError(c, errors.UnknownToken())
		} else {
			logger.Log.Error("failed to resolve tracking token", zap.Error(err))
			util.RespondInternalError(c, "failed to resolve token")
		}
		return nil, nil, false
	}

	var campaign models.Campaign
	err = database.DB.WithContext(c.Request.Context()).
		First(&campaign, "id = ?", enrollment.CampaignID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			util.RespondNotFound(c, "campaign")
		} else {
			logger.Log.Error("failed to load campaign for token", zap.Error(err))
			util.RespondInternalError(c, "failed to load campaign")
		}
		return nil, nil, false
	}

	return enrollment, &campaign, true
}
