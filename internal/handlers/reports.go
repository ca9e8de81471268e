package handlers

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/phishaware/backend/internal/cache"
	"github.com/phishaware/backend/internal/errors"
	"github.com/phishaware/backend/internal/logger"
	"github.com/phishaware/backend/internal/metrics"
	"github.com/phishaware/backend/internal/models"
	"github.com/phishaware/backend/internal/scoring"
	"github.com/phishaware/backend/internal/util"
)

const reportCacheTTL = 60 * time.Second

// GetCampaignReport returns the aggregate summary for a campaign.
// Summaries are cached briefly in Redis; new clicks and quiz submissions
// invalidate the cache. A ?department= filter restricts the summary to one
// department's enrollments.
func (h *Handlers) GetCampaignReport(c *gin.Context) {
	campaign, ok := h.loadCampaign(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()

	// Department-filtered summaries skip the cache; they are ad hoc and
	// cheap to recompute.
	if department := c.Query("department"); department != "" {
		summary, err := h.aggregator.DepartmentSummary(ctx, campaign.ID, department)
		if err != nil {
			logger.Log.Error("failed to build department summary",
				logger.WithCampaignID(campaign.ID),
				zap.String("department", department),
				zap.Error(err),
			)
			util.RespondInternalError(c, "failed to build department summary")
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"campaign":   campaign,
			"department": department,
			"summary":    summary,
		})
		return
	}

	cacheKey := fmt.Sprintf("report:summary:%s", campaign.ID)

	if cached, ok := h.cachedReport(ctx, cacheKey, "summary"); ok {
		c.Data(http.StatusOK, "application/json", cached)
		return
	}

	summary, err := h.aggregator.CampaignSummary(ctx, campaign.ID)
	if err != nil {
		logger.Log.Error("failed to build campaign summary",
			logger.WithCampaignID(campaign.ID),
			zap.Error(err),
		)
		util.RespondInternalError(c, "failed to build campaign summary")
		return
	}

	response := gin.H{"campaign": campaign, "summary": summary}
	h.cacheReport(ctx, cacheKey, response)

	c.JSON(http.StatusOK, response)
}

// GetDepartmentBreakdown returns per-department summaries for a campaign
func (h *Handlers) GetDepartmentBreakdown(c *gin.Context) {
	campaign, ok := h.loadCampaign(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	cacheKey := fmt.Sprintf("report:departments:%s", campaign.ID)

	if cached, ok := h.cachedReport(ctx, cacheKey, "departments"); ok {
		c.Data(http.StatusOK, "application/json", cached)
		return
	}

	breakdown, err := h.aggregator.DepartmentBreakdown(ctx, campaign.ID)
	if err != nil {
		logger.Log.Error("failed to build department breakdown",
			logger.WithCampaignID(campaign.ID),
			zap.Error(err),
		)
		util.RespondInternalError(c, "failed to build department breakdown")
		return
	}

	response := gin.H{"campaign_id": campaign.ID, "departments": breakdown}
	h.cacheReport(ctx, cacheKey, response)

	c.JSON(http.StatusOK, response)
}

// rosterEntry is one row of the campaign roster report
type rosterEntry struct {
	Enrollment *models.Enrollment `json:"enrollment"`
	ClickEvent *models.ClickEvent `json:"click_event,omitempty"`
	QuizResult *models.QuizResult `json:"quiz_result,omitempty"`
	RiskScore  *models.RiskScore  `json:"risk_score,omitempty"`
}

// GetCampaignRoster returns every enrollment with its click, quiz, and
// risk score records
func (h *Handlers) GetCampaignRoster(c *gin.Context) {
	campaign, ok := h.loadCampaign(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	enrollments, err := h.repo.ListEnrollmentsByCampaign(ctx, campaign.ID)
	if err != nil {
		logger.Log.Error("failed to list enrollments",
			logger.WithCampaignID(campaign.ID),
			zap.Error(err),
		)
		util.RespondInternalError(c, "failed to list enrollments")
		return
	}

	roster := make([]rosterEntry, 0, len(enrollments))
	for _, enrollment := range enrollments {
		entry := rosterEntry{Enrollment: enrollment}
		if event, err := h.repo.GetClickEvent(ctx, enrollment.ID); err == nil {
			entry.ClickEvent = event
		}
		if result, err := h.repo.GetQuizResult(ctx, enrollment.ID); err == nil {
			entry.QuizResult = result
		}
		if score, err := h.repo.GetRiskScore(ctx, enrollment.ID); err == nil {
			entry.RiskScore = score
		}
		roster = append(roster, entry)
	}

	c.JSON(http.StatusOK, gin.H{
		"campaign_id": campaign.ID,
		"roster":      roster,
		"count":       len(roster),
	})
}

// RecomputeScores recalculates every risk score in a campaign. Used after
// a scoring policy change.
func (h *Handlers) RecomputeScores(c *gin.Context) {
	campaign, ok := h.loadCampaign(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	enrollments, err := h.repo.ListEnrollmentsByCampaign(ctx, campaign.ID)
	if err != nil {
		logger.Log.Error("failed to list enrollments",
			logger.WithCampaignID(campaign.ID),
			zap.Error(err),
		)
		util.RespondInternalError(c, "failed to list enrollments")
		return
	}

	recomputed := 0
	for _, enrollment := range enrollments {
		if _, err := h.engine.Score(ctx, enrollment.ID); err != nil {
			if stderrors.Is(err, scoring.ErrMissingEnrollment) {
				continue
			}
			logger.Log.Error("failed to recompute risk score",
				logger.WithEnrollmentID(enrollment.ID),
				zap.Error(err),
			)
			continue
		}
		recomputed++
	}

	h.invalidateReportCache(ctx, campaign.ID)

	c.JSON(http.StatusOK, gin.H{
		"campaign_id": campaign.ID,
		"recomputed":  recomputed,
	})
}

// ScoreEnrollment recalculates the risk score for a single enrollment
func (h *Handlers) ScoreEnrollment(c *gin.Context) {
	enrollmentID := c.Param("id")
	ctx := c.Request.Context()

	score, err := h.engine.Score(ctx, enrollmentID)
	if err != nil {
		if stderrors.Is(err, scoring.ErrMissingEnrollment) {
			util.RespondWithAPIError(c, errors.MissingEnrollment(enrollmentID))
			return
		}
		logger.Log.Error("failed to compute risk score",
			logger.WithEnrollmentID(enrollmentID),
			zap.Error(err),
		)
		util.RespondInternalError(c, "failed to compute risk score")
		return
	}

	h.invalidateReportCache(ctx, score.CampaignID)

	c.JSON(http.StatusOK, gin.H{"risk_score": score})
}

// cachedReport returns a cached report body when Redis is configured and
// holds a fresh copy
func (h *Handlers) cachedReport(ctx context.Context, key, report string) ([]byte, bool) {
	redisClient := cache.GetRedisClient()
	if redisClient == nil {
		return nil, false
	}

	cached, err := redisClient.Get(ctx, key)
	if err != nil || cached == "" {
		metrics.Get().ReportCacheMissTotal.WithLabelValues(report).Inc()
		return nil, false
	}

	metrics.Get().ReportCacheHitsTotal.WithLabelValues(report).Inc()
	return []byte(cached), true
}

// cacheReport stores a report body in Redis, best effort
func (h *Handlers) cacheReport(ctx context.Context, key string, response gin.H) {
	redisClient := cache.GetRedisClient()
	if redisClient == nil {
		return
	}

	body, err := json.Marshal(response)
	if err != nil {
		return
	}
	if err := redisClient.SetEx(ctx, key, body, reportCacheTTL); err != nil {
		logger.Log.Warn("failed to cache report", zap.String("key", key), zap.Error(err))
	}
}

// invalidateReportCache drops cached reports for a campaign after its data
// changes
func (h *Handlers) invalidateReportCache(ctx context.Context, campaignID string) {
	redisClient := cache.GetRedisClient()
	if redisClient == nil {
		return
	}
	if err := redisClient.DelPattern(ctx, fmt.Sprintf("report:*:%s", campaignID)); err != nil {
		logger.Log.Warn("failed to invalidate report cache",
			logger.WithCampaignID(campaignID),
			zap.Error(err),
		)
	}
}
