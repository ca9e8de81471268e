package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/phishaware/backend/internal/database"
	"github.com/phishaware/backend/internal/email"
	"github.com/phishaware/backend/internal/logger"
	"github.com/phishaware/backend/internal/metrics"
	"github.com/phishaware/backend/internal/models"
	"github.com/phishaware/backend/internal/util"
)

// CreateCampaignRequest creates a campaign from one of the fixed phishing
// templates
type CreateCampaignRequest struct {
	Name        string     `json:"name" binding:"required"`
	Description string     `json:"description"`
	TemplateID  string     `json:"template_id" binding:"required"`
	ScheduledAt *time.Time `json:"scheduled_at"`
}

// ListTemplates returns the available phishing templates
func (h *Handlers) ListTemplates(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"templates": email.Templates()})
}

// CreateCampaign creates a draft campaign. Template fields are copied so
// the campaign is self-contained.
func (h *Handlers) CreateCampaign(c *gin.Context) {
	var req CreateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}

	tmpl, ok := email.TemplateByID(req.TemplateID)
	if !ok {
		util.RespondValidationError(c, "template_id", "unknown template: "+req.TemplateID)
		return
	}

	admin := currentAdmin(c)
	if admin == nil {
		util.RespondUnauthorized(c)
		return
	}

	status := models.CampaignStatusDraft
	if req.ScheduledAt != nil {
		status = models.CampaignStatusScheduled
	}

	campaign := models.Campaign{
		Name:          req.Name,
		Description:   req.Description,
		SenderName:    tmpl.SenderName,
		SenderEmail:   tmpl.SenderEmail,
		SubjectLine:   tmpl.SubjectLine,
		PhishingType:  tmpl.PhishingType,
		EmailTemplate: tmpl.HTML,
		CreatedByID:   admin.ID,
		Status:        status,
		ScheduledAt:   req.ScheduledAt,
	}

	if err := database.DB.WithContext(c.Request.Context()).Create(&campaign).Error; err != nil {
		logger.Log.Error("failed to create campaign", zap.Error(err))
		util.RespondInternalError(c, "failed to create campaign")
		return
	}

	h.auditor.Record(c.Request.Context(), "campaign.create", "campaign", campaign.ID, campaign.Name, &admin.ID, c.ClientIP())

	c.JSON(http.StatusCreated, campaign)
}

// ListCampaigns returns all campaigns, newest first
func (h *Handlers) ListCampaigns(c *gin.Context) {
	var campaigns []models.Campaign
	if err := database.DB.WithContext(c.Request.Context()).
		Order("created_at DESC").
		Find(&campaigns).Error; err != nil {
		logger.Log.Error("failed to list campaigns", zap.Error(err))
		util.RespondInternalError(c, "failed to list campaigns")
		return
	}
	c.JSON(http.StatusOK, gin.H{"campaigns": campaigns, "count": len(campaigns)})
}

// GetCampaign returns one campaign by ID
func (h *Handlers) GetCampaign(c *gin.Context) {
	campaign, ok := h.loadCampaign(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, campaign)
}

// DeleteCampaign soft-deletes a campaign
func (h *Handlers) DeleteCampaign(c *gin.Context) {
	campaign, ok := h.loadCampaign(c)
	if !ok {
		return
	}

	if err := database.DB.WithContext(c.Request.Context()).Delete(campaign).Error; err != nil {
		logger.Log.Error("failed to delete campaign", zap.Error(err))
		util.RespondInternalError(c, "failed to delete campaign")
		return
	}

	admin := currentAdmin(c)
	var adminID *string
	if admin != nil {
		adminID = &admin.ID
	}
	h.auditor.Record(c.Request.Context(), "campaign.delete", "campaign", campaign.ID, campaign.Name, adminID, c.ClientIP())

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// SendCampaign dispatches simulation emails to every enrolled employee who
// has not been mailed yet. Partial failures leave already-sent enrollments
// marked; re-running the endpoint retries only the failed ones.
func (h *Handlers) SendCampaign(c *gin.Context) {
	if h.mailer == nil {
		util.RespondInternalError(c, "email sending is not configured")
		return
	}

	campaign, ok := h.loadCampaign(c)
	if !ok {
		return
	}
	if campaign.Status == models.CampaignStatusCompleted {
		util.RespondBadRequest(c, "campaign is already completed")
		return
	}

	ctx := c.Request.Context()
	enrollments, err := h.repo.ListEnrollmentsByCampaign(ctx, campaign.ID)
	if err != nil {
		logger.Log.Error("failed to list enrollments", zap.String("campaign_id", campaign.ID), zap.Error(err))
		util.RespondInternalError(c, "failed to list enrollments")
		return
	}

	m := metrics.Get()
	sent := 0
	failed := 0
	for _, enrollment := range enrollments {
		if enrollment.EmailSentAt != nil {
			continue
		}

		if err := h.mailer.SendSimulationEmail(ctx, campaign, &enrollment.Employee, enrollment.TrackingToken); err != nil {
			failed++
			m.SimulationSendErrors.WithLabelValues(campaign.PhishingType).Inc()
			logger.Log.Error("failed to send simulation email",
				logger.WithCampaignID(campaign.ID),
				logger.WithEnrollmentID(enrollment.ID),
				zap.Error(err),
			)
			continue
		}

		now := time.Now().UTC()
		enrollment.EmailSentAt = &now
		enrollment.Status = models.EnrollmentStatusSent
		if err := h.repo.UpdateEnrollment(ctx, enrollment); err != nil {
			logger.Log.Error("failed to mark enrollment sent",
				logger.WithEnrollmentID(enrollment.ID),
				zap.Error(err),
			)
		}
		sent++
		m.SimulationEmailsSent.WithLabelValues(campaign.PhishingType).Inc()
	}

	if sent > 0 && failed == 0 {
		campaign.Status = models.CampaignStatusSent
		if err := database.DB.WithContext(ctx).Save(campaign).Error; err != nil {
			logger.Log.Error("failed to update campaign status", zap.Error(err))
		}
	}

	admin := currentAdmin(c)
	var adminID *string
	if admin != nil {
		adminID = &admin.ID
	}
	h.auditor.Record(ctx, "campaign.send", "campaign", campaign.ID,
		fmt.Sprintf("sent=%d failed=%d", sent, failed), adminID, c.ClientIP())

	c.JSON(http.StatusOK, gin.H{
		"campaign_id": campaign.ID,
		"sent":        sent,
		"failed":      failed,
		"skipped":     len(enrollments) - sent - failed,
	})
}

// SendTestEmail sends a campaign preview to an arbitrary address
func (h *Handlers) SendTestEmail(c *gin.Context) {
	if h.mailer == nil {
		util.RespondInternalError(c, "email sending is not configured")
		return
	}

	campaign, ok := h.loadCampaign(c)
	if !ok {
		return
	}

	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}

	if err := h.mailer.SendTestEmail(c.Request.Context(), campaign, req.Email); err != nil {
		logger.Log.Error("failed to send test email", zap.Error(err))
		util.RespondInternalError(c, "failed to send test email")
		return
	}

	c.JSON(http.StatusOK, gin.H{"sent": true, "email": req.Email})
}

// loadCampaign resolves the :id path parameter. Writes the error response
// itself and returns ok=false when the campaign does not exist.
func (h *Handlers) loadCampaign(c *gin.Context) (*models.Campaign, bool) {
	id := c.Param("id")
	var campaign models.Campaign
	err := database.DB.WithContext(c.Request.Context()).First(&campaign, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			util.RespondNotFound(c, "campaign")
		} else {
			logger.Log.Error("failed to load campaign", zap.String("campaign_id", id), zap.Error(err))
			util.RespondInternalError(c, "failed to load campaign")
		}
		return nil, false
	}
	return &campaign, true
}
