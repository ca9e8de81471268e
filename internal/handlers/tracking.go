package handlers

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/phishaware/backend/internal/errors"
	"github.com/phishaware/backend/internal/logger"
	"github.com/phishaware/backend/internal/metrics"
	"github.com/phishaware/backend/internal/tracking"
	"github.com/phishaware/backend/internal/util"
)

// TrackClick handles a click on a simulation link. The click is recorded
// and the employee is redirected to the awareness landing page, where the
// quiz is offered against the same token.
func (h *Handlers) TrackClick(c *gin.Context) {
	token := c.Param("token")

	result, err := h.recorder.RecordClick(
		c.Request.Context(),
		token,
		time.Now().UTC(),
		c.ClientIP(),
		c.Request.UserAgent(),
	)
	if err != nil {
		if stderrors.Is(err, tracking.ErrUnknownToken) {
			util.RespondWithAPIError(c, errors.UnknownToken())
			return
		}
		logger.Log.Error("failed to record click", zap.Error(err))
		util.RespondInternalError(c, "failed to record click")
		return
	}

	metrics.Get().ClicksRecorded.
		WithLabelValues(string(result.Outcome), result.Event.DeviceType).
		Inc()

	h.invalidateReportCache(c.Request.Context(), result.Enrollment.CampaignID)

	logger.Log.Info("click recorded",
		logger.WithEnrollmentID(result.Enrollment.ID),
		zap.String("outcome", string(result.Outcome)),
		zap.String("device_type", result.Event.DeviceType),
		zap.String("browser_family", result.Event.BrowserFamily),
	)

	c.Redirect(http.StatusFound, fmt.Sprintf("%s/awareness?token=%s", h.cfg.BaseURL, token))
}
