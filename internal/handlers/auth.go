package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/phishaware/backend/internal/auth"
	"github.com/phishaware/backend/internal/logger"
	"github.com/phishaware/backend/internal/models"
	"github.com/phishaware/backend/internal/util"
)

// Register creates a new admin account
func (h *Handlers) Register(c *gin.Context) {
	var req auth.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}

	resp, err := h.authService.Register(req)
	if err != nil {
		if errors.Is(err, auth.ErrAdminExists) {
			util.RespondConflict(c, "admin")
			return
		}
		logger.Log.Error("admin registration failed", zap.Error(err))
		util.RespondInternalError(c, "failed to register admin")
		return
	}

	h.auditor.Record(c.Request.Context(), "admin.register", "admin", resp.Admin.ID, "", &resp.Admin.ID, c.ClientIP())

	c.JSON(http.StatusCreated, resp)
}

// Login authenticates an admin and returns a session token
func (h *Handlers) Login(c *gin.Context) {
	var req auth.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}

	resp, err := h.authService.Login(req)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrAdminNotFound):
			util.RespondUnauthorized(c, "invalid username or password")
		case errors.Is(err, auth.ErrAccountDisabled):
			util.RespondForbidden(c, "account disabled")
		default:
			logger.Log.Error("admin login failed", zap.Error(err))
			util.RespondInternalError(c, "failed to log in")
		}
		return
	}

	h.auditor.Record(c.Request.Context(), "admin.login", "admin", resp.Admin.ID, "", &resp.Admin.ID, c.ClientIP())

	c.JSON(http.StatusOK, resp)
}

// Me returns the authenticated admin
func (h *Handlers) Me(c *gin.Context) {
	admin := currentAdmin(c)
	if admin == nil {
		util.RespondUnauthorized(c)
		return
	}
	c.JSON(http.StatusOK, admin)
}

// AuthMiddleware validates the bearer token and stores the admin in the
// request context
func (h *Handlers) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			util.RespondUnauthorized(c, "no token provided")
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(header, "Bearer ")
		admin, err := h.authService.ValidateToken(tokenString)
		if err != nil {
			util.RespondUnauthorized(c, "invalid token")
			c.Abort()
			return
		}

		c.Set("admin", admin)
		c.Set("admin_id", admin.ID)
		c.Next()
	}
}

// currentAdmin pulls the authenticated admin out of the gin context
func currentAdmin(c *gin.Context) *models.Admin {
	val, ok := c.Get("admin")
	if !ok {
		return nil
	}
	admin, ok := val.(*models.Admin)
	if !ok {
		return nil
	}
	return admin
}
