package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/phishaware/backend/internal/database"
	"github.com/phishaware/backend/internal/logger"
	"github.com/phishaware/backend/internal/models"
	"github.com/phishaware/backend/internal/util"
)

// CreateEmployeeRequest adds a single employee to the directory
type CreateEmployeeRequest struct {
	Email      string `json:"email" binding:"required,email"`
	FullName   string `json:"full_name" binding:"required"`
	Department string `json:"department"`
}

// CreateEmployee adds one employee
func (h *Handlers) CreateEmployee(c *gin.Context) {
	var req CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}

	employee := models.Employee{
		Email:      strings.ToLower(strings.TrimSpace(req.Email)),
		FullName:   req.FullName,
		Department: req.Department,
		IsActive:   true,
	}

	err := database.DB.WithContext(c.Request.Context()).Create(&employee).Error
	if err != nil {
		if isDuplicate(err) {
			util.RespondConflict(c, "employee")
			return
		}
		logger.Log.Error("failed to create employee", zap.Error(err))
		util.RespondInternalError(c, "failed to create employee")
		return
	}

	c.JSON(http.StatusCreated, employee)
}

// ListEmployees returns employees, optionally filtered by department.
// ?limit= caps the result set, 500 by default.
func (h *Handlers) ListEmployees(c *gin.Context) {
	limit := util.ParseInt(c.Query("limit"), 500)
	if limit < 1 || limit > 1000 {
		limit = 500
	}

	query := database.DB.WithContext(c.Request.Context()).Order("full_name ASC").Limit(limit)
	if dept := c.Query("department"); dept != "" {
		query = query.Where("department = ?", dept)
	}

	var employees []models.Employee
	if err := query.Find(&employees).Error; err != nil {
		logger.Log.Error("failed to list employees", zap.Error(err))
		util.RespondInternalError(c, "failed to list employees")
		return
	}

	c.JSON(http.StatusOK, gin.H{"employees": employees, "count": len(employees)})
}

// BulkEnrollRequest enrolls a newline-separated list of email addresses in
// a campaign. Unknown addresses are added to the directory on the fly.
type BulkEnrollRequest struct {
	Emails     string `json:"emails" binding:"required"`
	Department string `json:"department"`
}

// BulkEnroll creates enrollments, each with a fresh tracking token.
// Employees already enrolled in the campaign are reported as duplicates and
// keep their original token.
func (h *Handlers) BulkEnroll(c *gin.Context) {
	campaign, ok := h.loadCampaign(c)
	if !ok {
		return
	}

	var req BulkEnrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}

	emails := util.SplitEmailList(req.Emails)
	if len(emails) == 0 {
		util.RespondValidationError(c, "emails", "no valid email addresses found")
		return
	}

	ctx := c.Request.Context()
	enrolled := 0
	duplicates := 0
	var errored []string

	for _, addr := range emails {
		employee, err := h.findOrCreateEmployee(c, addr, req.Department)
		if err != nil {
			logger.Log.Error("failed to resolve employee", zap.String("email", addr), zap.Error(err))
			errored = append(errored, addr)
			continue
		}

		token, err := h.tokenIssuer.IssueToken(ctx)
		if err != nil {
			logger.Log.Error("failed to issue tracking token", zap.String("email", addr), zap.Error(err))
			errored = append(errored, addr)
			continue
		}

		enrollment := &models.Enrollment{
			CampaignID:     campaign.ID,
			EmployeeID:     employee.ID,
			TrackingToken:  token,
			Status:         models.EnrollmentStatusPending,
			AwarenessLevel: models.AwarenessUnknown,
		}
		if err := h.repo.CreateEnrollment(ctx, enrollment); err != nil {
			if isDuplicate(err) {
				duplicates++
				continue
			}
			logger.Log.Error("failed to create enrollment", zap.String("email", addr), zap.Error(err))
			errored = append(errored, addr)
			continue
		}
		enrolled++
	}

	admin := currentAdmin(c)
	var adminID *string
	if admin != nil {
		adminID = &admin.ID
	}
	h.auditor.Record(ctx, "campaign.enroll", "campaign", campaign.ID, "", adminID, c.ClientIP())

	c.JSON(http.StatusOK, gin.H{
		"campaign_id": campaign.ID,
		"enrolled":    enrolled,
		"duplicates":  duplicates,
		"errors":      errored,
	})
}

// findOrCreateEmployee looks an address up in the directory, creating a
// record with a name derived from the local part when absent
func (h *Handlers) findOrCreateEmployee(c *gin.Context, addr, department string) (*models.Employee, error) {
	addr = strings.ToLower(strings.TrimSpace(addr))

	var employee models.Employee
	err := database.DB.WithContext(c.Request.Context()).
		Where("email = ?", addr).
		First(&employee).Error
	if err == nil {
		return &employee, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	employee = models.Employee{
		Email:      addr,
		FullName:   util.LocalPart(addr),
		Department: department,
		IsActive:   true,
	}
	if err := database.DB.WithContext(c.Request.Context()).Create(&employee).Error; err != nil {
		return nil, err
	}
	return &employee, nil
}

// isDuplicate reports whether an error is a unique constraint violation
func isDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if err == gorm.ErrDuplicatedKey {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
