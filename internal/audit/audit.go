package audit

import (
	"context"

	"github.com/phishaware/backend/internal/logger"
	"github.com/phishaware/backend/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Recorder writes audit log entries. Recording is fire-and-forget: an
// audit failure is logged but never fails the action being audited.
type Recorder struct {
	db *gorm.DB
}

// NewRecorder creates a new audit recorder
func NewRecorder(db *gorm.DB) *Recorder {
	return &Recorder{db: db}
}

// Record stores one audit entry. adminID is nil for system- or
// employee-initiated actions.
func (r *Recorder) Record(ctx context.Context, action, resourceType, resourceID, details string, adminID *string, ipAddress string) {
	entry := &models.AuditLog{
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		AdminID:      adminID,
		Details:      details,
		IPAddress:    ipAddress,
	}

	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		logger.Log.Error("Failed to write audit log",
			zap.String("action", action),
			zap.String("resource_type", resourceType),
			zap.Error(err),
		)
	}
}
