package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/samape/samape/logging"
	"github.com/samape/samape/models"
	"github.com/samape/samape/repositories"
)

// AuditService records user actions for later inspection. Writes are
// fire-and-forget: a storage failure is logged internally and discarded so
// that it can never abort the business operation being audited.
type AuditService interface {
	Record(ctx context.Context, actorID *int, action string, entityType string, entityID *int, details string, ipAddress string)
	GetRecent(ctx context.Context, limit int) ([]models.ActionLogEntry, error)
}

// auditService implements AuditService interface
type auditService struct {
	actionLogRepo repositories.ActionLogRepository
}

// NewAuditService creates a new audit service
func NewAuditService(actionLogRepo repositories.ActionLogRepository) AuditService {
	return &auditService{actionLogRepo: actionLogRepo}
}

// Record appends one action log entry. Nothing is written when no actor is
// known: anonymous entries carry no audit value.
func (s *auditService) Record(ctx context.Context, actorID *int, action string, entityType string, entityID *int, details string, ipAddress string) {
	if actorID == nil {
		return
	}

	entry := &models.ActionLogEntry{
		UserID:     actorID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    details,
		IPAddress:  ipAddress,
	}

	tryRecord("action log", func() error {
		return s.actionLogRepo.Create(ctx, entry)
	})
}

// GetRecent retrieves the most recent audit entries for the activity feed
func (s *auditService) GetRecent(ctx context.Context, limit int) ([]models.ActionLogEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.actionLogRepo.GetRecent(ctx, limit)
}

// tryRecord runs an observability write and swallows its error. Ledger and
// audit appends must never block the flow that triggered them; the failure
// is still visible in the technical log.
func tryRecord(what string, fn func() error) {
	if err := fn(); err != nil {
		logging.Warn("failed to write "+what, zap.Error(err))
	}
}
