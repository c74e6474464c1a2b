package core

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"inkmatch-backend/internal/db"
	"inkmatch-backend/internal/models"
)

// auditService implements the AuditService interface.
type auditService struct {
	auditRepo db.AuditRepository
	logger    *zap.Logger
}

// NewAuditService creates a new AuditService instance.
func NewAuditService(auditRepo db.AuditRepository, logger *zap.Logger) AuditService {
	return &auditService{
		auditRepo: auditRepo,
		logger:    logger,
	}
}

// Record writes an audit entry for an admin mutation. The mutation has
// already happened, so a failed audit write is logged but never surfaced to
// the caller.
func (s *auditService) Record(ctx context.Context, actor, action, targetType, target string, details map[string]interface{}) {
	entry := models.AuditLog{
		Actor:      actor,
		Action:     action,
		TargetType: targetType,
		Target:     target,
		Details:    details,
	}
	if err := s.auditRepo.Create(ctx, entry); err != nil {
		s.logger.Warn("Failed to record audit entry",
			zap.String("actor", actor),
			zap.String("action", action),
			zap.String("target", target),
			zap.Error(err),
		)
	}
}

// ListAuditLogs returns the most recent entries, newest first.
func (s *auditService) ListAuditLogs(ctx context.Context, limit int) ([]*models.AuditLog, error) {
	logs, err := s.auditRepo.List(ctx, limit, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("failed to list audit logs: %w", err)
	}
	return logs, nil
}
