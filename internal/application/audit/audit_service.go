package audit

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tms/backend/internal/domain/audit"
	"github.com/tms/backend/internal/domain/shared"
)

// AuditService reads the audit trail and records explicit audit entries.
// Most records arrive through the Recorder listening on the event bus.
type AuditService struct {
	logRepo audit.LogRepository
	logger  *zap.Logger
}

// NewAuditService creates a new audit service
func NewAuditService(logRepo audit.LogRepository, logger *zap.Logger) *AuditService {
	return &AuditService{logRepo: logRepo, logger: logger}
}

// RecordInput contains the input for an explicit audit record
type RecordInput struct {
	TenantID   uuid.UUID
	ActorID    *uuid.UUID
	Action     string
	EntityType string
	EntityID   uuid.UUID
	Before     string
	After      string
	RequestID  string
}

// Record appends an audit entry
func (s *AuditService) Record(ctx context.Context, input RecordInput) error {
	entry, err := audit.NewLogEntry(input.TenantID, input.Action, input.EntityType, input.EntityID)
	if err != nil {
		return err
	}
	if input.ActorID != nil {
		entry.WithActor(*input.ActorID)
	}
	entry.WithSnapshots(input.Before, input.After).WithRequestID(input.RequestID)

	if err := s.logRepo.Append(ctx, entry); err != nil {
		s.logger.Error("Failed to append audit entry", zap.Error(err))
		return err
	}
	return nil
}

// GetEntityHistory lists the audit trail of one entity, newest first
func (s *AuditService) GetEntityHistory(ctx context.Context, tenantID uuid.UUID, entityType string, entityID uuid.UUID, filter shared.Filter) ([]LogEntryDTO, error) {
	entries, err := s.logRepo.FindByEntity(ctx, tenantID, entityType, entityID, filter)
	if err != nil {
		return nil, err
	}
	dtos := make([]LogEntryDTO, len(entries))
	for i := range entries {
		dtos[i] = *toLogEntryDTO(&entries[i])
	}
	return dtos, nil
}

// GetTenantTrail lists a tenant's audit trail, newest first
func (s *AuditService) GetTenantTrail(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]LogEntryDTO, error) {
	entries, err := s.logRepo.FindByTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	dtos := make([]LogEntryDTO, len(entries))
	for i := range entries {
		dtos[i] = *toLogEntryDTO(&entries[i])
	}
	return dtos, nil
}
