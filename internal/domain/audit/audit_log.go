package audit

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tms/backend/internal/domain/shared"
)

// LogEntry is one append-only audit record. Entries are never updated or
// deleted; corrections are new entries.
type LogEntry struct {
	ID         uuid.UUID
	TenantID   uuid.UUID
	ActorID    *uuid.UUID // User who caused the change, nil for system actions
	Action     string     // e.g. "billing.invoice.status_changed"
	EntityType string
	EntityID   uuid.UUID
	Before     string // JSON snapshot, empty for creations
	After      string // JSON snapshot, empty for deletions
	OccurredAt time.Time
	RequestID  string
}

// NewLogEntry creates an audit record
func NewLogEntry(tenantID uuid.UUID, action, entityType string, entityID uuid.UUID) (*LogEntry, error) {
	action = strings.TrimSpace(action)
	if action == "" {
		return nil, shared.NewDomainError("INVALID_AUDIT", "Audit action cannot be empty")
	}
	entityType = strings.TrimSpace(entityType)
	if entityType == "" {
		return nil, shared.NewDomainError("INVALID_AUDIT", "Audit entity type cannot be empty")
	}

	return &LogEntry{
		ID:         uuid.New(),
		TenantID:   tenantID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		OccurredAt: time.Now(),
	}, nil
}

// WithActor attaches the acting user
func (l *LogEntry) WithActor(actorID uuid.UUID) *LogEntry {
	l.ActorID = &actorID
	return l
}

// WithSnapshots attaches the before/after JSON payloads
func (l *LogEntry) WithSnapshots(before, after string) *LogEntry {
	l.Before = before
	l.After = after
	return l
}

// WithRequestID attaches the correlating request ID
func (l *LogEntry) WithRequestID(requestID string) *LogEntry {
	l.RequestID = requestID
	return l
}

// LogRepository defines persistence for audit records. There is no update
// and no delete.
type LogRepository interface {
	// Append stores a new audit record
	Append(ctx context.Context, entry *LogEntry) error

	// FindByEntity lists the history of one entity, newest first
	FindByEntity(ctx context.Context, tenantID uuid.UUID, entityType string, entityID uuid.UUID, filter shared.Filter) ([]LogEntry, error)

	// FindByTenant lists a tenant's audit trail, newest first
	FindByTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]LogEntry, error)
}
