package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/tms/backend/internal/domain/audit"
)

// AuditLogModel is the persistence model for an audit log entry.
// The table is append-only; rows are never updated or deleted.
type AuditLogModel struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key"`
	TenantID   uuid.UUID  `gorm:"type:uuid;not null;index:idx_audit_tenant_time,priority:1"`
	ActorID    *uuid.UUID `gorm:"type:uuid;index"`
	Action     string     `gorm:"type:varchar(100);not null;index"`
	EntityType string     `gorm:"type:varchar(100);not null;index:idx_audit_entity,priority:1"`
	EntityID   uuid.UUID  `gorm:"type:uuid;not null;index:idx_audit_entity,priority:2"`
	Before     *string    `gorm:"type:jsonb"`
	After      *string    `gorm:"type:jsonb"`
	OccurredAt time.Time  `gorm:"not null;index:idx_audit_tenant_time,priority:2,sort:desc"`
	RequestID  string     `gorm:"type:varchar(64)"`
}

// TableName returns the table name for GORM
func (AuditLogModel) TableName() string {
	return "audit_logs"
}

// ToDomain converts the persistence model to a domain LogEntry.
func (m *AuditLogModel) ToDomain() *audit.LogEntry {
	return &audit.LogEntry{
		ID:         m.ID,
		TenantID:   m.TenantID,
		ActorID:    m.ActorID,
		Action:     m.Action,
		EntityType: m.EntityType,
		EntityID:   m.EntityID,
		Before:     derefJSON(m.Before),
		After:      derefJSON(m.After),
		OccurredAt: m.OccurredAt,
		RequestID:  m.RequestID,
	}
}

// FromDomain populates the persistence model from a domain LogEntry.
func (m *AuditLogModel) FromDomain(e *audit.LogEntry) {
	m.ID = e.ID
	m.TenantID = e.TenantID
	m.ActorID = e.ActorID
	m.Action = e.Action
	m.EntityType = e.EntityType
	m.EntityID = e.EntityID
	m.Before = jsonOrNull(e.Before)
	m.After = jsonOrNull(e.After)
	m.OccurredAt = e.OccurredAt
	m.RequestID = e.RequestID
}

// AuditLogModelFromDomain creates a new persistence model from a domain LogEntry.
func AuditLogModelFromDomain(e *audit.LogEntry) *AuditLogModel {
	m := &AuditLogModel{}
	m.FromDomain(e)
	return m
}

// jsonOrNull maps an absent snapshot to SQL NULL so it satisfies the jsonb column.
func jsonOrNull(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func derefJSON(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
