package audit

import (
	"time"

	"github.com/google/uuid"

	"github.com/tms/backend/internal/domain/audit"
)

// LogEntryDTO is the audit record representation
type LogEntryDTO struct {
	ID         uuid.UUID  `json:"id"`
	ActorID    *uuid.UUID `json:"actor_id,omitempty"`
	Action     string     `json:"action"`
	EntityType string     `json:"entity_type"`
	EntityID   uuid.UUID  `json:"entity_id"`
	Before     string     `json:"before,omitempty"`
	After      string     `json:"after,omitempty"`
	OccurredAt time.Time  `json:"occurred_at"`
	RequestID  string     `json:"request_id,omitempty"`
}

func toLogEntryDTO(l *audit.LogEntry) *LogEntryDTO {
	return &LogEntryDTO{
		ID:         l.ID,
		ActorID:    l.ActorID,
		Action:     l.Action,
		EntityType: l.EntityType,
		EntityID:   l.EntityID,
		Before:     l.Before,
		After:      l.After,
		OccurredAt: l.OccurredAt,
		RequestID:  l.RequestID,
	}
}
