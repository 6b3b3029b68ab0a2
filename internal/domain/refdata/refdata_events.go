package refdata

import (
	"github.com/tms/backend/internal/domain/shared"
)

// Reference data event types
const (
	EntryCreatedEventType     = "refdata.entry.created"
	EntryDeactivatedEventType = "refdata.entry.deactivated"
)

// EntryCreatedEvent is raised when a reference data entry is created
type EntryCreatedEvent struct {
	shared.BaseDomainEvent
	Category Category `json:"category"`
	Code     string   `json:"code"`
}

// NewEntryCreatedEvent creates a new EntryCreatedEvent
func NewEntryCreatedEvent(e *Entry) *EntryCreatedEvent {
	return &EntryCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EntryCreatedEventType, "ReferenceDataEntry", e.ID, e.TenantID),
		Category:        e.Category,
		Code:            e.Code,
	}
}

// EntryDeactivatedEvent is raised when an entry is soft-deactivated
type EntryDeactivatedEvent struct {
	shared.BaseDomainEvent
	Category Category `json:"category"`
	Code     string   `json:"code"`
}

// NewEntryDeactivatedEvent creates a new EntryDeactivatedEvent
func NewEntryDeactivatedEvent(e *Entry) *EntryDeactivatedEvent {
	return &EntryDeactivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EntryDeactivatedEventType, "ReferenceDataEntry", e.ID, e.TenantID),
		Category:        e.Category,
		Code:            e.Code,
	}
}
