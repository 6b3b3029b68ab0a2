package partner

import (
	"github.com/tms/backend/internal/domain/shared"
)

// Partner event types
const (
	PartnerCreatedEventType       = "partner.created"
	PartnerStatusChangedEventType = "partner.status_changed"
)

// PartnerCreatedEvent is raised when a new partner is created
type PartnerCreatedEvent struct {
	shared.BaseDomainEvent
	Code string      `json:"code"`
	Name string      `json:"name"`
	Kind PartnerType `json:"partner_type"`
}

// NewPartnerCreatedEvent creates a new PartnerCreatedEvent
func NewPartnerCreatedEvent(p *Partner) *PartnerCreatedEvent {
	return &PartnerCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(PartnerCreatedEventType, "Partner", p.ID, p.TenantID),
		Code:            p.Code,
		Name:            p.Name,
		Kind:            p.Type,
	}
}

// PartnerStatusChangedEvent is raised when a partner's status changes
type PartnerStatusChangedEvent struct {
	shared.BaseDomainEvent
	OldStatus PartnerStatus `json:"old_status"`
	NewStatus PartnerStatus `json:"new_status"`
}

// NewPartnerStatusChangedEvent creates a new PartnerStatusChangedEvent
func NewPartnerStatusChangedEvent(p *Partner, oldStatus, newStatus PartnerStatus) *PartnerStatusChangedEvent {
	return &PartnerStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(PartnerStatusChangedEventType, "Partner", p.ID, p.TenantID),
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}
