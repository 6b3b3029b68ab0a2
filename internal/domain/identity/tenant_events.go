package identity

import (
	"github.com/tms/backend/internal/domain/shared"
)

// Tenant event types
const (
	TenantCreatedEventType       = "identity.tenant.created"
	TenantStatusChangedEventType = "identity.tenant.status_changed"
)

// TenantCreatedEvent is raised when a new tenant is provisioned
type TenantCreatedEvent struct {
	shared.BaseDomainEvent
	Code string `json:"code"`
	Name string `json:"name"`
}

// NewTenantCreatedEvent creates a new TenantCreatedEvent
func NewTenantCreatedEvent(tenant *Tenant) *TenantCreatedEvent {
	return &TenantCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(TenantCreatedEventType, "Tenant", tenant.ID, tenant.ID),
		Code:            tenant.Code,
		Name:            tenant.Name,
	}
}

// TenantStatusChangedEvent is raised when a tenant's status changes
type TenantStatusChangedEvent struct {
	shared.BaseDomainEvent
	OldStatus TenantStatus `json:"old_status"`
	NewStatus TenantStatus `json:"new_status"`
}

// NewTenantStatusChangedEvent creates a new TenantStatusChangedEvent
func NewTenantStatusChangedEvent(tenant *Tenant, oldStatus, newStatus TenantStatus) *TenantStatusChangedEvent {
	return &TenantStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(TenantStatusChangedEventType, "Tenant", tenant.ID, tenant.ID),
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}
