package identity

import (
	"github.com/tms/backend/internal/domain/shared"
)

// Role event types
const (
	RoleCreatedEventType           = "identity.role.created"
	RolePermissionGrantedEventType = "identity.role.permission_granted"
	RolePermissionRevokedEventType = "identity.role.permission_revoked"
)

// RoleCreatedEvent is raised when a new role is created
type RoleCreatedEvent struct {
	shared.BaseDomainEvent
	Code string `json:"code"`
	Name string `json:"name"`
}

// NewRoleCreatedEvent creates a new RoleCreatedEvent
func NewRoleCreatedEvent(role *Role) *RoleCreatedEvent {
	return &RoleCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(RoleCreatedEventType, "Role", role.ID, role.TenantID),
		Code:            role.Code,
		Name:            role.Name,
	}
}

// RolePermissionGrantedEvent is raised when a permission is granted to a role
type RolePermissionGrantedEvent struct {
	shared.BaseDomainEvent
	PermissionCode string `json:"permission_code"`
}

// NewRolePermissionGrantedEvent creates a new RolePermissionGrantedEvent
func NewRolePermissionGrantedEvent(role *Role, perm Permission) *RolePermissionGrantedEvent {
	return &RolePermissionGrantedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(RolePermissionGrantedEventType, "Role", role.ID, role.TenantID),
		PermissionCode:  perm.Code,
	}
}

// RolePermissionRevokedEvent is raised when a permission is revoked from a role
type RolePermissionRevokedEvent struct {
	shared.BaseDomainEvent
	PermissionCode string `json:"permission_code"`
}

// NewRolePermissionRevokedEvent creates a new RolePermissionRevokedEvent
func NewRolePermissionRevokedEvent(role *Role, code string) *RolePermissionRevokedEvent {
	return &RolePermissionRevokedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(RolePermissionRevokedEventType, "Role", role.ID, role.TenantID),
		PermissionCode:  code,
	}
}
