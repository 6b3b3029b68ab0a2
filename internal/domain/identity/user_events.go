package identity

import (
	"github.com/google/uuid"
	"github.com/tms/backend/internal/domain/shared"
)

// User event types
const (
	UserCreatedEventType         = "identity.user.created"
	UserPasswordChangedEventType = "identity.user.password_changed"
	UserRoleAssignedEventType    = "identity.user.role_assigned"
	UserRoleRemovedEventType     = "identity.user.role_removed"
	UserStatusChangedEventType   = "identity.user.status_changed"
)

// UserCreatedEvent is raised when a new user is created
type UserCreatedEvent struct {
	shared.BaseDomainEvent
	Username string `json:"username"`
}

// NewUserCreatedEvent creates a new UserCreatedEvent
func NewUserCreatedEvent(user *User) *UserCreatedEvent {
	return &UserCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(UserCreatedEventType, "User", user.ID, user.TenantID),
		Username:        user.Username,
	}
}

// UserPasswordChangedEvent is raised when a user's password changes
type UserPasswordChangedEvent struct {
	shared.BaseDomainEvent
	Username string `json:"username"`
}

// NewUserPasswordChangedEvent creates a new UserPasswordChangedEvent
func NewUserPasswordChangedEvent(user *User) *UserPasswordChangedEvent {
	return &UserPasswordChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(UserPasswordChangedEventType, "User", user.ID, user.TenantID),
		Username:        user.Username,
	}
}

// UserRoleAssignedEvent is raised when a role is assigned to a user
type UserRoleAssignedEvent struct {
	shared.BaseDomainEvent
	RoleID uuid.UUID `json:"role_id"`
}

// NewUserRoleAssignedEvent creates a new UserRoleAssignedEvent
func NewUserRoleAssignedEvent(user *User, roleID uuid.UUID) *UserRoleAssignedEvent {
	return &UserRoleAssignedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(UserRoleAssignedEventType, "User", user.ID, user.TenantID),
		RoleID:          roleID,
	}
}

// UserRoleRemovedEvent is raised when a role is removed from a user
type UserRoleRemovedEvent struct {
	shared.BaseDomainEvent
	RoleID uuid.UUID `json:"role_id"`
}

// NewUserRoleRemovedEvent creates a new UserRoleRemovedEvent
func NewUserRoleRemovedEvent(user *User, roleID uuid.UUID) *UserRoleRemovedEvent {
	return &UserRoleRemovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(UserRoleRemovedEventType, "User", user.ID, user.TenantID),
		RoleID:          roleID,
	}
}

// UserStatusChangedEvent is raised when a user's status changes
type UserStatusChangedEvent struct {
	shared.BaseDomainEvent
	OldStatus UserStatus `json:"old_status"`
	NewStatus UserStatus `json:"new_status"`
}

// NewUserStatusChangedEvent creates a new UserStatusChangedEvent
func NewUserStatusChangedEvent(user *User, oldStatus, newStatus UserStatus) *UserStatusChangedEvent {
	return &UserStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(UserStatusChangedEventType, "User", user.ID, user.TenantID),
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}
