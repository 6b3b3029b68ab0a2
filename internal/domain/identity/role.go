package identity

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/tms/backend/internal/domain/shared"
)

// Role groups permissions for assignment to users.
// A user's effective permission set is the union over all assigned roles.
type Role struct {
	shared.TenantAggregateRoot
	Code        string
	Name        string
	Description string
	IsSystem    bool // System roles cannot be deleted or renamed by tenants
	IsEnabled   bool
	Permissions []Permission
}

// RolePermission represents the many-to-many relationship between roles and permissions
type RolePermission struct {
	RoleID         uuid.UUID
	PermissionCode string
	TenantID       uuid.UUID
}

// NewRole creates a new tenant-defined role
func NewRole(tenantID uuid.UUID, code, name string) (*Role, error) {
	if err := validateRoleCode(code); err != nil {
		return nil, err
	}
	if err := validateRoleName(name); err != nil {
		return nil, err
	}

	role := &Role{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                strings.ToLower(strings.TrimSpace(code)),
		Name:                strings.TrimSpace(name),
		IsEnabled:           true,
		Permissions:         make([]Permission, 0),
	}

	role.AddDomainEvent(NewRoleCreatedEvent(role))

	return role, nil
}

// NewSystemRole creates a system role seeded at tenant provisioning
func NewSystemRole(tenantID uuid.UUID, code, name string) (*Role, error) {
	role, err := NewRole(tenantID, code, name)
	if err != nil {
		return nil, err
	}
	role.IsSystem = true
	return role, nil
}

// SetName renames the role
func (r *Role) SetName(name string) error {
	if r.IsSystem {
		return shared.NewDomainError("SYSTEM_ROLE", "System roles cannot be renamed")
	}
	if err := validateRoleName(name); err != nil {
		return err
	}

	r.Name = strings.TrimSpace(name)
	r.Touch()
	r.IncrementVersion()

	return nil
}

// SetDescription sets the role description
func (r *Role) SetDescription(description string) {
	r.Description = description
	r.Touch()
	r.IncrementVersion()
}

// Enable enables the role
func (r *Role) Enable() error {
	if r.IsEnabled {
		return shared.NewDomainError("ALREADY_ENABLED", "Role is already enabled")
	}
	r.IsEnabled = true
	r.Touch()
	r.IncrementVersion()
	return nil
}

// Disable disables the role
func (r *Role) Disable() error {
	if !r.IsEnabled {
		return shared.NewDomainError("ALREADY_DISABLED", "Role is already disabled")
	}
	if r.IsSystem {
		return shared.NewDomainError("SYSTEM_ROLE", "System roles cannot be disabled")
	}
	r.IsEnabled = false
	r.Touch()
	r.IncrementVersion()
	return nil
}

// GrantPermission grants a permission to the role
func (r *Role) GrantPermission(perm Permission) error {
	if perm.IsEmpty() {
		return shared.NewDomainError("INVALID_PERMISSION", "Permission cannot be empty")
	}

	for _, p := range r.Permissions {
		if p.Equals(perm) {
			return shared.NewDomainError("PERMISSION_ALREADY_GRANTED", "Role already has this permission")
		}
	}

	r.Permissions = append(r.Permissions, perm)
	r.Touch()
	r.IncrementVersion()

	r.AddDomainEvent(NewRolePermissionGrantedEvent(r, perm))

	return nil
}

// RevokePermission removes a permission from the role by code
func (r *Role) RevokePermission(code string) error {
	found := false
	newPerms := make([]Permission, 0, len(r.Permissions))
	for _, p := range r.Permissions {
		if p.Code != code {
			newPerms = append(newPerms, p)
		} else {
			found = true
		}
	}

	if !found {
		return shared.NewDomainError("PERMISSION_NOT_GRANTED", "Role does not have this permission")
	}

	r.Permissions = newPerms
	r.Touch()
	r.IncrementVersion()

	r.AddDomainEvent(NewRolePermissionRevokedEvent(r, code))

	return nil
}

// SetPermissions replaces the role's permission set
func (r *Role) SetPermissions(permissions []Permission) error {
	seen := make(map[string]bool)
	unique := make([]Permission, 0, len(permissions))
	for _, p := range permissions {
		if p.IsEmpty() {
			return shared.NewDomainError("INVALID_PERMISSION", "Permission cannot be empty")
		}
		if !seen[p.Code] {
			seen[p.Code] = true
			unique = append(unique, p)
		}
	}

	r.Permissions = unique
	r.Touch()
	r.IncrementVersion()

	return nil
}

// HasPermission checks if the role includes the permission code
func (r *Role) HasPermission(code string) bool {
	for _, p := range r.Permissions {
		if p.Code == code {
			return true
		}
	}
	return false
}

// PermissionCodes returns the codes of all granted permissions
func (r *Role) PermissionCodes() []string {
	codes := make([]string, 0, len(r.Permissions))
	for _, p := range r.Permissions {
		codes = append(codes, p.Code)
	}
	return codes
}

// CanDelete returns true if the role may be deleted
func (r *Role) CanDelete() bool {
	return !r.IsSystem
}

func validateRoleCode(code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return shared.NewDomainError("INVALID_ROLE_CODE", "Role code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_ROLE_CODE", "Role code cannot exceed 50 characters")
	}
	codeRegex := regexp.MustCompile(`^[a-zA-Z0-9_\-]+$`)
	if !codeRegex.MatchString(code) {
		return shared.NewDomainError("INVALID_ROLE_CODE", "Role code can only contain letters, numbers, underscores, and hyphens")
	}
	return nil
}

func validateRoleName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_ROLE_NAME", "Role name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_ROLE_NAME", "Role name cannot exceed 100 characters")
	}
	return nil
}
