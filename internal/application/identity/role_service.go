package identity

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tms/backend/internal/domain/identity"
	"github.com/tms/backend/internal/domain/shared"
)

// RoleService handles role administration
type RoleService struct {
	roleRepo identity.RoleRepository
	logger   *zap.Logger
}

// NewRoleService creates a new role service
func NewRoleService(roleRepo identity.RoleRepository, logger *zap.Logger) *RoleService {
	return &RoleService{roleRepo: roleRepo, logger: logger}
}

// CreateRoleInput contains the input for creating a role
type CreateRoleInput struct {
	TenantID    uuid.UUID
	Code        string
	Name        string
	Description string
	Permissions []string
}

// CreateRole creates a tenant-defined role
func (s *RoleService) CreateRole(ctx context.Context, input CreateRoleInput) (*RoleDTO, error) {
	if existing, err := s.roleRepo.FindByCode(ctx, input.TenantID, input.Code); err == nil && existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Role code is already taken")
	}

	role, err := identity.NewRole(input.TenantID, input.Code, input.Name)
	if err != nil {
		return nil, err
	}
	role.SetDescription(input.Description)

	if len(input.Permissions) > 0 {
		perms, err := parsePermissions(input.Permissions)
		if err != nil {
			return nil, err
		}
		if err := role.SetPermissions(perms); err != nil {
			return nil, err
		}
	}

	if err := s.roleRepo.Save(ctx, role); err != nil {
		s.logger.Error("Failed to create role", zap.Error(err))
		return nil, err
	}

	s.logger.Info("Role created",
		zap.String("role_id", role.ID.String()),
		zap.String("code", role.Code))

	return toRoleDTO(role), nil
}

// GetRole fetches a role by ID within a tenant
func (s *RoleService) GetRole(ctx context.Context, tenantID, roleID uuid.UUID) (*RoleDTO, error) {
	role, err := s.roleRepo.FindByIDForTenant(ctx, tenantID, roleID)
	if err != nil {
		return nil, err
	}
	return toRoleDTO(role), nil
}

// ListRoles lists a tenant's roles with pagination
func (s *RoleService) ListRoles(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[RoleDTO], error) {
	roles, err := s.roleRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.roleRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}

	dtos := make([]RoleDTO, len(roles))
	for i := range roles {
		dtos[i] = *toRoleDTO(&roles[i])
	}
	result := shared.NewPaginated(dtos, total, filter.Page, filter.PageSize)
	return &result, nil
}

// UpdateRoleInput contains the input for updating a role
type UpdateRoleInput struct {
	TenantID    uuid.UUID
	RoleID      uuid.UUID
	Name        *string
	Description *string
	Permissions []string
}

// UpdateRole updates a role's name, description, and permission set.
// Permission changes take effect for users on their next token issue.
func (s *RoleService) UpdateRole(ctx context.Context, input UpdateRoleInput) (*RoleDTO, error) {
	role, err := s.roleRepo.FindByIDForTenant(ctx, input.TenantID, input.RoleID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if err := role.SetName(*input.Name); err != nil {
			return nil, err
		}
	}
	if input.Description != nil {
		role.SetDescription(*input.Description)
	}
	if input.Permissions != nil {
		perms, err := parsePermissions(input.Permissions)
		if err != nil {
			return nil, err
		}
		if err := role.SetPermissions(perms); err != nil {
			return nil, err
		}
	}

	if err := s.roleRepo.Save(ctx, role); err != nil {
		return nil, err
	}

	return toRoleDTO(role), nil
}

// EnableRole enables a disabled role
func (s *RoleService) EnableRole(ctx context.Context, tenantID, roleID uuid.UUID) error {
	role, err := s.roleRepo.FindByIDForTenant(ctx, tenantID, roleID)
	if err != nil {
		return err
	}
	if err := role.Enable(); err != nil {
		return err
	}
	return s.roleRepo.Save(ctx, role)
}

// DisableRole disables a role; its permissions stop contributing to users
func (s *RoleService) DisableRole(ctx context.Context, tenantID, roleID uuid.UUID) error {
	role, err := s.roleRepo.FindByIDForTenant(ctx, tenantID, roleID)
	if err != nil {
		return err
	}
	if err := role.Disable(); err != nil {
		return err
	}
	return s.roleRepo.Save(ctx, role)
}

// DeleteRole removes a tenant-defined role. System roles cannot be deleted.
func (s *RoleService) DeleteRole(ctx context.Context, tenantID, roleID uuid.UUID) error {
	role, err := s.roleRepo.FindByIDForTenant(ctx, tenantID, roleID)
	if err != nil {
		return err
	}
	if !role.CanDelete() {
		return shared.ErrReadOnly
	}
	return s.roleRepo.Delete(ctx, roleID)
}

// ListPermissions returns the full permission catalog. Permissions are
// compile-time constants, not database rows.
func (s *RoleService) ListPermissions(ctx context.Context) []string {
	codes := make([]string, 0)
	for _, resource := range identity.AllResources {
		for _, perm := range identity.CRUDPermissions(resource) {
			codes = append(codes, perm.Code)
		}
	}
	codes = append(codes,
		identity.NewPermission(identity.ResourceCarrierInvoices, identity.ActionApprove).Code,
		identity.NewPermission(identity.ResourceInvoices, identity.ActionApprove).Code,
		identity.NewPermission(identity.ResourcePayments, identity.ActionProcess).Code,
	)
	return codes
}

func parsePermissions(codes []string) ([]identity.Permission, error) {
	perms := make([]identity.Permission, 0, len(codes))
	for _, code := range codes {
		perm, err := identity.NewPermissionFromCode(code)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_PERMISSION", "Unknown permission: "+code)
		}
		perms = append(perms, perm)
	}
	return perms, nil
}
