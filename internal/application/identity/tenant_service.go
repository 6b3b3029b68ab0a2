package identity

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tms/backend/internal/domain/identity"
	"github.com/tms/backend/internal/domain/shared"
)

// TenantService handles tenant administration. These operations are
// platform-level: they act across tenants and require the tenants resource
// permission, which only platform operator roles carry.
type TenantService struct {
	tenantRepo identity.TenantRepository
	userRepo   identity.UserRepository
	roleRepo   identity.RoleRepository
	logger     *zap.Logger
}

// NewTenantService creates a new tenant service
func NewTenantService(
	tenantRepo identity.TenantRepository,
	userRepo identity.UserRepository,
	roleRepo identity.RoleRepository,
	logger *zap.Logger,
) *TenantService {
	return &TenantService{
		tenantRepo: tenantRepo,
		userRepo:   userRepo,
		roleRepo:   roleRepo,
		logger:     logger,
	}
}

// CreateTenantInput contains the input for provisioning a tenant
type CreateTenantInput struct {
	Code          string
	Name          string
	Country       string
	ContactName   string
	ContactEmail  string
	ContactPhone  string
	AdminUsername string
	AdminPassword string
}

// CreateTenantResult contains the provisioned tenant and its admin user
type CreateTenantResult struct {
	Tenant    TenantDTO
	AdminUser UserDTO
}

// CreateTenant provisions a new tenant with an admin role and admin user
func (s *TenantService) CreateTenant(ctx context.Context, input CreateTenantInput) (*CreateTenantResult, error) {
	if existing, err := s.tenantRepo.FindByCode(ctx, input.Code); err == nil && existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Tenant code is already taken")
	}

	tenant, err := identity.NewTenant(input.Code, input.Name)
	if err != nil {
		return nil, err
	}
	if input.Country != "" {
		if err := tenant.SetCountry(input.Country); err != nil {
			return nil, err
		}
	}
	if input.ContactName != "" || input.ContactEmail != "" || input.ContactPhone != "" {
		if err := tenant.SetContact(input.ContactName, input.ContactEmail, input.ContactPhone); err != nil {
			return nil, err
		}
	}

	if err := s.tenantRepo.Save(ctx, tenant); err != nil {
		s.logger.Error("Failed to create tenant", zap.Error(err))
		return nil, err
	}

	adminRole, err := identity.NewSystemRole(tenant.ID, "ADMIN", "Administrator")
	if err != nil {
		return nil, err
	}
	allPerms := make([]identity.Permission, 0)
	for _, resource := range identity.AllResources {
		allPerms = append(allPerms, identity.CRUDPermissions(resource)...)
	}
	allPerms = append(allPerms,
		identity.NewPermission(identity.ResourceCarrierInvoices, identity.ActionApprove),
		identity.NewPermission(identity.ResourceCarrierInvoices, identity.ActionProcess),
		identity.NewPermission(identity.ResourceInvoices, identity.ActionApprove),
		identity.NewPermission(identity.ResourcePayments, identity.ActionProcess),
	)
	if err := adminRole.SetPermissions(allPerms); err != nil {
		return nil, err
	}
	if err := s.roleRepo.Save(ctx, adminRole); err != nil {
		s.logger.Error("Failed to create admin role", zap.Error(err))
		return nil, err
	}

	adminUser, err := identity.NewActiveUser(tenant.ID, input.AdminUsername, input.AdminPassword)
	if err != nil {
		return nil, err
	}
	if input.ContactEmail != "" {
		if err := adminUser.SetEmail(input.ContactEmail); err != nil {
			return nil, err
		}
	}
	if err := adminUser.AssignRole(adminRole.ID); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, adminUser); err != nil {
		s.logger.Error("Failed to create admin user", zap.Error(err))
		return nil, err
	}

	s.logger.Info("Tenant provisioned",
		zap.String("tenant_id", tenant.ID.String()),
		zap.String("code", tenant.Code))

	return &CreateTenantResult{
		Tenant:    *toTenantDTO(tenant),
		AdminUser: *toUserDTO(adminUser),
	}, nil
}

// GetTenant fetches a tenant by ID
func (s *TenantService) GetTenant(ctx context.Context, tenantID uuid.UUID) (*TenantDTO, error) {
	tenant, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return toTenantDTO(tenant), nil
}

// ListTenants lists all tenants with pagination
func (s *TenantService) ListTenants(ctx context.Context, filter shared.Filter) (*shared.Paginated[TenantDTO], error) {
	tenants, err := s.tenantRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.tenantRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	dtos := make([]TenantDTO, len(tenants))
	for i := range tenants {
		dtos[i] = *toTenantDTO(&tenants[i])
	}
	result := shared.NewPaginated(dtos, total, filter.Page, filter.PageSize)
	return &result, nil
}

// UpdateTenantInput contains the input for updating a tenant
type UpdateTenantInput struct {
	TenantID     uuid.UUID
	Name         *string
	Country      *string
	ContactName  *string
	ContactEmail *string
	ContactPhone *string
}

// UpdateTenant updates tenant contact details
func (s *TenantService) UpdateTenant(ctx context.Context, input UpdateTenantInput) (*TenantDTO, error) {
	tenant, err := s.tenantRepo.FindByID(ctx, input.TenantID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		tenant.Name = *input.Name
		tenant.Touch()
	}
	if input.Country != nil {
		if err := tenant.SetCountry(*input.Country); err != nil {
			return nil, err
		}
	}
	if input.ContactName != nil || input.ContactEmail != nil || input.ContactPhone != nil {
		name := tenant.ContactName
		email := tenant.ContactEmail
		phone := tenant.ContactPhone
		if input.ContactName != nil {
			name = *input.ContactName
		}
		if input.ContactEmail != nil {
			email = *input.ContactEmail
		}
		if input.ContactPhone != nil {
			phone = *input.ContactPhone
		}
		if err := tenant.SetContact(name, email, phone); err != nil {
			return nil, err
		}
	}

	if err := s.tenantRepo.Save(ctx, tenant); err != nil {
		return nil, err
	}

	return toTenantDTO(tenant), nil
}

// SuspendTenant suspends a tenant; its users can no longer log in
func (s *TenantService) SuspendTenant(ctx context.Context, tenantID uuid.UUID) error {
	tenant, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		return err
	}
	if err := tenant.Suspend(); err != nil {
		return err
	}
	return s.tenantRepo.Save(ctx, tenant)
}

// ReactivateTenant lifts a suspension
func (s *TenantService) ReactivateTenant(ctx context.Context, tenantID uuid.UUID) error {
	tenant, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		return err
	}
	if err := tenant.Reactivate(); err != nil {
		return err
	}
	return s.tenantRepo.Save(ctx, tenant)
}
