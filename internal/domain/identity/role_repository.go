package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/tms/backend/internal/domain/shared"
)

// RoleRepository defines persistence operations for roles
type RoleRepository interface {
	shared.TenantRepository[Role]

	// FindByCode finds a role by code within a tenant
	FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*Role, error)

	// FindByIDs loads multiple roles at once; missing IDs are skipped
	FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]Role, error)
}
