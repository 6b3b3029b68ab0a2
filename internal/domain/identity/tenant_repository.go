package identity

import (
	"context"

	"github.com/tms/backend/internal/domain/shared"
)

// TenantRepository defines persistence operations for tenants
type TenantRepository interface {
	shared.Repository[Tenant]

	// FindByCode finds a tenant by its unique code
	FindByCode(ctx context.Context, code string) (*Tenant, error)
}
