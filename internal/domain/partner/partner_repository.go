package partner

import (
	"context"

	"github.com/google/uuid"
	"github.com/tms/backend/internal/domain/shared"
)

// PartnerRepository defines persistence operations for partners.
// Save persists the aggregate with all owned sub-entities.
type PartnerRepository interface {
	shared.TenantRepository[Partner]

	// FindByCode finds a partner by code within a tenant
	FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*Partner, error)

	// FindByType lists partners of a given type within a tenant
	FindByType(ctx context.Context, tenantID uuid.UUID, partnerType PartnerType, filter shared.Filter) ([]Partner, error)

	// SaveWithLock persists the partner with an optimistic concurrency check
	SaveWithLock(ctx context.Context, p *Partner, expectedVersion int) error
}
