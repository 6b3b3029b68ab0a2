package pricing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tms/backend/internal/domain/shared"
)

// ContractRepository defines persistence operations for contracts.
// Save persists the aggregate with rates and surcharges atomically.
type ContractRepository interface {
	shared.TenantRepository[Contract]

	// FindByNumber finds a contract by its number within a tenant
	FindByNumber(ctx context.Context, tenantID uuid.UUID, contractNumber string) (*Contract, error)

	// FindActiveByPartner finds the partner's contracts valid at the given time
	FindActiveByPartner(ctx context.Context, tenantID, partnerID uuid.UUID, at time.Time) ([]Contract, error)

	// FindActiveExpiredBefore finds contracts still marked active whose
	// validity window ended before the given time
	FindActiveExpiredBefore(ctx context.Context, tenantID uuid.UUID, asOf time.Time) ([]Contract, error)

	// SaveWithLock persists the contract with an optimistic concurrency check
	SaveWithLock(ctx context.Context, c *Contract, expectedVersion int) error
}

// PricingRuleRepository defines persistence operations for pricing rules
type PricingRuleRepository interface {
	shared.TenantRepository[PricingRule]

	// FindEnabled returns the tenant's enabled rules ordered by priority
	FindEnabled(ctx context.Context, tenantID uuid.UUID) ([]PricingRule, error)
}
