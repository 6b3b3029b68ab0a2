package order

import (
	"context"

	"github.com/google/uuid"
	"github.com/tms/backend/internal/domain/shared"
)

// OrderRepository defines persistence operations for orders.
// Save persists the aggregate with all lines atomically.
type OrderRepository interface {
	shared.TenantRepository[Order]

	// FindByNumber finds an order by its number within a tenant
	FindByNumber(ctx context.Context, tenantID uuid.UUID, orderNumber string) (*Order, error)

	// FindByCustomer lists orders of a customer within a tenant
	FindByCustomer(ctx context.Context, tenantID, customerID uuid.UUID, filter shared.Filter) ([]Order, error)

	// SaveWithLock persists the order with an optimistic concurrency check
	SaveWithLock(ctx context.Context, o *Order, expectedVersion int) error
}
