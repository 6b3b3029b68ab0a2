package shipment

import (
	"context"

	"github.com/google/uuid"
	"github.com/tms/backend/internal/domain/shared"
)

// ShipmentRepository defines persistence operations for shipments.
// Save persists the aggregate with segments, units, tracking events,
// and documents atomically.
type ShipmentRepository interface {
	shared.TenantRepository[Shipment]

	// FindByNumber finds a shipment by its number within a tenant
	FindByNumber(ctx context.Context, tenantID uuid.UUID, shipmentNumber string) (*Shipment, error)

	// FindByOrder finds the shipment created from an order, if any
	FindByOrder(ctx context.Context, tenantID, orderID uuid.UUID) (*Shipment, error)

	// SaveWithLock persists the shipment with an optimistic concurrency check
	SaveWithLock(ctx context.Context, s *Shipment, expectedVersion int) error
}
