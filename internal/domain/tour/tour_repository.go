package tour

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tms/backend/internal/domain/shared"
)

// TourRepository defines persistence operations for tours.
// Save persists the aggregate with its stops atomically.
type TourRepository interface {
	shared.TenantRepository[Tour]

	// FindByNumber finds a tour by its number within a tenant
	FindByNumber(ctx context.Context, tenantID uuid.UUID, tourNumber string) (*Tour, error)

	// FindByDate finds all tours scheduled for a day
	FindByDate(ctx context.Context, tenantID uuid.UUID, day time.Time) ([]Tour, error)

	// SaveWithLock persists the tour with an optimistic concurrency check
	SaveWithLock(ctx context.Context, t *Tour, expectedVersion int) error
}
