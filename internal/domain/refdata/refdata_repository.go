package refdata

import (
	"context"

	"github.com/google/uuid"
	"github.com/tms/backend/internal/domain/shared"
)

// EntryRepository defines persistence operations for reference data
type EntryRepository interface {
	shared.TenantRepository[Entry]

	// FindByCategoryAndCode resolves one entry by its natural key
	FindByCategoryAndCode(ctx context.Context, tenantID uuid.UUID, category Category, code string) (*Entry, error)

	// FindByCategory lists a category's entries, optionally including
	// deactivated ones, ordered by sort order then code
	FindByCategory(ctx context.Context, tenantID uuid.UUID, category Category, includeInactive bool) ([]Entry, error)

	// FindChildren lists the direct children of an entry
	FindChildren(ctx context.Context, tenantID, parentID uuid.UUID) ([]Entry, error)

	// ExistsByCategoryAndCode checks the natural key for uniqueness
	ExistsByCategoryAndCode(ctx context.Context, tenantID uuid.UUID, category Category, code string) (bool, error)
}
