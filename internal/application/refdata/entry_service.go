package refdata

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tms/backend/internal/domain/refdata"
	"github.com/tms/backend/internal/domain/shared"
)

// EntryService manages tenant reference data. Entries are soft-deactivated
// rather than deleted so historical records keep resolving their codes.
type EntryService struct {
	entryRepo refdata.EntryRepository
	eventBus  shared.EventBus
	logger    *zap.Logger
}

// NewEntryService creates a new entry service
func NewEntryService(entryRepo refdata.EntryRepository, eventBus shared.EventBus, logger *zap.Logger) *EntryService {
	return &EntryService{
		entryRepo: entryRepo,
		eventBus:  eventBus,
		logger:    logger,
	}
}

// CreateEntryInput contains the input for creating an entry
type CreateEntryInput struct {
	TenantID  uuid.UUID
	Category  string
	Code      string
	Label     string
	SortOrder int
	ParentID  *uuid.UUID
	Metadata  string
}

// CreateEntry creates a reference data entry. The (category, code) pair is
// unique per tenant.
func (s *EntryService) CreateEntry(ctx context.Context, input CreateEntryInput) (*EntryDTO, error) {
	category := refdata.Category(input.Category)
	code := strings.ToUpper(strings.TrimSpace(input.Code))

	exists, err := s.entryRepo.ExistsByCategoryAndCode(ctx, input.TenantID, category, code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "An entry with this code already exists in the category")
	}

	e, err := refdata.NewEntry(input.TenantID, category, code, input.Label)
	if err != nil {
		return nil, err
	}
	if input.SortOrder != 0 {
		if err := e.SetSortOrder(input.SortOrder); err != nil {
			return nil, err
		}
	}
	if input.ParentID != nil {
		parent, err := s.entryRepo.FindByIDForTenant(ctx, input.TenantID, *input.ParentID)
		if err != nil {
			return nil, err
		}
		if parent.Category != category {
			return nil, shared.NewDomainError("INVALID_PARENT", "Parent must belong to the same category")
		}
		if err := e.SetParent(parent.ID); err != nil {
			return nil, err
		}
	}
	if input.Metadata != "" {
		if err := e.SetMetadata(input.Metadata); err != nil {
			return nil, err
		}
	}

	if err := s.entryRepo.Save(ctx, e); err != nil {
		s.logger.Error("Failed to create reference data entry", zap.Error(err))
		return nil, err
	}
	s.publishEvents(ctx, e)

	return toEntryDTO(e), nil
}

// GetEntry fetches an entry by ID within a tenant
func (s *EntryService) GetEntry(ctx context.Context, tenantID, entryID uuid.UUID) (*EntryDTO, error) {
	e, err := s.entryRepo.FindByIDForTenant(ctx, tenantID, entryID)
	if err != nil {
		return nil, err
	}
	return toEntryDTO(e), nil
}

// ResolveCode resolves an entry by its natural key
func (s *EntryService) ResolveCode(ctx context.Context, tenantID uuid.UUID, category, code string) (*EntryDTO, error) {
	e, err := s.entryRepo.FindByCategoryAndCode(ctx, tenantID, refdata.Category(category), strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return nil, err
	}
	return toEntryDTO(e), nil
}

// ListCategory lists a category's entries. Deactivated entries are excluded
// unless includeInactive is set.
func (s *EntryService) ListCategory(ctx context.Context, tenantID uuid.UUID, category string, includeInactive bool) ([]EntryDTO, error) {
	cat := refdata.Category(category)
	if !cat.IsValid() {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Unknown reference data category")
	}
	entries, err := s.entryRepo.FindByCategory(ctx, tenantID, cat, includeInactive)
	if err != nil {
		return nil, err
	}
	dtos := make([]EntryDTO, len(entries))
	for i := range entries {
		dtos[i] = *toEntryDTO(&entries[i])
	}
	return dtos, nil
}

// ListChildren lists the direct children of an entry
func (s *EntryService) ListChildren(ctx context.Context, tenantID, parentID uuid.UUID) ([]EntryDTO, error) {
	if _, err := s.entryRepo.FindByIDForTenant(ctx, tenantID, parentID); err != nil {
		return nil, err
	}
	entries, err := s.entryRepo.FindChildren(ctx, tenantID, parentID)
	if err != nil {
		return nil, err
	}
	dtos := make([]EntryDTO, len(entries))
	for i := range entries {
		dtos[i] = *toEntryDTO(&entries[i])
	}
	return dtos, nil
}

// UpdateEntryInput contains the input for updating an entry.
// Nil fields are left unchanged.
type UpdateEntryInput struct {
	TenantID  uuid.UUID
	EntryID   uuid.UUID
	Label     *string
	SortOrder *int
	ParentID  *uuid.UUID
	Metadata  *string
}

// UpdateEntry updates mutable fields of an editable entry. System entries
// reject every mutation.
func (s *EntryService) UpdateEntry(ctx context.Context, input UpdateEntryInput) (*EntryDTO, error) {
	e, err := s.entryRepo.FindByIDForTenant(ctx, input.TenantID, input.EntryID)
	if err != nil {
		return nil, err
	}

	if input.Label != nil {
		if err := e.UpdateLabel(*input.Label); err != nil {
			return nil, err
		}
	}
	if input.SortOrder != nil {
		if err := e.SetSortOrder(*input.SortOrder); err != nil {
			return nil, err
		}
	}
	if input.ParentID != nil {
		if *input.ParentID == uuid.Nil {
			if err := e.ClearParent(); err != nil {
				return nil, err
			}
		} else {
			parent, err := s.entryRepo.FindByIDForTenant(ctx, input.TenantID, *input.ParentID)
			if err != nil {
				return nil, err
			}
			if parent.Category != e.Category {
				return nil, shared.NewDomainError("INVALID_PARENT", "Parent must belong to the same category")
			}
			if err := e.SetParent(parent.ID); err != nil {
				return nil, err
			}
		}
	}
	if input.Metadata != nil {
		if err := e.SetMetadata(*input.Metadata); err != nil {
			return nil, err
		}
	}

	if err := s.entryRepo.Save(ctx, e); err != nil {
		return nil, err
	}
	return toEntryDTO(e), nil
}

// DeactivateEntry hides an entry from selection lists
func (s *EntryService) DeactivateEntry(ctx context.Context, tenantID, entryID uuid.UUID) error {
	return s.mutate(ctx, tenantID, entryID, func(e *refdata.Entry) error { return e.Deactivate() })
}

// ReactivateEntry makes a deactivated entry selectable again
func (s *EntryService) ReactivateEntry(ctx context.Context, tenantID, entryID uuid.UUID) error {
	return s.mutate(ctx, tenantID, entryID, func(e *refdata.Entry) error { return e.Reactivate() })
}

func (s *EntryService) mutate(ctx context.Context, tenantID, entryID uuid.UUID, fn func(*refdata.Entry) error) error {
	e, err := s.entryRepo.FindByIDForTenant(ctx, tenantID, entryID)
	if err != nil {
		return err
	}
	if err := fn(e); err != nil {
		return err
	}
	if err := s.entryRepo.Save(ctx, e); err != nil {
		return err
	}
	s.publishEvents(ctx, e)
	return nil
}

func (s *EntryService) publishEvents(ctx context.Context, e *refdata.Entry) {
	if s.eventBus == nil {
		return
	}
	events := e.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.eventBus.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish domain events", zap.Error(err))
	}
	e.ClearDomainEvents()
}
