package refdata

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/tms/backend/internal/domain/shared"
)

// Category groups reference data entries. Categories are closed: new kinds
// of reference data require a code change, entries within them do not.
type Category string

const (
	CategoryCountry         Category = "country"
	CategoryCurrency        Category = "currency"
	CategoryIncoterm        Category = "incoterm"
	CategoryVehicleType     Category = "vehicle_type"
	CategoryCargoType       Category = "cargo_type"
	CategoryPackagingType   Category = "packaging_type"
	CategoryDelayReason     Category = "delay_reason"
	CategoryDocumentType    Category = "document_type"
	CategoryPaymentTerm     Category = "payment_term"
	CategoryCancelReason    Category = "cancel_reason"
	CategorySurchargeReason Category = "surcharge_reason"
)

// IsValid returns true for a known category
func (c Category) IsValid() bool {
	switch c {
	case CategoryCountry, CategoryCurrency, CategoryIncoterm, CategoryVehicleType,
		CategoryCargoType, CategoryPackagingType, CategoryDelayReason,
		CategoryDocumentType, CategoryPaymentTerm, CategoryCancelReason,
		CategorySurchargeReason:
		return true
	}
	return false
}

var codeRegex = regexp.MustCompile(`^[A-Z0-9][A-Z0-9_\-]{0,49}$`)

// Entry is a single reference data value. (TenantID, Category, Code) is
// unique. Entries are soft-deactivated, never deleted, so historical records
// keep resolving. System entries are seeded by migrations; entries marked
// not editable reject every mutation.
type Entry struct {
	shared.TenantAggregateRoot
	Category   Category
	Code       string
	Label      string
	SortOrder  int
	ParentID   *uuid.UUID // Optional parent entry within the same category
	IsActive   bool
	IsSystem   bool
	IsEditable bool
	Metadata   string // Free-form JSON payload
}

// NewEntry creates an active, editable reference data entry
func NewEntry(tenantID uuid.UUID, category Category, code, label string) (*Entry, error) {
	if !category.IsValid() {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Unknown reference data category")
	}
	code = strings.ToUpper(strings.TrimSpace(code))
	if !codeRegex.MatchString(code) {
		return nil, shared.NewDomainError("INVALID_CODE", "Code must be uppercase alphanumeric with _ or -")
	}
	label = strings.TrimSpace(label)
	if label == "" {
		return nil, shared.NewDomainError("INVALID_LABEL", "Label cannot be empty")
	}

	e := &Entry{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Category:            category,
		Code:                code,
		Label:               label,
		IsActive:            true,
		IsEditable:          true,
	}

	e.AddDomainEvent(NewEntryCreatedEvent(e))

	return e, nil
}

// NewSystemEntry creates a seeded entry that cannot be edited by tenants
func NewSystemEntry(tenantID uuid.UUID, category Category, code, label string) (*Entry, error) {
	e, err := NewEntry(tenantID, category, code, label)
	if err != nil {
		return nil, err
	}
	e.IsSystem = true
	e.IsEditable = false
	return e, nil
}

func (e *Entry) guardEditable() error {
	if !e.IsEditable {
		return shared.ErrReadOnly
	}
	return nil
}

// UpdateLabel changes the display label
func (e *Entry) UpdateLabel(label string) error {
	if err := e.guardEditable(); err != nil {
		return err
	}
	label = strings.TrimSpace(label)
	if label == "" {
		return shared.NewDomainError("INVALID_LABEL", "Label cannot be empty")
	}
	e.Label = label
	e.Touch()
	e.IncrementVersion()
	return nil
}

// SetSortOrder changes the display position
func (e *Entry) SetSortOrder(order int) error {
	if err := e.guardEditable(); err != nil {
		return err
	}
	e.SortOrder = order
	e.Touch()
	e.IncrementVersion()
	return nil
}

// SetParent links the entry under a parent of the same category. The caller
// is responsible for verifying the parent exists and shares the category.
func (e *Entry) SetParent(parentID uuid.UUID) error {
	if err := e.guardEditable(); err != nil {
		return err
	}
	if parentID == uuid.Nil {
		return shared.NewDomainError("INVALID_PARENT", "Parent ID cannot be empty")
	}
	if parentID == e.ID {
		return shared.NewDomainError("INVALID_PARENT", "Entry cannot be its own parent")
	}
	e.ParentID = &parentID
	e.Touch()
	e.IncrementVersion()
	return nil
}

// ClearParent detaches the entry from its parent
func (e *Entry) ClearParent() error {
	if err := e.guardEditable(); err != nil {
		return err
	}
	e.ParentID = nil
	e.Touch()
	e.IncrementVersion()
	return nil
}

// SetMetadata replaces the JSON metadata payload
func (e *Entry) SetMetadata(metadata string) error {
	if err := e.guardEditable(); err != nil {
		return err
	}
	e.Metadata = metadata
	e.Touch()
	e.IncrementVersion()
	return nil
}

// Deactivate hides the entry from selection lists. Existing records that
// reference the entry keep resolving. System entries cannot be deactivated.
func (e *Entry) Deactivate() error {
	if e.IsSystem {
		return shared.ErrReadOnly
	}
	if !e.IsActive {
		return shared.NewDomainError("INVALID_STATE", "Entry is already inactive")
	}
	e.IsActive = false
	e.Touch()
	e.IncrementVersion()
	e.AddDomainEvent(NewEntryDeactivatedEvent(e))
	return nil
}

// Reactivate makes the entry selectable again
func (e *Entry) Reactivate() error {
	if e.IsActive {
		return shared.NewDomainError("INVALID_STATE", "Entry is already active")
	}
	e.IsActive = true
	e.Touch()
	e.IncrementVersion()
	return nil
}
