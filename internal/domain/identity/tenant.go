package identity

import (
	"regexp"
	"strings"

	"github.com/tms/backend/internal/domain/shared"
)

// TenantStatus represents the status of a tenant
type TenantStatus string

const (
	TenantStatusActive    TenantStatus = "active"
	TenantStatusSuspended TenantStatus = "suspended"
	TenantStatusCancelled TenantStatus = "cancelled"
)

// IsValid returns true for a known tenant status
func (s TenantStatus) IsValid() bool {
	switch s {
	case TenantStatusActive, TenantStatusSuspended, TenantStatusCancelled:
		return true
	}
	return false
}

// Tenant is an isolated customer organization. It is the isolation boundary:
// all business data is partitioned by tenant ID. The tenant aggregate itself
// is global, not tenant-scoped.
type Tenant struct {
	shared.BaseAggregateRoot
	Code         string
	Name         string
	Status       TenantStatus
	ContactName  string
	ContactEmail string
	ContactPhone string
	Country      string
}

// NewTenant creates a new active tenant
func NewTenant(code, name string) (*Tenant, error) {
	if err := validateTenantCode(code); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_TENANT_NAME", "Tenant name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_TENANT_NAME", "Tenant name cannot exceed 200 characters")
	}

	tenant := &Tenant{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToLower(strings.TrimSpace(code)),
		Name:              name,
		Status:            TenantStatusActive,
	}

	tenant.AddDomainEvent(NewTenantCreatedEvent(tenant))

	return tenant, nil
}

// SetContact sets the tenant's contact information
func (t *Tenant) SetContact(name, email, phone string) error {
	if email != "" {
		if err := validateEmail(email); err != nil {
			return err
		}
	}

	t.ContactName = strings.TrimSpace(name)
	t.ContactEmail = strings.ToLower(strings.TrimSpace(email))
	t.ContactPhone = strings.TrimSpace(phone)
	t.Touch()
	t.IncrementVersion()

	return nil
}

// SetCountry sets the tenant's country (ISO 3166-1 alpha-2)
func (t *Tenant) SetCountry(country string) error {
	country = strings.ToUpper(strings.TrimSpace(country))
	if country != "" && len(country) != 2 {
		return shared.NewDomainError("INVALID_COUNTRY", "Country must be a two-letter ISO code")
	}
	t.Country = country
	t.Touch()
	t.IncrementVersion()
	return nil
}

// Suspend suspends the tenant; requests from its users are rejected
func (t *Tenant) Suspend() error {
	if t.Status != TenantStatusActive {
		return shared.NewDomainError("INVALID_STATE", "Only active tenants can be suspended")
	}

	t.Status = TenantStatusSuspended
	t.Touch()
	t.IncrementVersion()

	t.AddDomainEvent(NewTenantStatusChangedEvent(t, TenantStatusActive, TenantStatusSuspended))

	return nil
}

// Reactivate reactivates a suspended tenant
func (t *Tenant) Reactivate() error {
	if t.Status != TenantStatusSuspended {
		return shared.NewDomainError("INVALID_STATE", "Only suspended tenants can be reactivated")
	}

	t.Status = TenantStatusActive
	t.Touch()
	t.IncrementVersion()

	t.AddDomainEvent(NewTenantStatusChangedEvent(t, TenantStatusSuspended, TenantStatusActive))

	return nil
}

// Cancel cancels the tenant permanently
func (t *Tenant) Cancel() error {
	if t.Status == TenantStatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Tenant is already cancelled")
	}

	oldStatus := t.Status
	t.Status = TenantStatusCancelled
	t.Touch()
	t.IncrementVersion()

	t.AddDomainEvent(NewTenantStatusChangedEvent(t, oldStatus, TenantStatusCancelled))

	return nil
}

// IsActive returns true if the tenant is active
func (t *Tenant) IsActive() bool {
	return t.Status == TenantStatusActive
}

func validateTenantCode(code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return shared.NewDomainError("INVALID_TENANT_CODE", "Tenant code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_TENANT_CODE", "Tenant code cannot exceed 50 characters")
	}
	codeRegex := regexp.MustCompile(`^[a-zA-Z0-9_\-]+$`)
	if !codeRegex.MatchString(code) {
		return shared.NewDomainError("INVALID_TENANT_CODE", "Tenant code can only contain letters, numbers, underscores, and hyphens")
	}
	return nil
}
