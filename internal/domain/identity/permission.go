package identity

import (
	"strings"

	"github.com/tms/backend/internal/domain/shared"
)

// Resource identifies a protected resource family. Using a dedicated type
// keeps permission construction compile-time checked; handlers can only
// reference resources declared here.
type Resource string

const (
	ResourceTenants         Resource = "tenants"
	ResourceUsers           Resource = "users"
	ResourceRoles           Resource = "roles"
	ResourcePartners        Resource = "partners"
	ResourceOrders          Resource = "orders"
	ResourceShipments       Resource = "shipments"
	ResourceInvoices        Resource = "invoices"
	ResourceCarrierInvoices Resource = "carrier-invoices"
	ResourcePayments        Resource = "payments"
	ResourceBankAccounts    Resource = "bank-accounts"
	ResourceContracts       Resource = "contracts"
	ResourceRates           Resource = "rates"
	ResourceSurcharges      Resource = "surcharges"
	ResourcePricingRules    Resource = "pricing-rules"
	ResourceTours           Resource = "tours"
	ResourceReferenceData   Resource = "reference-data"
	ResourceAuditLogs       Resource = "audit-logs"
	ResourceDocuments       Resource = "documents"
)

// Action identifies an operation on a resource
type Action string

const (
	ActionRead    Action = "read"
	ActionCreate  Action = "create"
	ActionUpdate  Action = "update"
	ActionDelete  Action = "delete"
	ActionApprove Action = "approve"
	ActionProcess Action = "process"
)

// AllResources lists every declared resource, used when seeding role catalogs
var AllResources = []Resource{
	ResourceTenants, ResourceUsers, ResourceRoles, ResourcePartners,
	ResourceOrders, ResourceShipments, ResourceInvoices, ResourceCarrierInvoices,
	ResourcePayments, ResourceBankAccounts, ResourceContracts, ResourceRates,
	ResourceSurcharges, ResourcePricingRules, ResourceTours,
	ResourceReferenceData, ResourceAuditLogs, ResourceDocuments,
}

// Permission represents a functional permission (resource:action pattern).
// It is a value object.
type Permission struct {
	Code     string // e.g., "orders:read"
	Resource Resource
	Action   Action
}

// NewPermission creates a new Permission value object
func NewPermission(resource Resource, action Action) Permission {
	return Permission{
		Code:     string(resource) + ":" + string(action),
		Resource: resource,
		Action:   action,
	}
}

// NewPermissionFromCode creates a Permission from a code string (e.g., "orders:read")
func NewPermissionFromCode(code string) (Permission, error) {
	parts := strings.SplitN(code, ":", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return Permission{}, shared.NewDomainError("INVALID_PERMISSION_CODE", "Permission code must be in format 'resource:action'")
	}
	return NewPermission(Resource(strings.ToLower(parts[0])), Action(strings.ToLower(parts[1]))), nil
}

// Equals checks if two permissions are equal
func (p Permission) Equals(other Permission) bool {
	return p.Code == other.Code
}

// IsEmpty returns true if the permission is empty
func (p Permission) IsEmpty() bool {
	return p.Code == ""
}

// CRUDPermissions returns the four standard permissions for a resource
func CRUDPermissions(resource Resource) []Permission {
	return []Permission{
		NewPermission(resource, ActionRead),
		NewPermission(resource, ActionCreate),
		NewPermission(resource, ActionUpdate),
		NewPermission(resource, ActionDelete),
	}
}
