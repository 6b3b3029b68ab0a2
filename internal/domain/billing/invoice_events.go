package billing

import (
	"github.com/tms/backend/internal/domain/shared"
)

// Invoice event types
const (
	InvoiceCreatedEventType       = "billing.invoice.created"
	InvoiceStatusChangedEventType = "billing.invoice.status_changed"
)

// InvoiceCreatedEvent is raised when a new customer invoice is created
type InvoiceCreatedEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string `json:"invoice_number"`
	CustomerID    string `json:"customer_id"`
}

// NewInvoiceCreatedEvent creates a new InvoiceCreatedEvent
func NewInvoiceCreatedEvent(inv *Invoice) *InvoiceCreatedEvent {
	return &InvoiceCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(InvoiceCreatedEventType, "Invoice", inv.ID, inv.TenantID),
		InvoiceNumber:   inv.InvoiceNumber,
		CustomerID:      inv.CustomerID.String(),
	}
}

// InvoiceStatusChangedEvent is raised on every invoice status transition
type InvoiceStatusChangedEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string        `json:"invoice_number"`
	OldStatus     InvoiceStatus `json:"old_status"`
	NewStatus     InvoiceStatus `json:"new_status"`
}

// NewInvoiceStatusChangedEvent creates a new InvoiceStatusChangedEvent
func NewInvoiceStatusChangedEvent(inv *Invoice, oldStatus, newStatus InvoiceStatus) *InvoiceStatusChangedEvent {
	return &InvoiceStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(InvoiceStatusChangedEventType, "Invoice", inv.ID, inv.TenantID),
		InvoiceNumber:   inv.InvoiceNumber,
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}
