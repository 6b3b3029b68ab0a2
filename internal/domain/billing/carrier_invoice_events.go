package billing

import (
	"github.com/tms/backend/internal/domain/shared"
)

// Carrier invoice event types
const (
	CarrierInvoiceReceivedEventType      = "billing.carrier_invoice.received"
	CarrierInvoiceStatusChangedEventType = "billing.carrier_invoice.status_changed"
)

// CarrierInvoiceReceivedEvent is raised when a carrier invoice is registered
type CarrierInvoiceReceivedEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string `json:"invoice_number"`
	CarrierID     string `json:"carrier_id"`
}

// NewCarrierInvoiceReceivedEvent creates a new CarrierInvoiceReceivedEvent
func NewCarrierInvoiceReceivedEvent(ci *CarrierInvoice) *CarrierInvoiceReceivedEvent {
	return &CarrierInvoiceReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(CarrierInvoiceReceivedEventType, "CarrierInvoice", ci.ID, ci.TenantID),
		InvoiceNumber:   ci.InvoiceNumber,
		CarrierID:       ci.CarrierID.String(),
	}
}

// CarrierInvoiceStatusChangedEvent is raised on every carrier invoice transition
type CarrierInvoiceStatusChangedEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string               `json:"invoice_number"`
	OldStatus     CarrierInvoiceStatus `json:"old_status"`
	NewStatus     CarrierInvoiceStatus `json:"new_status"`
}

// NewCarrierInvoiceStatusChangedEvent creates a new CarrierInvoiceStatusChangedEvent
func NewCarrierInvoiceStatusChangedEvent(ci *CarrierInvoice, oldStatus, newStatus CarrierInvoiceStatus) *CarrierInvoiceStatusChangedEvent {
	return &CarrierInvoiceStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(CarrierInvoiceStatusChangedEventType, "CarrierInvoice", ci.ID, ci.TenantID),
		InvoiceNumber:   ci.InvoiceNumber,
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}
