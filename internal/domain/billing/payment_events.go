package billing

import (
	"github.com/tms/backend/internal/domain/shared"
)

// Payment event types
const (
	PaymentCreatedEventType       = "billing.payment.created"
	PaymentStatusChangedEventType = "billing.payment.status_changed"
)

// PaymentCreatedEvent is raised when a payment is registered
type PaymentCreatedEvent struct {
	shared.BaseDomainEvent
	Reference string           `json:"reference"`
	Direction PaymentDirection `json:"direction"`
}

// NewPaymentCreatedEvent creates a new PaymentCreatedEvent
func NewPaymentCreatedEvent(p *Payment) *PaymentCreatedEvent {
	return &PaymentCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(PaymentCreatedEventType, "Payment", p.ID, p.TenantID),
		Reference:       p.Reference,
		Direction:       p.Direction,
	}
}

// PaymentStatusChangedEvent is raised on every payment status transition
type PaymentStatusChangedEvent struct {
	shared.BaseDomainEvent
	Reference string        `json:"reference"`
	OldStatus PaymentStatus `json:"old_status"`
	NewStatus PaymentStatus `json:"new_status"`
}

// NewPaymentStatusChangedEvent creates a new PaymentStatusChangedEvent
func NewPaymentStatusChangedEvent(p *Payment, oldStatus, newStatus PaymentStatus) *PaymentStatusChangedEvent {
	return &PaymentStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(PaymentStatusChangedEventType, "Payment", p.ID, p.TenantID),
		Reference:       p.Reference,
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}
